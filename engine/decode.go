// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// goFieldTag is a tag no field carries, so mapstructure matches the Go
// field names produced by prepare.
const goFieldTag = "engine_field"

var (
	bytesType           = reflect.TypeFor[[]byte]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// decodeWalker rewrites a structured value into the shape mapstructure
// expects for a target type: serialized names become Go field names and
// excluded fields are dropped.
type decodeWalker struct {
	cfg   *config
	ctx   *Context
	attrs Attributes
}

func (w *decodeWalker) prepare(target reflect.Type, data any, path string, depth, nesting int) (any, error) {
	if data == nil {
		return nil, nil
	}
	if nesting > w.cfg.maxNesting {
		return nil, &FieldError{Path: path, Err: ErrNestingTooDeep}
	}

	for target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	if target == timeType || reflect.PointerTo(target).Implements(textUnmarshalerType) {
		return data, nil
	}

	switch target.Kind() {
	case reflect.Struct:
		return w.prepareStruct(target, data, path, depth+1, nesting)
	case reflect.Map:
		if isEmptyText(data) {
			return nil, nil
		}
		m, ok := asMap(data)
		if !ok {
			return data, nil
		}
		out := make(map[string]any, len(m))
		for k, v := range m {
			item, err := w.prepare(target.Elem(), v, joinPath(path, k), depth, nesting+1)
			if err != nil {
				return nil, err
			}
			out[k] = item
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		if target.Kind() == reflect.Slice && target.Elem().Kind() == reflect.Uint8 {
			return data, nil
		}
		if isEmptyText(data) {
			return nil, nil
		}
		list, ok := data.([]any)
		if !ok {
			return data, nil
		}
		out := make([]any, len(list))
		for i, v := range list {
			item, err := w.prepare(target.Elem(), v, joinPath(path, fmt.Sprint(i)), depth, nesting+1)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	default:
		return data, nil
	}
}

// prepareStruct maps the object data onto the fields of target, which sit at
// the given object depth.
func (w *decodeWalker) prepareStruct(target reflect.Type, data any, path string, depth, nesting int) (any, error) {
	if isEmptyText(data) {
		return map[string]any{}, nil
	}
	m, ok := asMap(data)
	if !ok {
		return nil, &FieldError{Path: path, Err: fmt.Errorf("%w: cannot decode %T into %s", ErrUnsupportedType, data, target)}
	}
	fields, err := fieldsOf(target)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(fields))
	for i := range fields {
		f := &fields[i]
		name := w.cfg.naming.TranslateName(*f, w.attrs)
		raw, ok := m[name]
		if !ok || raw == nil {
			continue
		}
		fieldPath := joinPath(path, name)

		if reason, skip := exclude(f, w.ctx, depth); skip {
			w.cfg.logger.Debug("field excluded", "field", fieldPath, "reason", reason)
			continue
		}

		item, err := w.prepare(f.typ, raw, fieldPath, depth, nesting+1)
		if err != nil {
			return nil, err
		}
		setPath(out, f.path, item)
	}

	return out, nil
}

// setPath stores v under the nested keys of path, creating intermediate
// objects for embedded structs.
func setPath(m map[string]any, path []string, v any) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}

func asMap(data any) (map[string]any, bool) {
	switch m := data.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out, err := cast.ToStringMapE(m)
		return out, err == nil
	}

	return nil, false
}

// isEmptyText reports whether data is the empty string. Formats without
// typed empties, such as XML, decode an empty object or list that way.
func isEmptyText(data any) bool {
	s, ok := data.(string)
	return ok && s == ""
}

// decodeInto converts a prepared structured value into a new value of type
// target.
func decodeInto(prepared any, target reflect.Type) (any, error) {
	ptr := reflect.New(target)
	if prepared == nil {
		return ptr.Elem().Interface(), nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			base64BytesHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Result:           ptr.Interface(),
		TagName:          goFieldTag,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(prepared); err != nil {
		return nil, err
	}

	return ptr.Elem().Interface(), nil
}

// base64BytesHook decodes base64 strings into []byte fields.
func base64BytesHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != bytesType {
		return data, nil
	}
	s, _ := data.(string)

	return base64.StdEncoding.DecodeString(s)
}
