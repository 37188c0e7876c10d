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

	"github.com/spf13/cast"
)

var (
	timeType          = reflect.TypeFor[time.Time]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// encodeWalker converts typed values to structured values.
type encodeWalker struct {
	cfg   *config
	ctx   *Context
	attrs Attributes
}

// walk converts v. depth is the level of the innermost enclosing object and
// nesting counts every container entered so far.
func (w *encodeWalker) walk(v reflect.Value, path string, depth, nesting int) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if nesting > w.cfg.maxNesting {
		return nil, &FieldError{Path: path, Err: ErrNestingTooDeep}
	}

	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		if v.Kind() == reflect.Pointer && v.Type().Implements(textMarshalerType) {
			break
		}
		v = v.Elem()
	}

	if v.Type() == timeType {
		t, _ := v.Interface().(time.Time)
		return t.Format(time.RFC3339Nano), nil
	}
	if v.Type().Implements(textMarshalerType) {
		m, _ := v.Interface().(encoding.TextMarshaler)
		text, err := m.MarshalText()
		if err != nil {
			return nil, &FieldError{Path: path, Err: err}
		}
		return string(text), nil
	}

	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.String:
		return v.String(), nil
	case reflect.Slice:
		if v.IsNil() {
			return nil, nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return base64.StdEncoding.EncodeToString(v.Bytes()), nil
		}
		return w.walkList(v, path, depth, nesting)
	case reflect.Array:
		return w.walkList(v, path, depth, nesting)
	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		return w.walkMap(v, path, depth, nesting)
	case reflect.Struct:
		return w.walkStruct(v, path, depth+1, nesting)
	default:
		return nil, &FieldError{Path: path, Err: fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())}
	}
}

// walkList converts a slice or array. Null items are kept so positions
// are preserved.
func (w *encodeWalker) walkList(v reflect.Value, path string, depth, nesting int) (any, error) {
	out := make([]any, v.Len())
	for i := range v.Len() {
		item, err := w.walk(v.Index(i), joinPath(path, fmt.Sprint(i)), depth, nesting+1)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}

	return out, nil
}

func (w *encodeWalker) walkMap(v reflect.Value, path string, depth, nesting int) (any, error) {
	out := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, &FieldError{Path: path, Err: err}
		}
		fieldPath := joinPath(path, key)
		item, err := w.walk(iter.Value(), fieldPath, depth, nesting+1)
		if err != nil {
			return nil, err
		}
		if item == nil && !w.ctx.serializeNull {
			w.cfg.logger.Debug("field excluded", "field", fieldPath, "reason", reasonNull)
			continue
		}
		out[key] = item
	}

	return out, nil
}

// walkStruct converts a struct whose fields sit at the given object depth.
func (w *encodeWalker) walkStruct(v reflect.Value, path string, depth, nesting int) (any, error) {
	fields, err := fieldsOf(v.Type())
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(fields))
	for i := range fields {
		f := &fields[i]
		name := w.cfg.naming.TranslateName(*f, w.attrs)
		fieldPath := joinPath(path, name)

		if reason, skip := exclude(f, w.ctx, depth); skip {
			w.cfg.logger.Debug("field excluded", "field", fieldPath, "reason", reason)
			continue
		}

		fv, err := v.FieldByIndexErr(f.index)
		if err != nil {
			// Nil embedded pointer: the field does not exist on this value.
			continue
		}
		item, err := w.walk(fv, fieldPath, depth, nesting+1)
		if err != nil {
			return nil, err
		}
		if item == nil && !w.ctx.serializeNull {
			w.cfg.logger.Debug("field excluded", "field", fieldPath, "reason", reasonNull)
			continue
		}
		out[name] = item
	}

	return out, nil
}

// mapKey converts a map key to a string.
func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.Type().Implements(textMarshalerType) {
		m, _ := k.Interface().(encoding.TextMarshaler)
		text, err := m.MarshalText()
		return string(text), err
	}
	s, err := cast.ToStringE(k.Interface())
	if err != nil {
		return "", fmt.Errorf("%w: map key %s", ErrUnsupportedType, k.Type())
	}

	return s, nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + "." + name
}
