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

package codec

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInvalidTarget is returned when a decoder cannot store its result in
// the value it was given.
var ErrInvalidTarget = errors.New("invalid decode target")

// isStructuredTarget reports whether v asks for a structured value
// rather than a typed one.
func isStructuredTarget(v any) bool {
	switch v.(type) {
	case *any, *map[string]any:
		return true
	default:
		return false
	}
}

// assignStructured stores a decoded structured value into v.
func assignStructured(v any, value any) error {
	switch target := v.(type) {
	case *any:
		*target = value
		return nil
	case *map[string]any:
		if value == nil {
			*target = nil
			return nil
		}
		m, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: cannot store %T in %T", ErrInvalidTarget, value, v)
		}
		*target = m
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrInvalidTarget, v)
	}
}

// normalize rewrites typed slices and string-keyed maps into []any and
// map[string]any so that encoders limited to the generic shapes accept them.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			n, err := normalize(elem)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			n, err := normalize(elem)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case []byte:
		return t, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key type %s is not supported", rv.Type().Key())
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			n, err := normalize(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = n
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			n, err := normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return v, nil
	}
}
