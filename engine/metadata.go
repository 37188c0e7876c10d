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
	"fmt"
	"maps"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Struct tags read by the engine.
const (
	TagName     = "serializer" // serialized name; "-" skips the field
	TagJSON     = "json"       // fallback for the serialized name
	TagGroups   = "groups"     // comma-separated group list
	TagSince    = "since"      // first version that has the field
	TagUntil    = "until"      // last version that has the field
	TagMaxDepth = "maxdepth"   // deepest object level the field is emitted at
)

// Field describes a serializable struct field.
type Field struct {
	Name           string   // Go field name
	SerializedName string   // Name from the serializer or json tag, "" if untagged
	Groups         []string // Groups the field belongs to
	Since          *int     // Lowest version that includes the field
	Until          *int     // Highest version that includes the field
	MaxDepth       int      // Deepest object level, 0 for unlimited

	typ   reflect.Type
	index []int
	path  []string // Go field names from the root struct, for embedded fields
}

// Type returns the Go type of the field.
func (f Field) Type() reflect.Type {
	return f.typ
}

// typeInfo is the parsed metadata of a struct type.
type typeInfo struct {
	fields []Field
	err    error
}

var (
	// RCU pattern: atomic pointer to immutable map
	typeInfoCachePtr atomic.Pointer[map[reflect.Type]*typeInfo]

	// Write-side lock (only for cache updates)
	typeInfoCacheMu sync.Mutex
)

func init() {
	m := make(map[reflect.Type]*typeInfo)
	typeInfoCachePtr.Store(&m)
}

// fieldsOf returns the serializable fields of the struct type typ.
// Results, including tag errors, are cached per type.
func fieldsOf(typ reflect.Type) ([]Field, error) {
	m := typeInfoCachePtr.Load()
	if ti, ok := (*m)[typ]; ok {
		return ti.fields, ti.err
	}

	typeInfoCacheMu.Lock()
	defer typeInfoCacheMu.Unlock()

	// Double-check: another goroutine might have populated it
	m = typeInfoCachePtr.Load()
	if ti, ok := (*m)[typ]; ok {
		return ti.fields, ti.err
	}

	ti := &typeInfo{}
	ti.fields, ti.err = parseFields(typ, nil, nil)

	newMap := make(map[reflect.Type]*typeInfo, len(*m)+1)
	maps.Copy(newMap, *m)
	newMap[typ] = ti
	typeInfoCachePtr.Store(&newMap)

	return ti.fields, ti.err
}

// parseFields walks the fields of typ. Exported embedded structs without a
// name tag are flattened into the parent.
func parseFields(typ reflect.Type, index []int, path []string) ([]Field, error) {
	var fields []Field
	for i := range typ.NumField() {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, skip := serializedName(sf)
		if skip {
			continue
		}

		fieldIndex := append(append([]int(nil), index...), i)
		fieldPath := append(append([]string(nil), path...), sf.Name)

		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			embedded, err := parseFields(sf.Type, fieldIndex, fieldPath)
			if err != nil {
				return nil, err
			}
			fields = append(fields, embedded...)
			continue
		}

		f := Field{
			Name:           sf.Name,
			SerializedName: name,
			Groups:         parseGroups(sf.Tag.Get(TagGroups)),
			typ:            sf.Type,
			index:          fieldIndex,
			path:           fieldPath,
		}

		var err error
		if f.Since, err = parseVersionTag(typ, sf, TagSince); err != nil {
			return nil, err
		}
		if f.Until, err = parseVersionTag(typ, sf, TagUntil); err != nil {
			return nil, err
		}
		if raw, ok := sf.Tag.Lookup(TagMaxDepth); ok {
			if f.MaxDepth, err = strconv.Atoi(strings.TrimSpace(raw)); err != nil || f.MaxDepth < 0 {
				return nil, fmt.Errorf("%w: %s.%s %s:%q", ErrInvalidFieldTag, typ.Name(), sf.Name, TagMaxDepth, raw)
			}
		}

		fields = append(fields, f)
	}

	return fields, nil
}

// serializedName returns the explicit serialized name of the field and
// whether the field is skipped entirely.
func serializedName(sf reflect.StructField) (string, bool) {
	for _, tag := range []string{TagName, TagJSON} {
		raw, ok := sf.Tag.Lookup(tag)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(raw, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}

	return "", false
}

func parseGroups(raw string) []string {
	var groups []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return []string{DefaultGroup}
	}

	return groups
}

func parseVersionTag(typ reflect.Type, sf reflect.StructField, tag string) (*int, error) {
	raw, ok := sf.Tag.Lookup(tag)
	if !ok {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s.%s %s:%q", ErrInvalidFieldTag, typ.Name(), sf.Name, tag, raw)
	}

	return &v, nil
}
