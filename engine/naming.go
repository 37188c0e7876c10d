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
	"strings"
	"unicode"
)

// NamingAttribute is the context attribute read by the default naming
// strategy. Its value selects one of "identical", "snake" or "camel".
const NamingAttribute = "naming"

// NamingStrategy resolves the serialized name of a field.
// The attributes are those of the context driving the operation.
type NamingStrategy interface {
	TranslateName(field Field, attrs Attributes) string
}

// NamingStrategyFunc adapts a function to [NamingStrategy].
type NamingStrategyFunc func(field Field, attrs Attributes) string

// TranslateName calls fn.
func (fn NamingStrategyFunc) TranslateName(field Field, attrs Attributes) string {
	return fn(field, attrs)
}

// Built-in naming strategies. Each one honors an explicit serialized name.
var (
	// SerializedName uses the tag name, or the Go field name unchanged.
	SerializedName NamingStrategy = NamingStrategyFunc(func(f Field, _ Attributes) string {
		if f.SerializedName != "" {
			return f.SerializedName
		}
		return f.Name
	})

	// SnakeCase uses the tag name, or the Go field name in snake_case.
	SnakeCase NamingStrategy = NamingStrategyFunc(func(f Field, _ Attributes) string {
		if f.SerializedName != "" {
			return f.SerializedName
		}
		return toSnakeCase(f.Name)
	})

	// CamelCase uses the tag name, or the Go field name in lowerCamelCase.
	CamelCase NamingStrategy = NamingStrategyFunc(func(f Field, _ Attributes) string {
		if f.SerializedName != "" {
			return f.SerializedName
		}
		return toLowerCamel(f.Name)
	})
)

// ByAttribute picks a strategy from strategies using the value of the
// context attribute attr, and falls back to fallback when the attribute is
// absent or unknown.
func ByAttribute(attr string, strategies map[string]NamingStrategy, fallback NamingStrategy) NamingStrategy {
	return NamingStrategyFunc(func(f Field, attrs Attributes) string {
		if s, ok := strategies[attrs.String(attr)]; ok {
			return s.TranslateName(f, attrs)
		}
		return fallback.TranslateName(f, attrs)
	})
}

// DefaultNaming returns the strategy used when none is configured: it is
// selected per call by the [NamingAttribute] attribute.
func DefaultNaming() NamingStrategy {
	return ByAttribute(NamingAttribute, map[string]NamingStrategy{
		"identical": SerializedName,
		"snake":     SnakeCase,
		"camel":     CamelCase,
	}, SerializedName)
}

// toSnakeCase converts a Go identifier to snake_case, keeping acronyms
// together: "UserID" -> "user_id", "HTTPServer" -> "http_server".
func toSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// toLowerCamel lowercases the leading upper-case run of a Go identifier:
// "UserID" -> "userID", "HTTPServer" -> "httpServer", "ID" -> "id".
func toLowerCamel(s string) string {
	runes := []rune(s)
	for i := range runes {
		if !unicode.IsUpper(runes[i]) {
			break
		}
		// Keep the last upper-case letter of an acronym that starts a new word.
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}

	return string(runes)
}
