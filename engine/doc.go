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

// Package engine converts Go values to and from structured data under the
// control of a per-call context.
//
// A structured value is what every codec understands: nil, booleans,
// numbers, strings, []any and map[string]any. [Engine.ToStructured] walks a
// typed value and produces one; [Engine.FromStructured] goes the other way,
// delegating type conversion to mapstructure. [Engine.Serialize] and
// [Engine.Deserialize] add an encoding step through a [codec.Registry].
//
// # Field Metadata
//
// Struct fields are described with tags:
//
//	type User struct {
//	    ID       int    `serializer:"id"`
//	    Email    string `serializer:"email" groups:"admin"`
//	    Nickname string `serializer:"nickname" since:"2"`
//	    Legacy   string `serializer:"legacy" until:"1"`
//	    Friends  []User `serializer:"friends" maxdepth:"1"`
//	    Secret   string `serializer:"-"`
//	}
//
// The serializer tag falls back to the json tag. Untagged fields belong to
// the [DefaultGroup] group.
//
// # Contexts
//
// A [SerializationContext] or [DeserializationContext] selects what an
// operation includes:
//
//	ctx := engine.NewSerializationContext()
//	ctx.SetGroups([]string{"admin"})
//	ctx.SetVersion(2)
//	out, err := eng.Serialize(user, codec.TypeJSON, ctx)
//
// Attributes set on the context are passed to the [NamingStrategy]. The
// default strategy reads the "naming" attribute ("identical", "snake" or
// "camel").
package engine
