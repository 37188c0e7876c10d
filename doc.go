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

// Package serializer adapts a serialization engine to a generic
// serializer/deserializer contract driven by untyped configuration maps.
//
// Each call takes a [Context], a map of options. The adapter merges it over
// its defaults, translates the result into an engine context and delegates
// to the [Engine]:
//
//	a := serializer.MustNew(engine.MustNew())
//
//	out, err := a.Serialize(user, serializer.Context{
//	    "groups":  []string{"public"},
//	    "version": 2,
//	    "naming":  "snake",
//	})
//
// # Recognized Keys
//
// The keys groups, version, serializeNull and enableMaxDepthChecks
// configure both context kinds; depth sets the starting depth of a
// deserialization context. Every other key is passed to the engine as a
// context attribute.
//
// By default a recognized key set to an empty value (nil, false, 0, "",
// "0" or an empty collection) is ignored and logged at warn level. Use
// [WithExplicitPresence] to apply such values:
//
//	a := serializer.MustNew(eng, serializer.WithExplicitPresence())
//
// # Defaults
//
// Default contexts apply to every call; per-call values win for identical
// keys. Setting defaults replaces them wholesale:
//
//	a.SetDefaultSerializationContext(serializer.Context{"serializeNull": true})
//
// Defaults, formats and the presence policy can also be loaded from a
// document with [LoadSettings] and applied with [WithSettings].
//
// # Typed Results
//
// [DeserializeAs] and [FromStructuredAs] return the target type directly:
//
//	user, err := serializer.DeserializeAs[User](a, body, nil)
//
// # Observability
//
// [WithMeterProvider] and [WithTracerProvider] record every operation as
// OpenTelemetry metrics and as one root span. [WithEvents] registers plain
// callbacks.
package serializer
