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

// Package codec provides the wire formats used by the serializer engine.
//
// The codec package defines [Encoder] and [Decoder] interfaces and a
// [Registry] that maps a format name ([Type]) to its implementation. The
// adapter's format selectors ("json", "xml", ...) are looked up here.
//
// # Built-in Codecs
//
// Every built-in codec registers itself into the [Default] registry:
//
//   - json: encoding/json
//   - yaml: github.com/goccy/go-yaml
//   - toml: github.com/BurntSushi/toml
//   - msgpack: github.com/vmihailenco/msgpack/v5
//   - protobuf: google.protobuf.Value wire format
//   - xml: element-per-key layout under a <result> root
//
// All of them encode structured values (map[string]any, []any and scalars)
// and decode into a *any target.
//
// # Custom Codecs
//
// Register custom codecs with [Register], or on a private [Registry]:
//
//	type CSVCodec struct{}
//
//	func (CSVCodec) Encode(v any) ([]byte, error) { ... }
//	func (CSVCodec) Decode(data []byte, v any) error { ... }
//
//	codec.Register(codec.Type("csv"), CSVCodec{})
package codec
