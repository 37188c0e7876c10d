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

import "github.com/BurntSushi/toml"

// TypeTOML is a constant representing the "toml" encoding type.
const TypeTOML Type = "toml"

func init() {
	Register(TypeTOML, TOMLCodec{})
}

// TOMLCodec implements TOML encoding and decoding.
//
// TOML documents are always tables, so only maps and structs can be encoded
// and a decoded structured value is always a map[string]any.
type TOMLCodec struct{}

// Encode encodes the given value v to a TOML-encoded byte slice.
func (TOMLCodec) Encode(v any) ([]byte, error) {
	return toml.Marshal(v)
}

// Decode decodes the TOML-encoded data into the value pointed to by v.
func (TOMLCodec) Decode(data []byte, v any) error {
	if !isStructuredTarget(v) {
		return toml.Unmarshal(data, v)
	}

	table := make(map[string]any)
	if err := toml.Unmarshal(data, &table); err != nil {
		return err
	}

	return assignStructured(v, table)
}
