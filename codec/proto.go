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
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// TypeProtobuf is a constant representing the "protobuf" encoding type.
const TypeProtobuf Type = "protobuf"

func init() {
	Register(TypeProtobuf, ProtobufCodec{})
}

// ProtobufCodec encodes structured values as a google.protobuf.Value in
// the binary wire format. Values that already are [proto.Message] are
// marshaled as they are.
//
// Numbers decode as float64, as with JSON.
type ProtobufCodec struct{}

// Encode encodes v to protobuf wire format.
func (ProtobufCodec) Encode(v any) ([]byte, error) {
	if msg, ok := v.(proto.Message); ok {
		return proto.Marshal(msg)
	}

	structured, err := normalize(v)
	if err != nil {
		return nil, err
	}
	value, err := structpb.NewValue(structured)
	if err != nil {
		return nil, err
	}

	return proto.Marshal(value)
}

// Decode decodes protobuf wire data into v, which is either a
// [proto.Message] or a structured target (*any, *map[string]any).
func (ProtobufCodec) Decode(data []byte, v any) error {
	if msg, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, msg)
	}

	var value structpb.Value
	if err := proto.Unmarshal(data, &value); err != nil {
		return err
	}

	return assignStructured(v, value.AsInterface())
}
