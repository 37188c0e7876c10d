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
	"reflect"

	"rivaas.dev/serializer/codec"
)

// Engine converts between typed Go values, structured values and encoded
// documents, filtering fields according to a context.
//
// Structured values are nil, bool, int64, uint64, float64, string,
// []any and map[string]any.
//
// Engine is safe for concurrent use by multiple goroutines. Contexts are
// not: each call needs its own.
type Engine struct {
	cfg *config
}

// New creates an [Engine] with the given options.
// Returns an error if the configuration is invalid.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg}, nil
}

// MustNew creates an [Engine] with the given options.
// Panics if the configuration is invalid.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("engine.MustNew: %v", err))
	}

	return e
}

// Registry returns the codec registry the engine resolves formats with.
func (e *Engine) Registry() *codec.Registry {
	return e.cfg.registry
}

// Serialize converts data to its structured form and encodes it in format.
// A nil ctx behaves like an empty context.
func (e *Engine) Serialize(data any, format codec.Type, ctx *SerializationContext) (string, error) {
	enc, err := e.cfg.registry.Encoder(format)
	if err != nil {
		return "", err
	}
	v, err := e.ToStructured(data, ctx)
	if err != nil {
		return "", err
	}
	out, err := enc.Encode(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", format, err)
	}

	return string(out), nil
}

// ToStructured converts data to its structured form.
// A nil ctx behaves like an empty context.
func (e *Engine) ToStructured(data any, ctx *SerializationContext) (any, error) {
	if ctx == nil {
		ctx = NewSerializationContext()
	}
	w := &encodeWalker{cfg: e.cfg, ctx: &ctx.Context, attrs: ctx.attributes}

	return w.walk(reflect.ValueOf(data), "", 0, 0)
}

// Deserialize decodes data from format and converts the result to a value
// of type target.
// A nil ctx behaves like an empty context.
func (e *Engine) Deserialize(data string, target reflect.Type, format codec.Type, ctx *DeserializationContext) (any, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	dec, err := e.cfg.registry.Decoder(format)
	if err != nil {
		return nil, err
	}
	var raw any
	if err := dec.Decode([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	return e.FromStructured(raw, target, ctx)
}

// FromStructured converts a structured value to a value of type target.
// A nil ctx behaves like an empty context.
func (e *Engine) FromStructured(data any, target reflect.Type, ctx *DeserializationContext) (any, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if ctx == nil {
		ctx = NewDeserializationContext()
	}
	w := &decodeWalker{cfg: e.cfg, ctx: &ctx.Context, attrs: ctx.attributes}
	prepared, err := w.prepare(target, data, "", ctx.Depth(), 0)
	if err != nil {
		return nil, err
	}

	return decodeInto(prepared, target)
}
