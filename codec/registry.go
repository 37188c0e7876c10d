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
	"slices"
	"sync"
)

// ErrUnknownFormat is returned when no encoder or decoder is registered
// for a format.
var ErrUnknownFormat = errors.New("unknown format")

// Registry holds encoders and decoders keyed by format.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	encoders map[Type]Encoder
	decoders map[Type]Decoder
}

// NewRegistry returns an empty registry.
// Use [Default] for a registry with the built-in formats.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[Type]Encoder),
		decoders: make(map[Type]Decoder),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry that the built-in codecs
// register themselves into.
func Default() *Registry {
	return defaultRegistry
}

// Register registers c as both encoder and decoder for name.
func (r *Registry) Register(name Type, c Codec) {
	r.RegisterEncoder(name, c)
	r.RegisterDecoder(name, c)
}

// RegisterEncoder registers an encoder for the given format, replacing any
// previous registration.
func (r *Registry) RegisterEncoder(name Type, encoder Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[name] = encoder
}

// RegisterDecoder registers a decoder for the given format, replacing any
// previous registration.
func (r *Registry) RegisterDecoder(name Type, decoder Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[name] = decoder
}

// Encoder retrieves the registered encoder for the given format.
// The error wraps [ErrUnknownFormat] when none is registered.
func (r *Registry) Encoder(name Type) (Encoder, error) {
	r.mu.RLock()
	encoder, exists := r.encoders[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("encoder not found for type %q: %w", name, ErrUnknownFormat)
	}

	return encoder, nil
}

// Decoder retrieves the registered decoder for the given format.
// The error wraps [ErrUnknownFormat] when none is registered.
func (r *Registry) Decoder(name Type) (Decoder, error) {
	r.mu.RLock()
	decoder, exists := r.decoders[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("decoder not found for type %q: %w", name, ErrUnknownFormat)
	}

	return decoder, nil
}

// Has reports whether both an encoder and a decoder are registered for name.
func (r *Registry) Has(name Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, enc := r.encoders[name]
	_, dec := r.decoders[name]

	return enc && dec
}

// Formats returns the sorted list of formats with an encoder or a decoder.
func (r *Registry) Formats() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[Type]struct{}, len(r.encoders))
	for name := range r.encoders {
		seen[name] = struct{}{}
	}
	for name := range r.decoders {
		seen[name] = struct{}{}
	}
	out := make([]Type, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	slices.Sort(out)

	return out
}

// Register registers c in the default registry.
func Register(name Type, c Codec) {
	defaultRegistry.Register(name, c)
}

// RegisterEncoder registers an encoder in the default registry.
func RegisterEncoder(name Type, encoder Encoder) {
	defaultRegistry.RegisterEncoder(name, encoder)
}

// RegisterDecoder registers a decoder in the default registry.
func RegisterDecoder(name Type, decoder Decoder) {
	defaultRegistry.RegisterDecoder(name, decoder)
}

// GetEncoder retrieves an encoder from the default registry.
func GetEncoder(name Type) (Encoder, error) {
	return defaultRegistry.Encoder(name)
}

// GetDecoder retrieves a decoder from the default registry.
func GetDecoder(name Type) (Decoder, error) {
	return defaultRegistry.Decoder(name)
}
