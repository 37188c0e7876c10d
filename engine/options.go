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
	"log/slog"

	"rivaas.dev/serializer/codec"
)

// DefaultMaxNesting is the default limit on how deeply values may nest.
// It stops runaway recursion on cyclic pointer graphs.
const DefaultMaxNesting = 32

// config holds the engine configuration.
type config struct {
	registry   *codec.Registry
	naming     NamingStrategy
	maxNesting int
	logger     *slog.Logger
}

func defaultConfig() *config {
	return &config{
		registry:   codec.Default(),
		naming:     DefaultNaming(),
		maxNesting: DefaultMaxNesting,
		logger:     slog.New(slog.DiscardHandler),
	}
}

func (c *config) validate() error {
	if c.naming == nil {
		return ErrInvalidNaming
	}
	if c.maxNesting <= 0 {
		return ErrInvalidMaxNesting
	}
	if c.registry == nil {
		c.registry = codec.Default()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	return nil
}

// Option configures an [Engine].
type Option func(*config)

// WithRegistry sets the codec registry used to resolve formats.
// The default is [codec.Default].
func WithRegistry(r *codec.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithNamingStrategy sets how field names are translated.
// The default is [DefaultNaming].
//
// Example:
//
//	eng := engine.MustNew(engine.WithNamingStrategy(engine.SnakeCase))
func WithNamingStrategy(s NamingStrategy) Option {
	return func(c *config) {
		c.naming = s
	}
}

// WithMaxNesting sets the maximum nesting of containers.
// When exceeded, operations return [ErrNestingTooDeep].
// The default is [DefaultMaxNesting] (32).
func WithMaxNesting(n int) Option {
	return func(c *config) {
		c.maxNesting = n
	}
}

// WithLogger sets the logger for field-level diagnostics.
// Exclusions are logged at debug level. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
