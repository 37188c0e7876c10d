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

package serializer

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an [Adapter].
type Option func(*Adapter)

// WithSerializeTo sets the format used by [Adapter.Serialize].
// The default is "json".
func WithSerializeTo(format string) Option {
	return func(a *Adapter) {
		a.serializeTo = format
	}
}

// WithDeserializeFrom sets the format used by [Adapter.Deserialize].
// The default is "json".
func WithDeserializeFrom(format string) Option {
	return func(a *Adapter) {
		a.deserializeFrom = format
	}
}

// WithDefaultSerializationContext sets the mapping applied under every
// per-call mapping of Serialize and ToStructured.
func WithDefaultSerializationContext(ctx Context) Option {
	return func(a *Adapter) {
		a.serializationDefaults = ctx.Clone()
	}
}

// WithDefaultDeserializationContext sets the mapping applied under every
// per-call mapping of Deserialize and FromStructured.
func WithDefaultDeserializationContext(ctx Context) Option {
	return func(a *Adapter) {
		a.deserializationDefaults = ctx.Clone()
	}
}

// WithPresencePolicy sets how recognized keys are detected.
// The default is [PresenceNonEmpty].
func WithPresencePolicy(policy PresencePolicy) Option {
	return func(a *Adapter) {
		a.policy = policy
	}
}

// WithExplicitPresence applies recognized keys whenever they are set, even
// to an empty value such as version 0 or serializeNull false.
//
// This changes results for callers that relied on empty values being
// ignored. It is equivalent to WithPresencePolicy(PresenceExplicit).
func WithExplicitPresence() Option {
	return WithPresencePolicy(PresenceExplicit)
}

// WithLogger sets the logger for context translation diagnostics.
// The default discards all output.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	a := serializer.MustNew(eng, serializer.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithEvents sets observability hooks.
//
// Example:
//
//	serializer.WithEvents(serializer.Events{
//		Done: func(op serializer.Operation, d time.Duration, err error) {
//			log.Printf("%s took %s", op, d)
//		},
//	})
func WithEvents(events Events) Option {
	return func(a *Adapter) {
		a.events = events
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider used to record
// operation counts, errors and durations. The default records nothing.
// A nil provider is ignored.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(a *Adapter) {
		if provider != nil {
			a.meterProvider = provider
		}
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider. Each operation
// becomes a root span named "rivaas.dev/serializer/<operation>". The
// default records nothing. A nil provider is ignored.
//
// Example:
//
//	tp := sdktrace.NewTracerProvider()
//	a := serializer.MustNew(eng, serializer.WithTracerProvider(tp))
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(a *Adapter) {
		if provider != nil {
			a.tracerProvider = provider
		}
	}
}

// WithSettings applies loaded [Settings]: both formats, both default
// contexts and the presence policy.
func WithSettings(s Settings) Option {
	return func(a *Adapter) {
		if s.SerializeTo != "" {
			a.serializeTo = s.SerializeTo
		}
		if s.DeserializeFrom != "" {
			a.deserializeFrom = s.DeserializeFrom
		}
		a.serializationDefaults = s.SerializationContext.Clone()
		a.deserializationDefaults = s.DeserializationContext.Clone()
		if s.ExplicitPresence {
			a.policy = PresenceExplicit
		}
	}
}
