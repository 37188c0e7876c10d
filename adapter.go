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
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"rivaas.dev/serializer/codec"
	"rivaas.dev/serializer/engine"
)

// DefaultFormat is the initial value of both format selectors.
const DefaultFormat = string(codec.TypeJSON)

// Engine is the serialization engine an [Adapter] delegates to.
// [*engine.Engine] implements it.
type Engine interface {
	Serialize(data any, format codec.Type, ctx *engine.SerializationContext) (string, error)
	ToStructured(data any, ctx *engine.SerializationContext) (any, error)
	Deserialize(data string, target reflect.Type, format codec.Type, ctx *engine.DeserializationContext) (any, error)
	FromStructured(data any, target reflect.Type, ctx *engine.DeserializationContext) (any, error)
}

// SerializerAdapter converts values to a string or structured form.
type SerializerAdapter interface {
	Serialize(data any, ctx Context) (string, error)
	ToStructured(data any, ctx Context) (any, error)
}

// DeserializerAdapter converts a string or structured form into a value of
// a target type.
type DeserializerAdapter interface {
	Deserialize(data string, target reflect.Type, ctx Context) (any, error)
	FromStructured(data any, target reflect.Type, ctx Context) (any, error)
}

var (
	_ SerializerAdapter   = (*Adapter)(nil)
	_ DeserializerAdapter = (*Adapter)(nil)
	_ Engine              = (*engine.Engine)(nil)
)

// Adapter translates untyped configuration mappings into engine contexts
// and delegates every operation to an [Engine].
//
// Each call merges its mapping over the adapter's defaults, builds a fresh
// context and passes it to the engine. Coercion and engine errors are
// returned unchanged.
//
// Adapter is safe for concurrent use. Setters may run alongside calls; a
// call uses the values in effect when it starts.
type Adapter struct {
	engine Engine

	mu                      sync.RWMutex
	serializeTo             string
	deserializeFrom         string
	serializationDefaults   Context
	deserializationDefaults Context

	policy         PresencePolicy
	logger         *slog.Logger
	events         Events
	meterProvider  metric.MeterProvider
	recorder       *recorder
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
}

// New creates an [Adapter] delegating to eng.
// Returns an error if eng is nil or the metric instruments cannot be created.
//
// Example:
//
//	a, err := serializer.New(engine.MustNew(),
//	    serializer.WithSerializeTo("yaml"),
//	    serializer.WithDefaultSerializationContext(serializer.Context{"groups": []string{"public"}}),
//	)
func New(eng Engine, opts ...Option) (*Adapter, error) {
	if eng == nil {
		return nil, ErrNilEngine
	}

	a := &Adapter{
		engine:          eng,
		serializeTo:     DefaultFormat,
		deserializeFrom: DefaultFormat,
		logger:          slog.New(slog.DiscardHandler),
		meterProvider:   noop.NewMeterProvider(),
		tracerProvider:  tracenoop.NewTracerProvider(),
	}
	for _, opt := range opts {
		opt(a)
	}

	r, err := newRecorder(a.meterProvider)
	if err != nil {
		return nil, err
	}
	a.recorder = r
	a.tracer = a.tracerProvider.Tracer(instrumentationName)

	return a, nil
}

// MustNew creates an [Adapter] delegating to eng.
// Panics if construction fails.
func MustNew(eng Engine, opts ...Option) *Adapter {
	a, err := New(eng, opts...)
	if err != nil {
		panic(fmt.Sprintf("serializer.MustNew: %v", err))
	}

	return a
}

// Serialize converts data to a string in the serialize-to format.
func (a *Adapter) Serialize(data any, ctx Context) (out string, err error) {
	format, defaults := a.serializeSnapshot()
	defer a.observe(a.begin(OperationSerialize, format), &err)

	sctx, err := a.buildSerialization(OperationSerialize, merge(defaults, ctx))
	if err != nil {
		return "", err
	}

	return a.engine.Serialize(data, codec.Type(format), sctx)
}

// ToStructured converts data to a structured value (maps, lists and
// scalars) without encoding it.
func (a *Adapter) ToStructured(data any, ctx Context) (out any, err error) {
	_, defaults := a.serializeSnapshot()
	defer a.observe(a.begin(OperationToStructured, ""), &err)

	sctx, err := a.buildSerialization(OperationToStructured, merge(defaults, ctx))
	if err != nil {
		return nil, err
	}

	return a.engine.ToStructured(data, sctx)
}

// Deserialize converts a string in the deserialize-from format into a
// value of type target.
func (a *Adapter) Deserialize(data string, target reflect.Type, ctx Context) (out any, err error) {
	format, defaults := a.deserializeSnapshot()
	defer a.observe(a.begin(OperationDeserialize, format), &err)

	dctx, err := a.buildDeserialization(OperationDeserialize, merge(defaults, ctx))
	if err != nil {
		return nil, err
	}

	return a.engine.Deserialize(data, target, codec.Type(format), dctx)
}

// FromStructured converts a structured value into a value of type target.
func (a *Adapter) FromStructured(data any, target reflect.Type, ctx Context) (out any, err error) {
	_, defaults := a.deserializeSnapshot()
	defer a.observe(a.begin(OperationFromStructured, ""), &err)

	dctx, err := a.buildDeserialization(OperationFromStructured, merge(defaults, ctx))
	if err != nil {
		return nil, err
	}

	return a.engine.FromStructured(data, target, dctx)
}

// DeserializeAs is the generic form of [Adapter.Deserialize].
//
// Example:
//
//	user, err := serializer.DeserializeAs[User](a, body, serializer.Context{"version": 2})
func DeserializeAs[T any](a *Adapter, data string, ctx Context) (T, error) {
	v, err := a.Deserialize(data, reflect.TypeFor[T](), ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	return assertType[T](v)
}

// FromStructuredAs is the generic form of [Adapter.FromStructured].
func FromStructuredAs[T any](a *Adapter, data any, ctx Context) (T, error) {
	v, err := a.FromStructured(data, reflect.TypeFor[T](), ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	return assertType[T](v)
}

func assertType[T any](v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrUnexpectedType, v, zero)
	}

	return t, nil
}

// SerializationContext merges ctx over the serialization defaults and
// returns the context Serialize would pass to the engine.
func (a *Adapter) SerializationContext(ctx Context) (*engine.SerializationContext, error) {
	_, defaults := a.serializeSnapshot()
	return a.buildSerialization(OperationSerialize, merge(defaults, ctx))
}

// DeserializationContext merges ctx over the deserialization defaults and
// returns the context Deserialize would pass to the engine.
func (a *Adapter) DeserializationContext(ctx Context) (*engine.DeserializationContext, error) {
	_, defaults := a.deserializeSnapshot()
	return a.buildDeserialization(OperationDeserialize, merge(defaults, ctx))
}

// SetSerializeTo sets the format used by Serialize.
func (a *Adapter) SetSerializeTo(format string) {
	a.mu.Lock()
	a.serializeTo = format
	a.mu.Unlock()
}

// SerializeTo returns the format used by Serialize.
func (a *Adapter) SerializeTo() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.serializeTo
}

// SetDeserializeFrom sets the format used by Deserialize.
func (a *Adapter) SetDeserializeFrom(format string) {
	a.mu.Lock()
	a.deserializeFrom = format
	a.mu.Unlock()
}

// DeserializeFrom returns the format used by Deserialize.
func (a *Adapter) DeserializeFrom() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.deserializeFrom
}

// SetDefaultSerializationContext replaces the serialization defaults.
// The previous defaults are discarded, not merged.
func (a *Adapter) SetDefaultSerializationContext(ctx Context) {
	ctx = ctx.Clone()
	a.mu.Lock()
	a.serializationDefaults = ctx
	a.mu.Unlock()
}

// DefaultSerializationContext returns a copy of the serialization defaults.
func (a *Adapter) DefaultSerializationContext() Context {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.serializationDefaults.Clone()
}

// SetDefaultDeserializationContext replaces the deserialization defaults.
// The previous defaults are discarded, not merged.
func (a *Adapter) SetDefaultDeserializationContext(ctx Context) {
	ctx = ctx.Clone()
	a.mu.Lock()
	a.deserializationDefaults = ctx
	a.mu.Unlock()
}

// DefaultDeserializationContext returns a copy of the deserialization defaults.
func (a *Adapter) DefaultDeserializationContext() Context {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.deserializationDefaults.Clone()
}

// serializeSnapshot returns the serialize-to format and the serialization
// defaults. Setters replace the defaults map rather than mutating it, so
// the returned map may be read without the lock.
func (a *Adapter) serializeSnapshot() (string, Context) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.serializeTo, a.serializationDefaults
}

func (a *Adapter) deserializeSnapshot() (string, Context) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.deserializeFrom, a.deserializationDefaults
}

func (a *Adapter) builder(op Operation) contextBuilder {
	return contextBuilder{policy: a.policy, logger: a.logger, op: op}
}

func (a *Adapter) buildSerialization(op Operation, m Context) (*engine.SerializationContext, error) {
	ctx, err := buildSerializationContext(a.builder(op), m)
	if err != nil {
		return nil, err
	}
	if a.events.SerializationContextBuilt != nil {
		a.events.SerializationContextBuilt(ctx)
	}

	return ctx, nil
}

func (a *Adapter) buildDeserialization(op Operation, m Context) (*engine.DeserializationContext, error) {
	ctx, err := buildDeserializationContext(a.builder(op), m)
	if err != nil {
		return nil, err
	}
	if a.events.DeserializationContextBuilt != nil {
		a.events.DeserializationContextBuilt(ctx)
	}

	return ctx, nil
}

// observe records the outcome of o.
func (a *Adapter) observe(o operation, errp *error) {
	elapsed := time.Since(o.start)
	err := *errp
	op, format := o.op, o.format

	o.end(err)

	if err != nil {
		a.logger.Debug("operation failed", "operation", op, "format", format, "error", err)
	}
	a.recorder.record(op, format, elapsed, err)
	if a.events.Done != nil {
		a.events.Done(op, elapsed, err)
	}
}
