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

//go:build !integration

package serializer

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing_SpanPerOperation(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	eng := &recordingEngine{}
	a := MustNew(eng, WithTracerProvider(provider), WithSerializeTo("yaml"))

	_, err := a.Serialize(nil, nil)
	require.NoError(t, err)
	_, err = a.FromStructured(nil, reflect.TypeFor[int](), nil)
	require.NoError(t, err)

	eng.err = errEngine
	_, err = a.Deserialize("", reflect.TypeFor[int](), nil)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	assert.Equal(t, "rivaas.dev/serializer/serialize", spans[0].Name())
	assert.False(t, spans[0].Parent().IsValid(), "operations are root spans")
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String(attrFormat, "yaml"))

	assert.Equal(t, "rivaas.dev/serializer/from_structured", spans[1].Name())
	assert.Contains(t, spans[1].Attributes(), attribute.String(attrFormat, ""))

	assert.Equal(t, "rivaas.dev/serializer/deserialize", spans[2].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)
	assert.Equal(t, errEngine.Error(), spans[2].Status().Description)
	require.Len(t, spans[2].Events(), 1, "the error is recorded on the span")
	assert.Equal(t, "exception", spans[2].Events()[0].Name)
}

func TestTracing_CoercionErrorEndsSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	a := MustNew(&recordingEngine{}, WithTracerProvider(provider))

	_, err := a.ToStructured(nil, Context{KeyVersion: "two"})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "rivaas.dev/serializer/to_structured", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
