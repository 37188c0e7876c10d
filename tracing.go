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
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// operation is one adapter call in flight.
type operation struct {
	op     Operation
	format string
	start  time.Time
	span   trace.Span
}

// begin starts a root span for op. format is empty for the structured
// operations.
func (a *Adapter) begin(op Operation, format string) operation {
	_, span := a.tracer.Start(context.Background(), instrumentationName+"/"+string(op),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(attrOperation, string(op)),
			attribute.String(attrFormat, format),
		),
	)

	return operation{op: op, format: format, start: time.Now(), span: span}
}

// end closes the span of o with the outcome err.
func (o operation) end(err error) {
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	} else {
		o.span.SetStatus(codes.Ok, "")
	}
	o.span.End()
}
