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
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instrumentationName is the meter name used for all adapter instruments.
const instrumentationName = "rivaas.dev/serializer"

// Metric attribute keys.
const (
	attrOperation = "operation"
	attrFormat    = "format"
)

// recorder holds the adapter's metric instruments.
type recorder struct {
	operations metric.Int64Counter
	errors     metric.Int64Counter
	duration   metric.Float64Histogram
}

func newRecorder(provider metric.MeterProvider) (*recorder, error) {
	meter := provider.Meter(instrumentationName)
	r := &recorder{}

	var err error
	r.operations, err = meter.Int64Counter(
		"serializer.operations",
		metric.WithDescription("Total number of adapter operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}

	r.errors, err = meter.Int64Counter(
		"serializer.operation.errors",
		metric.WithDescription("Number of adapter operations that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create errors counter: %w", err)
	}

	r.duration, err = meter.Float64Histogram(
		"serializer.operation.duration",
		metric.WithDescription("Duration of adapter operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return r, nil
}

// record adds one operation to every instrument. format is empty for the
// structured operations.
func (r *recorder) record(op Operation, format string, elapsed time.Duration, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String(attrOperation, string(op)),
		attribute.String(attrFormat, format),
	)

	r.operations.Add(ctx, 1, attrs)
	if err != nil {
		r.errors.Add(ctx, 1, attrs)
	}
	r.duration.Record(ctx, elapsed.Seconds(), attrs)
}
