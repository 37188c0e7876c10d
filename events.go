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
	"time"

	"rivaas.dev/serializer/engine"
)

// Operation names an adapter operation in events, logs and metrics.
type Operation string

// Adapter operations.
const (
	OperationSerialize      Operation = "serialize"
	OperationToStructured   Operation = "to_structured"
	OperationDeserialize    Operation = "deserialize"
	OperationFromStructured Operation = "from_structured"
)

// Events provides hooks for observability without coupling.
// Nil hooks are skipped.
type Events struct {
	// SerializationContextBuilt is called with every serialization context
	// the adapter builds, before it is handed to the engine.
	SerializationContextBuilt func(ctx *engine.SerializationContext)

	// DeserializationContextBuilt is called with every deserialization
	// context the adapter builds, before it is handed to the engine.
	DeserializationContextBuilt func(ctx *engine.DeserializationContext)

	// Done is called when an operation returns, with its error if any.
	Done func(op Operation, elapsed time.Duration, err error)
}
