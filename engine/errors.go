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
	"errors"
	"fmt"
)

// Static errors for engine operations.
var (
	ErrNilTarget         = errors.New("target type is nil")
	ErrUnsupportedType   = errors.New("unsupported type")
	ErrNestingTooDeep    = errors.New("exceeded maximum nesting depth")
	ErrNegativeDepth     = errors.New("depth cannot be smaller than zero")
	ErrInvalidFieldTag   = errors.New("invalid field tag")
	ErrInvalidNaming     = errors.New("naming strategy is nil")
	ErrInvalidMaxNesting = errors.New("max nesting must be positive")
)

// FieldError reports a failure at a specific path of the value being
// converted, such as "address.lines.2".
//
// Use [errors.As] to check for FieldError:
//
//	var fieldErr *engine.FieldError
//	if errors.As(err, &fieldErr) {
//	    fmt.Println(fieldErr.Path)
//	}
type FieldError struct {
	Path string // Dot-separated path of the failing value
	Err  error  // Underlying error
}

// Error returns a formatted error message.
func (e *FieldError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("field %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As compatibility.
func (e *FieldError) Unwrap() error {
	return e.Err
}
