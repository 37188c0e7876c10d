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
	"errors"
	"fmt"
)

// Static errors for adapter construction and typed helpers.
var (
	ErrNilEngine         = errors.New("engine is nil")
	ErrUnexpectedType    = errors.New("engine returned an unexpected type")
	ErrSettingsNotObject = errors.New("settings document must be an object")
)

// Stages of [LoadSettings] reported by [SettingsError].
const (
	StageDecode   = "decode"
	StageSchema   = "schema"
	StageMerge    = "merge"
	StageValidate = "validate"
)

// SettingsError reports a failure while loading [Settings].
//
// Use [errors.As] to check for SettingsError:
//
//	var settingsErr *serializer.SettingsError
//	if errors.As(err, &settingsErr) {
//	    fmt.Println(settingsErr.Stage)
//	}
type SettingsError struct {
	Stage string // The stage that failed (decode, schema, merge or validate)
	Err   error  // The underlying error
}

// Error returns a formatted error message.
func (e *SettingsError) Error() string {
	return fmt.Sprintf("serializer settings error during %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As compatibility.
func (e *SettingsError) Unwrap() error {
	return e.Err
}
