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
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/serializer/codec"
)

//go:embed settings.schema.json
var settingsSchema []byte

const settingsSchemaURL = "settings.schema.json"

// settingsTag is the struct tag naming Settings keys.
const settingsTag = "config"

// Settings is the file form of an adapter configuration.
//
// Example (YAML):
//
//	serializeTo: yaml
//	deserializeFrom: json
//	explicitPresence: false
//	serializationContext:
//	  groups: [public]
//	  version: 2
//	deserializationContext:
//	  depth: 1
type Settings struct {
	SerializeTo            string  `config:"serializeTo" validate:"required,codec"`
	DeserializeFrom        string  `config:"deserializeFrom" validate:"required,codec"`
	SerializationContext   Context `config:"serializationContext"`
	DeserializationContext Context `config:"deserializationContext"`
	ExplicitPresence       bool    `config:"explicitPresence"`
}

// DefaultSettings returns the settings of an adapter built without options.
func DefaultSettings() Settings {
	return Settings{
		SerializeTo:     DefaultFormat,
		DeserializeFrom: DefaultFormat,
	}
}

var (
	compileSettingsSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(settingsSchema))
		if err != nil {
			return nil, err
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(settingsSchemaURL, doc); err != nil {
			return nil, err
		}
		return compiler.Compile(settingsSchemaURL)
	})

	newSettingsValidator = sync.OnceValue(func() *validator.Validate {
		v := validator.New(validator.WithRequiredStructEnabled())
		// A format is valid when the default codec registry can both
		// encode and decode it.
		if err := v.RegisterValidation("codec", func(fl validator.FieldLevel) bool {
			return codec.Default().Has(codec.Type(fl.Field().String()))
		}); err != nil {
			panic(err)
		}
		return v
	})
)

// LoadSettings reads [Settings] from a document in the given format.
//
// The document is checked against a JSON Schema, decoded, completed from
// [DefaultSettings] and validated. Failures are reported as
// [*SettingsError].
func LoadSettings(data []byte, format codec.Type) (Settings, error) {
	dec, err := codec.GetDecoder(format)
	if err != nil {
		return Settings{}, &SettingsError{Stage: StageDecode, Err: err}
	}
	var raw any
	if err := dec.Decode(data, &raw); err != nil {
		return Settings{}, &SettingsError{Stage: StageDecode, Err: err}
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return Settings{}, &SettingsError{Stage: StageDecode, Err: ErrSettingsNotObject}
	}

	if err := validateSettingsSchema(doc); err != nil {
		return Settings{}, &SettingsError{Stage: StageSchema, Err: err}
	}

	var s Settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		TagName:          settingsTag,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Settings{}, &SettingsError{Stage: StageDecode, Err: err}
	}
	if err := decoder.Decode(doc); err != nil {
		return Settings{}, &SettingsError{Stage: StageDecode, Err: err}
	}

	if err := mergo.Merge(&s, DefaultSettings()); err != nil {
		return Settings{}, &SettingsError{Stage: StageMerge, Err: err}
	}

	if err := newSettingsValidator().Struct(s); err != nil {
		return Settings{}, &SettingsError{Stage: StageValidate, Err: err}
	}

	return s, nil
}

// validateSettingsSchema checks doc against the settings schema. The
// document is normalized through JSON first so values decoded by any codec
// carry the types the schema validator expects.
func validateSettingsSchema(doc map[string]any) error {
	schema, err := compileSettingsSchema()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	normalized, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return err
	}

	return schema.Validate(normalized)
}
