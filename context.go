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
	"maps"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"rivaas.dev/serializer/engine"
)

// Recognized configuration keys. They configure the engine context and
// are never forwarded as attributes.
const (
	KeyGroups               = "groups"
	KeyVersion              = "version"
	KeySerializeNull        = "serializeNull"
	KeyEnableMaxDepthChecks = "enableMaxDepthChecks"
	KeyDepth                = "depth" // deserialization only
)

// Context is an untyped configuration mapping for a single call.
// Keys other than the recognized ones become engine context attributes.
type Context map[string]any

// Clone returns a shallow copy of c.
func (c Context) Clone() Context {
	if c == nil {
		return nil
	}

	return maps.Clone(c)
}

// PresencePolicy decides when a recognized key counts as present.
type PresencePolicy int

const (
	// PresenceNonEmpty applies a recognized key only when its value is not
	// empty: nil, false, numeric zero, "", "0" and empty collections are
	// treated as if the key were missing. Each ignored key is logged at
	// warn level. A serializeNull or enableMaxDepthChecks value that is
	// not empty always enables the flag, whatever it spells. This is the
	// default.
	PresenceNonEmpty PresencePolicy = iota

	// PresenceExplicit applies a recognized key whenever it is set to a
	// non-nil value, so version 0, serializeNull false and depth 0 take
	// effect and an empty groups list clears the group restriction. Flag
	// values are coerced to bool.
	PresenceExplicit
)

// String returns the policy name.
func (p PresencePolicy) String() string {
	switch p {
	case PresenceNonEmpty:
		return "non-empty"
	case PresenceExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// merge returns a new mapping holding defaults overlaid with call.
// Values from call win for identical keys; nested values are not merged.
func merge(defaults, call Context) Context {
	out := make(Context, len(defaults)+len(call))
	maps.Copy(out, defaults)
	maps.Copy(out, call)

	return out
}

// contextBuilder translates a merged mapping into an engine context.
// It consumes the mapping it is given.
type contextBuilder struct {
	policy PresencePolicy
	logger *slog.Logger
	op     Operation
}

// take removes key from m and returns its value if the key counts as
// present under the builder's policy.
func (b contextBuilder) take(m Context, key string) (any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	delete(m, key)

	if b.policy == PresenceExplicit {
		return v, v != nil
	}
	if isEmpty(v) {
		b.logger.Warn("ignoring empty context value",
			"operation", b.op, "key", key, "value", v)
		return nil, false
	}

	return v, true
}

// applyShared applies the keys common to both context kinds.
func (b contextBuilder) applyShared(c *engine.Context, m Context) error {
	if v, ok := b.take(m, KeyGroups); ok {
		groups, err := toGroups(v)
		if err != nil {
			return err
		}
		c.SetGroups(groups)
	}

	if v, ok := b.take(m, KeyVersion); ok {
		version, err := toInt(v)
		if err != nil {
			return err
		}
		c.SetVersion(version)
	}

	if v, ok := b.take(m, KeySerializeNull); ok {
		serializeNull, err := b.flag(v)
		if err != nil {
			return err
		}
		c.SetSerializeNull(serializeNull)
	}

	if v, ok := b.take(m, KeyEnableMaxDepthChecks); ok {
		enable, err := b.flag(v)
		if err != nil {
			return err
		}
		if enable {
			c.EnableMaxDepthChecks()
		}
	}

	return nil
}

// flag reads a taken boolean key. Under PresenceNonEmpty reaching this
// point already means the value is set.
func (b contextBuilder) flag(v any) (bool, error) {
	if b.policy != PresenceExplicit {
		return true, nil
	}

	return cast.ToBoolE(v)
}

// forward sets every key left in m as an attribute.
func (b contextBuilder) forward(c *engine.Context, m Context) {
	for k, v := range m {
		c.SetAttribute(k, v)
	}
	b.logger.Debug("context built", "operation", b.op, "attributes", len(m))
}

// buildSerializationContext translates m into a serialization context.
// A depth key is dropped.
func buildSerializationContext(b contextBuilder, m Context) (*engine.SerializationContext, error) {
	ctx := engine.NewSerializationContext()
	if err := b.applyShared(&ctx.Context, m); err != nil {
		return nil, err
	}
	delete(m, KeyDepth)
	b.forward(&ctx.Context, m)

	return ctx, nil
}

// buildDeserializationContext translates m into a deserialization context,
// stepping its depth counter to the requested depth.
func buildDeserializationContext(b contextBuilder, m Context) (*engine.DeserializationContext, error) {
	ctx := engine.NewDeserializationContext()
	if err := b.applyShared(&ctx.Context, m); err != nil {
		return nil, err
	}

	if v, ok := b.take(m, KeyDepth); ok {
		depth, err := toInt(v)
		if err != nil {
			return nil, err
		}
		if err := stepDepth(ctx, depth); err != nil {
			return nil, err
		}
	}
	b.forward(&ctx.Context, m)

	return ctx, nil
}

// depthStepper is a depth counter that only moves one level at a time.
type depthStepper interface {
	Depth() int
	IncreaseDepth()
	DecreaseDepth() error
}

// stepDepth moves d to target one step at a time.
func stepDepth(d depthStepper, target int) error {
	for d.Depth() < target {
		d.IncreaseDepth()
	}
	for d.Depth() > target {
		if err := d.DecreaseDepth(); err != nil {
			return err
		}
	}

	return nil
}

// toGroups coerces v to a group list. A single string is one group.
func toGroups(v any) ([]string, error) {
	if s, ok := v.(string); ok {
		return []string{s}, nil
	}

	return cast.ToStringSliceE(v)
}

// toInt coerces v to an int. Strings are read in base 10, so a leading
// zero is not an octal prefix and "0x10" is rejected.
func toInt(v any) (int, error) {
	s, ok := v.(string)
	if !ok {
		return cast.ToIntE(v)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("unable to cast %q of type string to int: %w", s, err)
	}

	return int(n), nil
}

// isEmpty reports whether v is nil, false, a numeric zero, "", "0" or an
// empty collection.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == "" || x == "0"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.String:
		return rv.Len() == 0 || rv.String() == "0"
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
