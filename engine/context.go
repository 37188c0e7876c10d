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
	"maps"
	"slices"

	"github.com/spf13/cast"
)

// DefaultGroup is the group of every field without a groups tag.
const DefaultGroup = "Default"

// Attributes holds the free-form values of a context that are not one of
// its typed settings. Naming strategies and other field-resolution
// callbacks read them.
type Attributes map[string]any

// Get returns the attribute stored under key.
func (a Attributes) Get(key string) (any, bool) {
	v, ok := a[key]
	return v, ok
}

// String returns the attribute stored under key coerced to a string,
// or "" when it is absent or cannot be coerced.
func (a Attributes) String(key string) string {
	return cast.ToString(a[key])
}

// Clone returns a shallow copy of the attributes.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return Attributes{}
	}

	return maps.Clone(a)
}

// Context holds the settings shared by serialization and deserialization.
//
// A context controls exactly one operation. It is not safe for concurrent
// use and must not be reused across operations.
type Context struct {
	groups         []string
	version        int
	versionSet     bool
	serializeNull  bool
	maxDepthChecks bool
	attributes     Attributes
}

// SetGroups restricts the operation to fields belonging to at least one of
// groups. An empty list removes the restriction.
func (c *Context) SetGroups(groups []string) {
	c.groups = slices.Clone(groups)
}

// Groups returns the group restriction, or nil when there is none.
func (c *Context) Groups() []string {
	return slices.Clone(c.groups)
}

// HasGroups reports whether a group restriction is set.
func (c *Context) HasGroups() bool {
	return len(c.groups) > 0
}

// SetVersion sets the version used to filter fields with since/until tags.
func (c *Context) SetVersion(version int) {
	c.version = version
	c.versionSet = true
}

// Version returns the version and whether one was set.
func (c *Context) Version() (int, bool) {
	return c.version, c.versionSet
}

// SetSerializeNull controls whether null-valued fields are emitted.
// The default is false.
func (c *Context) SetSerializeNull(serializeNull bool) {
	c.serializeNull = serializeNull
}

// SerializeNull reports whether null-valued fields are emitted.
func (c *Context) SerializeNull() bool {
	return c.serializeNull
}

// EnableMaxDepthChecks makes the engine honor maxdepth field tags.
func (c *Context) EnableMaxDepthChecks() {
	c.maxDepthChecks = true
}

// MaxDepthChecks reports whether maxdepth field tags are enforced.
func (c *Context) MaxDepthChecks() bool {
	return c.maxDepthChecks
}

// SetAttribute stores a free-form attribute.
func (c *Context) SetAttribute(key string, value any) {
	if c.attributes == nil {
		c.attributes = make(Attributes)
	}
	c.attributes[key] = value
}

// Attribute returns the attribute stored under key.
func (c *Context) Attribute(key string) (any, bool) {
	return c.attributes.Get(key)
}

// Attributes returns a copy of all attributes.
func (c *Context) Attributes() Attributes {
	return c.attributes.Clone()
}

// SerializationContext configures a single serialization.
type SerializationContext struct {
	Context
}

// NewSerializationContext returns an empty serialization context.
func NewSerializationContext() *SerializationContext {
	return &SerializationContext{}
}

// DeserializationContext configures a single deserialization.
//
// In addition to the shared settings it tracks a depth counter, which is
// the nesting level the root object is considered to start from. The
// counter only moves one step at a time.
type DeserializationContext struct {
	Context
	depth int
}

// NewDeserializationContext returns an empty deserialization context with
// depth 0.
func NewDeserializationContext() *DeserializationContext {
	return &DeserializationContext{}
}

// Depth returns the current depth.
func (c *DeserializationContext) Depth() int {
	return c.depth
}

// IncreaseDepth moves the depth one level down.
func (c *DeserializationContext) IncreaseDepth() {
	c.depth++
}

// DecreaseDepth moves the depth one level up.
// It returns [ErrNegativeDepth] when the depth is already 0.
func (c *DeserializationContext) DecreaseDepth() error {
	if c.depth == 0 {
		return ErrNegativeDepth
	}
	c.depth--

	return nil
}
