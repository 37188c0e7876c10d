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

package engine

import (
	"bytes"
	"log/slog"
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"rivaas.dev/serializer/codec"
)

type Address struct {
	Street string `serializer:"street"`
	City   string `serializer:"city" groups:"detail"`
}

type Profile struct {
	ID        int               `serializer:"id" groups:"Default,public"`
	Name      string            `serializer:"name" groups:"public"`
	Email     string            `serializer:"email" groups:"admin"`
	Nickname  *string           `serializer:"nickname"`
	Bio       string            `serializer:"bio" since:"2"`
	Legacy    string            `serializer:"legacy" until:"1"`
	Address   *Address          `serializer:"address" groups:"public"`
	Tags      []string          `serializer:"tags"`
	Labels    map[string]string `serializer:"labels"`
	Avatar    []byte            `serializer:"avatar"`
	CreatedAt time.Time         `serializer:"created_at"`
}

type Node struct {
	Name     string  `serializer:"name"`
	Children []*Node `serializer:"children" maxdepth:"1"`
}

type Item struct {
	SKU    string   `serializer:"sku"`
	Qty    int      `serializer:"qty"`
	Price  float64  `serializer:"price"`
	Tags   []string `serializer:"tags"`
	Active bool     `serializer:"active"`
}

type loop struct {
	Next *loop `serializer:"next"`
}

var createdAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func fullProfile() Profile {
	return Profile{
		ID:        1,
		Name:      "Ada",
		Email:     "ada@example.com",
		Bio:       "b",
		Legacy:    "l",
		Address:   &Address{Street: "Main", City: "X"},
		Tags:      []string{"a"},
		Labels:    map[string]string{"k": "v"},
		Avatar:    []byte("hi"),
		CreatedAt: createdAt,
	}
}

func serializationContext(fn func(*SerializationContext)) *SerializationContext {
	ctx := NewSerializationContext()
	fn(ctx)
	return ctx
}

// ToStructuredTestSuite covers field selection on the serialization side.
type ToStructuredTestSuite struct {
	suite.Suite

	engine *Engine
}

func (s *ToStructuredTestSuite) SetupTest() {
	s.engine = MustNew()
}

func (s *ToStructuredTestSuite) TestAllFields() {
	got, err := s.engine.ToStructured(fullProfile(), nil)
	s.Require().NoError(err)
	s.Equal(map[string]any{
		"id":         int64(1),
		"name":       "Ada",
		"email":      "ada@example.com",
		"bio":        "b",
		"legacy":     "l",
		"address":    map[string]any{"street": "Main", "city": "X"},
		"tags":       []any{"a"},
		"labels":     map[string]any{"k": "v"},
		"avatar":     "aGk=",
		"created_at": "2024-01-02T03:04:05Z",
	}, got)
}

func (s *ToStructuredTestSuite) TestPointerInput() {
	p := fullProfile()
	got, err := s.engine.ToStructured(&p, NewSerializationContext())
	s.Require().NoError(err)
	s.Equal(int64(1), got.(map[string]any)["id"])
}

func (s *ToStructuredTestSuite) TestGroups() {
	ctx := serializationContext(func(c *SerializationContext) {
		c.SetGroups([]string{"public"})
	})
	got, err := s.engine.ToStructured(fullProfile(), ctx)
	s.Require().NoError(err)
	s.Equal(map[string]any{
		"id":      int64(1),
		"name":    "Ada",
		"address": map[string]any{},
	}, got)
}

func (s *ToStructuredTestSuite) TestVersion() {
	v1 := serializationContext(func(c *SerializationContext) { c.SetVersion(1) })
	got, err := s.engine.ToStructured(fullProfile(), v1)
	s.Require().NoError(err)
	s.Contains(got, "legacy")
	s.NotContains(got, "bio")

	v2 := serializationContext(func(c *SerializationContext) { c.SetVersion(2) })
	got, err = s.engine.ToStructured(fullProfile(), v2)
	s.Require().NoError(err)
	s.Contains(got, "bio")
	s.NotContains(got, "legacy")
}

func (s *ToStructuredTestSuite) TestSerializeNull() {
	got, err := s.engine.ToStructured(Profile{ID: 1}, nil)
	s.Require().NoError(err)
	s.NotContains(got, "nickname")
	s.NotContains(got, "address")

	ctx := serializationContext(func(c *SerializationContext) { c.SetSerializeNull(true) })
	got, err = s.engine.ToStructured(Profile{ID: 1}, ctx)
	s.Require().NoError(err)
	m := got.(map[string]any)
	s.Contains(m, "nickname")
	s.Nil(m["nickname"])
	s.Contains(m, "address")
	s.Nil(m["address"])
}

func (s *ToStructuredTestSuite) TestListsKeepNulls() {
	got, err := s.engine.ToStructured([]*Address{nil, {Street: "Main"}}, nil)
	s.Require().NoError(err)
	s.Equal([]any{nil, map[string]any{"street": "Main", "city": ""}}, got)
}

func (s *ToStructuredTestSuite) TestMaxDepth() {
	tree := &Node{Name: "root", Children: []*Node{
		{Name: "a", Children: []*Node{{Name: "b"}}},
	}}

	got, err := s.engine.ToStructured(tree, nil)
	s.Require().NoError(err)
	s.Equal(map[string]any{
		"name": "root",
		"children": []any{map[string]any{
			"name":     "a",
			"children": []any{map[string]any{"name": "b"}},
		}},
	}, got, "maxdepth is ignored unless checks are enabled")

	ctx := serializationContext(func(c *SerializationContext) { c.EnableMaxDepthChecks() })
	got, err = s.engine.ToStructured(tree, ctx)
	s.Require().NoError(err)
	s.Equal(map[string]any{
		"name":     "root",
		"children": []any{map[string]any{"name": "a"}},
	}, got)
}

func (s *ToStructuredTestSuite) TestNamingAttribute() {
	type account struct {
		UserID      int
		DisplayName string `serializer:"display"`
	}

	ctx := serializationContext(func(c *SerializationContext) { c.SetAttribute(NamingAttribute, "snake") })
	got, err := s.engine.ToStructured(account{UserID: 1, DisplayName: "x"}, ctx)
	s.Require().NoError(err)
	s.Equal(map[string]any{"user_id": int64(1), "display": "x"}, got)
}

func (s *ToStructuredTestSuite) TestTextMarshaler() {
	type host struct {
		Addr netip.Addr `serializer:"addr"`
	}

	got, err := s.engine.ToStructured(host{Addr: netip.MustParseAddr("10.0.0.1")}, nil)
	s.Require().NoError(err)
	s.Equal(map[string]any{"addr": "10.0.0.1"}, got)
}

func (s *ToStructuredTestSuite) TestNonStringMapKeys() {
	got, err := s.engine.ToStructured(map[int]string{1: "one"}, nil)
	s.Require().NoError(err)
	s.Equal(map[string]any{"1": "one"}, got)
}

func (s *ToStructuredTestSuite) TestUnsupportedType() {
	type withChan struct {
		C chan int
	}

	_, err := s.engine.ToStructured(withChan{}, nil)
	s.Require().ErrorIs(err, ErrUnsupportedType)

	var fieldErr *FieldError
	s.Require().ErrorAs(err, &fieldErr)
	s.Equal("C", fieldErr.Path)
}

func (s *ToStructuredTestSuite) TestCycleHitsNestingLimit() {
	l := &loop{}
	l.Next = l

	_, err := MustNew(WithMaxNesting(4)).ToStructured(l, nil)
	s.Require().ErrorIs(err, ErrNestingTooDeep)
}

func (s *ToStructuredTestSuite) TestInvalidTag() {
	type bad struct {
		V int `since:"soon"`
	}

	_, err := s.engine.ToStructured(bad{}, nil)
	s.Require().ErrorIs(err, ErrInvalidFieldTag)
}

func TestToStructuredTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ToStructuredTestSuite))
}

func TestEngine_FromStructured(t *testing.T) {
	t.Parallel()

	eng := MustNew()
	data := map[string]any{
		"id":         float64(7),
		"name":       "Ada",
		"email":      "e",
		"nickname":   "n",
		"bio":        "b",
		"legacy":     "l",
		"address":    map[string]any{"street": "Main", "city": "X"},
		"tags":       []any{"a", "b"},
		"labels":     map[string]any{"k": "v"},
		"avatar":     "aGk=",
		"created_at": "2024-01-02T03:04:05Z",
		"unknown":    true,
	}

	got, err := eng.FromStructured(data, reflect.TypeFor[Profile](), nil)
	require.NoError(t, err)
	p, ok := got.(Profile)
	require.True(t, ok)

	assert.True(t, createdAt.Equal(p.CreatedAt))
	p.CreatedAt = time.Time{}

	nick := "n"
	assert.Equal(t, Profile{
		ID:       7,
		Name:     "Ada",
		Email:    "e",
		Nickname: &nick,
		Bio:      "b",
		Legacy:   "l",
		Address:  &Address{Street: "Main", City: "X"},
		Tags:     []string{"a", "b"},
		Labels:   map[string]string{"k": "v"},
		Avatar:   []byte("hi"),
	}, p)
}

func TestEngine_FromStructured_Groups(t *testing.T) {
	t.Parallel()

	ctx := NewDeserializationContext()
	ctx.SetGroups([]string{"public"})

	got, err := MustNew().FromStructured(map[string]any{
		"id":      1,
		"name":    "Ada",
		"email":   "e",
		"address": map[string]any{"street": "Main", "city": "X"},
	}, reflect.TypeFor[Profile](), ctx)
	require.NoError(t, err)
	assert.Equal(t, Profile{ID: 1, Name: "Ada", Address: &Address{}}, got)
}

func TestEngine_FromStructured_DepthStart(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"name":     "root",
		"children": []any{map[string]any{"name": "a"}},
	}
	eng := MustNew()

	fresh := NewDeserializationContext()
	fresh.EnableMaxDepthChecks()
	got, err := eng.FromStructured(data, reflect.TypeFor[Node](), fresh)
	require.NoError(t, err)
	assert.Equal(t, Node{Name: "root", Children: []*Node{{Name: "a"}}}, got)

	deeper := NewDeserializationContext()
	deeper.EnableMaxDepthChecks()
	deeper.IncreaseDepth()
	got, err = eng.FromStructured(data, reflect.TypeFor[Node](), deeper)
	require.NoError(t, err)
	assert.Equal(t, Node{Name: "root"}, got, "the root object starts below the context depth")
}

func TestEngine_FromStructured_EmbeddedAndText(t *testing.T) {
	t.Parallel()

	type host struct {
		Base
		Addr netip.Addr `serializer:"addr"`
	}

	got, err := MustNew().FromStructured(map[string]any{"id": 3, "addr": "10.0.0.1"}, reflect.TypeFor[host](), nil)
	require.NoError(t, err)
	assert.Equal(t, host{Base: Base{ID: 3}, Addr: netip.MustParseAddr("10.0.0.1")}, got)
}

func TestEngine_FromStructured_Errors(t *testing.T) {
	t.Parallel()

	eng := MustNew()

	_, err := eng.FromStructured(map[string]any{}, nil, nil)
	require.ErrorIs(t, err, ErrNilTarget)

	_, err = eng.FromStructured([]any{1}, reflect.TypeFor[Address](), nil)
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = eng.FromStructured(map[string]any{"address": 5}, reflect.TypeFor[Profile](), nil)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "address", fieldErr.Path)

	got, err := eng.FromStructured(nil, reflect.TypeFor[Address](), nil)
	require.NoError(t, err)
	assert.Equal(t, Address{}, got, "null decodes to the zero value")
}

func TestEngine_SerializeJSON(t *testing.T) {
	t.Parallel()

	eng := MustNew()
	out, err := eng.Serialize(Address{Street: "Main", City: "X"}, codec.TypeJSON, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"X","street":"Main"}`, out)

	_, err = eng.Serialize(Address{}, "csv", nil)
	require.ErrorIs(t, err, codec.ErrUnknownFormat)

	_, err = eng.Deserialize(`{}`, reflect.TypeFor[Address](), "csv", nil)
	require.ErrorIs(t, err, codec.ErrUnknownFormat)

	_, err = eng.Deserialize(`{}`, nil, codec.TypeJSON, nil)
	require.ErrorIs(t, err, ErrNilTarget)

	_, err = eng.Deserialize(`{`, reflect.TypeFor[Address](), codec.TypeJSON, nil)
	require.Error(t, err)
}

func TestEngine_RoundTripAllFormats(t *testing.T) {
	t.Parallel()

	eng := MustNew()
	want := Item{SKU: "A1", Qty: 3, Price: 9.5, Tags: []string{"x", "y"}, Active: true}

	for _, format := range eng.Registry().Formats() {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			out, err := eng.Serialize(want, format, nil)
			require.NoError(t, err)

			got, err := eng.Deserialize(out, reflect.TypeFor[Item](), format, nil)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestEngine_RoundTripEntryField(t *testing.T) {
	t.Parallel()

	type envelope struct {
		Entry string `serializer:"entry"`
	}

	eng := MustNew()
	want := envelope{Entry: "x"}

	for _, format := range eng.Registry().Formats() {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			out, err := eng.Serialize(want, format, nil)
			require.NoError(t, err)

			got, err := eng.Deserialize(out, reflect.TypeFor[envelope](), format, nil)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestEngine_LogsExclusions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	eng := MustNew(WithLogger(logger))

	ctx := NewSerializationContext()
	ctx.SetGroups([]string{"public"})
	_, err := eng.ToStructured(Profile{ID: 1}, ctx)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "field=email reason=groups")
	assert.Contains(t, buf.String(), "field=address reason=null")
}

func TestNew_InvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := New(WithMaxNesting(0))
	require.ErrorIs(t, err, ErrInvalidMaxNesting)

	_, err = New(WithNamingStrategy(nil))
	require.ErrorIs(t, err, ErrInvalidNaming)

	assert.Panics(t, func() { MustNew(WithMaxNesting(-1)) })

	eng, err := New(WithRegistry(nil), WithLogger(nil))
	require.NoError(t, err)
	assert.Same(t, codec.Default(), eng.Registry())
}
