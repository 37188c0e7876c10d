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

package serializer_test

import (
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/serializer"
	"rivaas.dev/serializer/engine"
)

type Post struct {
	ID      int     `serializer:"id"`
	Title   string  `serializer:"title" groups:"public"`
	Draft   string  `serializer:"draft" groups:"admin"`
	Score   int     `serializer:"score" since:"2"`
	Summary *string `serializer:"summary"`
	Replies []*Post `serializer:"replies" maxdepth:"1"`
}

var _ = Describe("Serializer Adapter", func() {
	var (
		a      *serializer.Adapter
		built  *engine.SerializationContext
		dbuilt *engine.DeserializationContext
	)

	BeforeEach(func() {
		built, dbuilt = nil, nil
		a = serializer.MustNew(engine.MustNew(), serializer.WithEvents(serializer.Events{
			SerializationContextBuilt:   func(ctx *engine.SerializationContext) { built = ctx },
			DeserializationContextBuilt: func(ctx *engine.DeserializationContext) { dbuilt = ctx },
		}))
	})

	Describe("precedence", func() {
		It("lets the per-call mapping win over defaults", func() {
			a.SetDefaultSerializationContext(serializer.Context{"groups": []string{"a"}})

			_, err := a.Serialize(Post{}, serializer.Context{"groups": []string{"b"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(built.Groups()).To(Equal([]string{"b"}))
		})

		It("keeps defaults for keys the call does not set", func() {
			a.SetDefaultSerializationContext(serializer.Context{"version": 2})

			out, err := a.Serialize(Post{ID: 1, Score: 5}, serializer.Context{"groups": []string{"Default"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(MatchJSON(`{"id":1,"score":5}`))
		})
	})

	Describe("context translation", func() {
		It("builds groups, version and attributes from a mixed mapping", func() {
			_, err := a.Serialize(Post{}, serializer.Context{
				"groups":  []string{"public"},
				"version": "2",
				"extra":   "x",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(built.Groups()).To(Equal([]string{"public"}))
			version, ok := built.Version()
			Expect(ok).To(BeTrue())
			Expect(version).To(Equal(2))
			Expect(built.Attributes()).To(Equal(engine.Attributes{"extra": "x"}))
		})

		It("treats empty values like absent keys", func() {
			_, err := a.Serialize(Post{}, serializer.Context{
				"version":       0,
				"serializeNull": false,
				"groups":        []string{},
			})
			Expect(err).NotTo(HaveOccurred())

			_, ok := built.Version()
			Expect(ok).To(BeFalse())
			Expect(built.SerializeNull()).To(BeFalse())
			Expect(built.HasGroups()).To(BeFalse())
			Expect(built.Attributes()).To(BeEmpty())
		})

		It("steps a fresh deserialization context to the requested depth", func() {
			_, err := a.FromStructured(map[string]any{}, reflect.TypeFor[Post](), serializer.Context{"depth": 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(dbuilt.Depth()).To(Equal(4))
		})
	})

	Describe("end to end", func() {
		It("filters fields by group and version", func() {
			out, err := a.Serialize(Post{ID: 1, Title: "t", Draft: "d", Score: 3}, serializer.Context{
				"groups":  []string{"Default", "public"},
				"version": 1,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(MatchJSON(`{"id":1,"title":"t"}`))
		})

		It("emits nulls only when asked", func() {
			out, err := a.Serialize(Post{ID: 1}, serializer.Context{"groups": []string{"Default"}, "serializeNull": true})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(MatchJSON(`{"id":1,"score":0,"summary":null,"replies":null}`))
		})

		It("honors maxdepth when checks are enabled", func() {
			post := Post{ID: 1, Replies: []*Post{{ID: 2, Replies: []*Post{{ID: 3}}}}}

			out, err := a.Serialize(post, serializer.Context{
				"groups":               []string{"Default"},
				"enableMaxDepthChecks": true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(MatchJSON(`{"id":1,"score":0,"replies":[{"id":2,"score":0}]}`))
		})

		It("renames fields through the naming attribute", func() {
			type Account struct {
				UserID int
			}

			v, err := a.ToStructured(Account{UserID: 9}, serializer.Context{"naming": "snake"})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(map[string]any{"user_id": int64(9)}))
		})

		It("round-trips through another format", func() {
			a.SetSerializeTo("yaml")
			a.SetDeserializeFrom("yaml")

			out, err := a.Serialize(Post{ID: 7, Title: "hello"}, nil)
			Expect(err).NotTo(HaveOccurred())

			post, err := serializer.DeserializeAs[Post](a, out, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(post).To(Equal(Post{ID: 7, Title: "hello"}))
		})
	})

	Describe("explicit presence", func() {
		It("applies zero values", func() {
			strict := serializer.MustNew(engine.MustNew(), serializer.WithExplicitPresence())

			ctx, err := strict.SerializationContext(serializer.Context{"version": 0})
			Expect(err).NotTo(HaveOccurred())
			version, ok := ctx.Version()
			Expect(ok).To(BeTrue())
			Expect(version).To(BeZero())

			out, err := strict.Serialize(Post{ID: 1, Score: 4}, serializer.Context{"version": 1, "groups": []string{"Default"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(MatchJSON(`{"id":1}`))
		})
	})
})
