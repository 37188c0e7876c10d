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

package serializer_test

import (
	"fmt"

	"rivaas.dev/serializer"
	"rivaas.dev/serializer/codec"
	"rivaas.dev/serializer/engine"
)

type User struct {
	ID       int    `serializer:"id"`
	Name     string `serializer:"name" groups:"public"`
	Email    string `serializer:"email" groups:"admin"`
	Nickname string `serializer:"nickname" groups:"public" since:"2"`
}

func ExampleAdapter_Serialize() {
	a := serializer.MustNew(engine.MustNew())

	out, err := a.Serialize(User{ID: 1, Name: "Ada", Email: "ada@example.com", Nickname: "ace"}, serializer.Context{
		"groups":  []string{"public"},
		"version": 1,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(out)
	// Output: {"name":"Ada"}
}

func ExampleAdapter_SetDefaultSerializationContext() {
	a := serializer.MustNew(engine.MustNew())
	a.SetDefaultSerializationContext(serializer.Context{"groups": []string{"public"}})

	out, _ := a.Serialize(User{ID: 1, Name: "Ada", Email: "ada@example.com"}, serializer.Context{
		"groups": []string{"Default", "admin"},
	})
	fmt.Println(out)
	// Output: {"email":"ada@example.com","id":1}
}

func ExampleDeserializeAs() {
	a := serializer.MustNew(engine.MustNew())

	u, err := serializer.DeserializeAs[User](a, `{"id":7,"name":"Lin","email":"lin@example.com"}`, serializer.Context{
		"groups": []string{"Default", "public"},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%+v\n", u)
	// Output: {ID:7 Name:Lin Email: Nickname:}
}

func ExampleAdapter_DeserializationContext() {
	a := serializer.MustNew(engine.MustNew())

	ctx, err := a.DeserializationContext(serializer.Context{"depth": 3, "locale": "de"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	locale, _ := ctx.Attribute("locale")
	fmt.Println(ctx.Depth(), locale)
	// Output: 3 de
}

func ExampleLoadSettings() {
	s, err := serializer.LoadSettings([]byte(`
serializeTo: yaml
serializationContext:
  groups: [public]
  version: 1
`), codec.TypeYAML)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	a := serializer.MustNew(engine.MustNew(), serializer.WithSettings(s))
	out, _ := a.Serialize(User{ID: 1, Name: "Ada"}, nil)
	fmt.Print(out)
	// Output:
	// name: Ada
}
