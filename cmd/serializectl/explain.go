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

package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"rivaas.dev/serializer/engine"
)

// Explain modes.
const (
	modeSerialize   = "serialize"
	modeDeserialize = "deserialize"
)

func newExplainCmd(opts *options) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print the engine context built from the defaults and --set values",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newAdapter(cmd)
			if err != nil {
				return err
			}
			call, err := opts.callContext()
			if err != nil {
				return err
			}

			var rows []row
			switch mode {
			case modeSerialize:
				ctx, err := a.SerializationContext(call)
				if err != nil {
					return err
				}
				rows = describe(&ctx.Context)
			case modeDeserialize:
				ctx, err := a.DeserializationContext(call)
				if err != nil {
					return err
				}
				rows = append(describe(&ctx.Context), row{"Depth", strconv.Itoa(ctx.Depth())})
			default:
				return fmt.Errorf("unknown mode %q: want %s or %s", mode, modeSerialize, modeDeserialize)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), render(mode, rows))
			return err
		},
	}

	cmd.Flags().StringVar(&mode, "mode", modeSerialize, "context kind: serialize or deserialize")

	return cmd
}

type row struct {
	label string
	value string
}

// describe lists the settings of c followed by its attributes in key order.
func describe(c *engine.Context) []row {
	groups := "(all)"
	if c.HasGroups() {
		groups = strings.Join(c.Groups(), ", ")
	}
	version := "(unset)"
	if v, ok := c.Version(); ok {
		version = strconv.Itoa(v)
	}

	rows := []row{
		{"Groups", groups},
		{"Version", version},
		{"Serialize null", strconv.FormatBool(c.SerializeNull())},
		{"Depth checks", strconv.FormatBool(c.MaxDepthChecks())},
	}

	attrs := c.Attributes()
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		rows = append(rows, row{"@" + k, cast.ToString(attrs[k])})
	}

	return rows
}

func render(mode string, rows []row) string {
	categoryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Bold(true)

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.label+":"))
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Width(labelWidth + 2).
		PaddingLeft(2).
		Align(lipgloss.Left)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	var out strings.Builder
	_, _ = out.WriteString(categoryStyle.Render(modeTitle(mode)+" context") + "\n")
	for _, r := range rows {
		_, _ = out.WriteString(labelStyle.Render(r.label+":") + "  " + valueStyle.Render(r.value) + "\n")
	}

	return out.String()
}

func modeTitle(mode string) string {
	if mode == modeDeserialize {
		return "Deserialization"
	}

	return "Serialization"
}
