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
	"io"
	"reflect"

	"github.com/spf13/cobra"

	"rivaas.dev/serializer"
)

func newConvertCmd(opts *options) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Re-encode stdin from one format to another through the adapter",
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []serializer.Option
			if from != "" {
				extra = append(extra, serializer.WithDeserializeFrom(from))
			}
			if to != "" {
				extra = append(extra, serializer.WithSerializeTo(to))
			}
			a, err := opts.newAdapter(cmd, extra...)
			if err != nil {
				return err
			}
			call, err := opts.callContext()
			if err != nil {
				return err
			}

			in, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			doc, err := a.Deserialize(string(in), reflect.TypeFor[any](), call)
			if err != nil {
				return err
			}
			out, err := a.Serialize(doc, call)
			if err != nil {
				return err
			}

			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format (default: the settings' deserializeFrom, or json)")
	cmd.Flags().StringVar(&to, "to", "", "output format (default: the settings' serializeTo, or json)")

	return cmd
}
