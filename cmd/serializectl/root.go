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
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"rivaas.dev/serializer"
	"rivaas.dev/serializer/codec"
	"rivaas.dev/serializer/engine"
)

// options holds the flags shared by every subcommand.
type options struct {
	verbose        bool
	settingsPath   string
	settingsFormat string
	set            []string
}

// newRootCmd creates and configures the root command
func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "serializectl",
		Short:         "Inspect and exercise the serializer adapter",
		Long:          `Builds engine contexts from configuration mappings and converts documents between formats.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log context translation at debug level")
	flags.StringVar(&opts.settingsPath, "settings", "", "settings file (json, yaml or toml)")
	flags.StringVar(&opts.settingsFormat, "settings-format", "", "settings file format (default: from the file extension)")
	flags.StringArrayVar(&opts.set, "set", nil, "per-call context value as key=value; the value is parsed as YAML")

	rootCmd.AddCommand(newExplainCmd(opts))
	rootCmd.AddCommand(newConvertCmd(opts))

	return rootCmd
}

// newLogger returns a console logger writing to w.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// newAdapter builds an adapter from the shared flags.
func (o *options) newAdapter(cmd *cobra.Command, extra ...serializer.Option) (*serializer.Adapter, error) {
	logger := newLogger(cmd.ErrOrStderr(), o.verbose)

	adapterOpts := []serializer.Option{serializer.WithLogger(logger)}
	if o.settingsPath != "" {
		s, err := o.loadSettings()
		if err != nil {
			return nil, err
		}
		adapterOpts = append(adapterOpts, serializer.WithSettings(s))
	}
	adapterOpts = append(adapterOpts, extra...)

	eng, err := engine.New(engine.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return serializer.New(eng, adapterOpts...)
}

func (o *options) loadSettings() (serializer.Settings, error) {
	data, err := os.ReadFile(o.settingsPath)
	if err != nil {
		return serializer.Settings{}, fmt.Errorf("read settings: %w", err)
	}

	format := o.settingsFormat
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(o.settingsPath), ".")
		if format == "yml" {
			format = string(codec.TypeYAML)
		}
	}

	return serializer.LoadSettings(data, codec.Type(format))
}

// callContext parses the --set flags into a per-call mapping.
func (o *options) callContext() (serializer.Context, error) {
	if len(o.set) == 0 {
		return nil, nil
	}

	ctx := make(serializer.Context, len(o.set))
	for _, kv := range o.set {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", kv)
		}
		ctx[key] = parseValue(raw)
	}

	return ctx, nil
}

// parseValue reads raw as a YAML scalar or collection so that "2", "true"
// and "[a, b]" keep their types. Anything that does not parse stays a string.
func parseValue(raw string) any {
	var v any
	if err := (codec.YAMLCodec{}).Decode([]byte(raw), &v); err != nil || v == nil {
		return raw
	}

	return v
}
