// Command thriftcompact-dump reads a Compact Protocol buffer and prints
// it: schema-aware as indented JSON when a schema file is given, or as a
// raw schema-less structural dump otherwise.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/benjamin-larsen/thriftcompact/codec"
	"github.com/benjamin-larsen/thriftcompact/logging"
	"github.com/benjamin-larsen/thriftcompact/prettyprint"
	"github.com/benjamin-larsen/thriftcompact/schemayaml"
)

var (
	errReadInput   = errors.New("reading input")
	errWriteOutput = errors.New("writing output")
)

func main() {
	cfg := NewConfig()

	rootCmd := &cobra.Command{
		Use:           "thriftcompact-dump [flags] <file>",
		Short:         "Dump a Thrift Compact Protocol buffer",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(cfg, args)
		},
	}

	cfg.RegisterFlags(rootCmd.Flags())

	if err := cfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *Config, args []string) error {
	handler, err := logging.CreateHandlerWithStrings(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	logger := slog.New(handler)

	var data []byte

	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}

	if err != nil {
		return fmt.Errorf("%w: %w", errReadInput, err)
	}

	var out []byte

	if cfg.SchemaPath == "" {
		logger.Debug("dumping without a schema", "bytes", len(data))

		text, dumpErr := prettyprint.Dump(data)
		if dumpErr != nil {
			return dumpErr
		}

		out = []byte(text)
	} else {
		s, loadErr := schemayaml.LoadFile(cfg.SchemaPath)
		if loadErr != nil {
			return loadErr
		}

		logger.Debug("decoding with schema", "fields", s.Len(), "bytes", len(data))

		value, decodeErr := codec.Decode(s, data)
		if decodeErr != nil {
			return decodeErr
		}

		out, err = json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}

		out = append(out, '\n')
	}

	return writeOutput(cfg.Output, out)
}

func writeOutput(path string, out []byte) error {
	if path == "" || path == "-" {
		if _, err := os.Stdout.Write(out); err != nil {
			return fmt.Errorf("%w: %w", errWriteOutput, err)
		}

		return nil
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("%w: %w", errWriteOutput, err)
	}

	return nil
}
