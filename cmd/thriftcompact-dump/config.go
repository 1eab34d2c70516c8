package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names, allowing callers to customize them while
// keeping sensible defaults.
type Flags struct {
	Schema    string
	Output    string
	LogLevel  string
	LogFormat string
}

// Config holds CLI flag values.
//
// Create instances with NewConfig and register CLI flags with
// Config.RegisterFlags.
type Config struct {
	Flags Flags

	SchemaPath string
	Output     string
	LogLevel   string
	LogFormat  string
}

// NewConfig returns a new Config with default flag names.
func NewConfig() *Config {
	f := Flags{
		Schema:    "schema",
		Output:    "output",
		LogLevel:  "log-level",
		LogFormat: "log-format",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds this tool's flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.SchemaPath, c.Flags.Schema, "s", "",
		"path to a YAML schema file; if unset, the input is dumped without one")
	flags.StringVarP(&c.Output, c.Flags.Output, "o", "-",
		"output file path (- for stdout)")
	flags.StringVar(&c.LogLevel, c.Flags.LogLevel, "info",
		"log level (debug, info, warn, error)")
	flags.StringVar(&c.LogFormat, c.Flags.LogFormat, "logfmt",
		"log format (logfmt, json)")
}

// RegisterCompletions registers shell completions for this tool's flags
// on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.LogLevel,
		cobra.FixedCompletions([]string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.LogLevel, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.LogFormat,
		cobra.FixedCompletions([]string{"logfmt", "json"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.LogFormat, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Output, noFileComp)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Output, err)
	}

	return nil
}
