package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zero-day-ai/toolgraph/cmd/toolgraph/internal"
)

// GlobalFlags holds global flags available to all commands
type GlobalFlags struct {
	Verbose      bool
	Quiet        bool
	NoColor      bool
	OutputFormat string
	ConfigFile   string
	EnvFile      string
	Timeout      time.Duration
}

var globalFlags = &GlobalFlags{}

// configFlagBindings maps flag names to the config keys they override.
var configFlagBindings = map[string]string{
	"neo4j-uri":      "neo4j.uri",
	"neo4j-user":     "neo4j.username",
	"neo4j-database": "neo4j.database",
	"browser-url":    "neo4j.browser_url",
	"catalog":        "catalog.path",
	"strict":         "load.strict",
}

// RegisterGlobalFlags registers persistent flags on the root command
func RegisterGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "Suppress progress lines")
	flags.BoolVar(&globalFlags.NoColor, "no-color", false, "Disable colored output")
	flags.StringVarP(&globalFlags.OutputFormat, "output", "o", "text", "Output format (text|json)")
	flags.StringVar(&globalFlags.ConfigFile, "config", "", "Path to config file (default: ./toolgraph.yaml if present)")
	flags.StringVar(&globalFlags.EnvFile, "env-file", "", "Path to a .env file (default: ./.env if present)")
	flags.DurationVar(&globalFlags.Timeout, "timeout", 0, "Abort the run after this long (0 disables)")

	flags.String("neo4j-uri", "", "Neo4j connection URI (overrides neo4j.uri)")
	flags.String("neo4j-user", "", "Neo4j username (overrides neo4j.username)")
	flags.String("neo4j-database", "", "Neo4j database name (overrides neo4j.database)")
	flags.String("browser-url", "", "Neo4j Browser URL shown after a load (overrides neo4j.browser_url)")
	flags.String("catalog", "", "Catalog YAML file (default: embedded catalog)")
}

// addStrictFlag registers --strict on a command that can end with skipped items.
func addStrictFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "Exit with status 2 when any relationship or ownership edge is missing")
}

// flagBindings returns the bindings for the flags present on this command.
func flagBindings(flags *pflag.FlagSet) map[string]string {
	bindings := make(map[string]string, len(configFlagBindings))
	for name, key := range configFlagBindings {
		if flags.Lookup(name) != nil {
			bindings[name] = key
		}
	}
	return bindings
}

// ParseGlobalFlags parses and validates global flags from the command
func ParseGlobalFlags(cmd *cobra.Command) (*GlobalFlags, error) {
	if _, err := internal.ParseOutputFormat(globalFlags.OutputFormat); err != nil {
		return nil, internal.WrapError(internal.ExitConfigError, "invalid --output", err)
	}

	if globalFlags.Verbose && globalFlags.Quiet {
		return nil, internal.NewCLIError(internal.ExitConfigError, "--verbose and --quiet cannot be used together")
	}

	if globalFlags.Timeout < 0 {
		return nil, internal.NewCLIError(internal.ExitConfigError, "--timeout must not be negative")
	}

	return globalFlags, nil
}

// GetOutputFormat returns the parsed OutputFormat enum
func (f *GlobalFlags) GetOutputFormat() internal.OutputFormat {
	format, err := internal.ParseOutputFormat(f.OutputFormat)
	if err != nil {
		return internal.FormatText
	}
	return format
}

// IsVerbose returns true if verbose mode is enabled
func (f *GlobalFlags) IsVerbose() bool {
	return f.Verbose && !f.Quiet
}

// IsQuiet returns true if quiet mode is enabled
func (f *GlobalFlags) IsQuiet() bool {
	return f.Quiet
}
