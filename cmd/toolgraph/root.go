package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/toolgraph/internal/config"
)

// skipConfigAnnotation marks commands that run without loading configuration.
const skipConfigAnnotation = "toolgraph/skip-config"

// appConfig is the configuration loaded by the root PersistentPreRunE.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "toolgraph",
	Short: "Load the Omie and Nibo integration catalog into Neo4j",
	Long: `toolgraph loads the catalog of Omie and Nibo integration tools into a Neo4j
graph: providers, integrations, the typed relationships between them and the
PROVIDED_BY ownership edges. Every write is an idempotent merge, so a load
can be repeated safely.

Connection settings come from ./toolgraph.yaml, TOOLGRAPH_* environment
variables (for example TOOLGRAPH_NEO4J_PASSWORD) or flags.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig is called before any command runs to load configuration
func loadConfig(cmd *cobra.Command, args []string) error {
	flags, err := ParseGlobalFlags(cmd)
	if err != nil {
		return err
	}

	if skipsConfig(cmd) {
		return nil
	}

	if err := config.LoadDotEnv(flags.EnvFile); err != nil {
		return err
	}

	loader := config.NewConfigLoader(
		config.NewValidator(),
		config.WithFlags(cmd.Flags(), flagBindings(cmd.Flags())),
	)

	var cfg *config.Config
	if flags.ConfigFile != "" {
		cfg, err = loader.Load(flags.ConfigFile)
	} else {
		cfg, err = loader.LoadWithDefaults(config.DefaultConfigPath)
	}
	if err != nil {
		return err
	}

	if flags.IsVerbose() {
		cfg.Logging.Level = "debug"
	}

	appConfig = cfg
	return nil
}

func skipsConfig(cmd *cobra.Command) bool {
	if _, ok := cmd.Annotations[skipConfigAnnotation]; ok {
		return true
	}
	switch cmd.Name() {
	case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return false
}

func init() {
	RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for toolgraph.

Bash:

  $ source <(toolgraph completion bash)

Zsh:

  $ toolgraph completion zsh > "${fpath[1]}/_toolgraph"

Fish:

  $ toolgraph completion fish | source

PowerShell:

  PS> toolgraph completion powershell | Out-String | Invoke-Expression
`,
	Annotations:           map[string]string{skipConfigAnnotation: ""},
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		default:
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		}
	},
}
