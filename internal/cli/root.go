// Package cli provides the command-line interface for kousei.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kousei/internal/cli/commands"
	"github.com/leapstack-labs/kousei/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:   "kousei",
		Short: "kousei - Japanese prose linter",
		Long: `kousei checks Japanese prose for grammar, style and notation issues.

Rules run against plain text; correction modes (novel, official, blog, sns,
academic) and style guidelines decide which rules apply and how strictly.
Candidates can optionally be confirmed by an LLM before they are reported.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if verbose && cfg.File != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", cfg.File)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = commands.WithLogger(ctx, logger)
			ctx = commands.WithConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Japanese prose linter
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: kousei.yaml in the project root)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewLintCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewModesCommand())
	rootCmd.AddCommand(commands.NewServeCommand(Version))
	rootCmd.AddCommand(commands.NewReplCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit code: 0 on
// success, 1 when lint issues were found and 2 on any other error.
func Execute() int {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, commands.ErrIssuesFound):
		return 1
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for kousei.

To load completions:

Bash:
  $ source <(kousei completion bash)

Zsh:
  $ kousei completion zsh > "${fpath[1]}/_kousei"

Fish:
  $ kousei completion fish | source

PowerShell:
  PS> kousei completion powershell | Out-String | Invoke-Expression
`,
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
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
