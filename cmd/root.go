package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ai-setup/internal/setup"
)

// rootFlags are the global flags shared by every subcommand.
var rootFlags struct {
	debug      bool
	color      string
	configPath string
	statePath  string
}

// rootCmd is the base command for the CLI tool `ai-setup`.
var rootCmd = &cobra.Command{
	Use:   "ai-setup",
	Short: "Interactive setup for Claude Code and Codex CLI",
	Long: `ai-setup writes the API configuration of Claude Code or Codex CLI,
optionally registers MCP servers and persists the required environment
variables in your shell profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&rootFlags.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&rootFlags.color, "color", "auto", "Color output: auto, always or never")
	flags.StringVarP(&rootFlags.configPath, "config", "c", "", "Path to config.yaml (default: $XDG_CONFIG_HOME/ai-setup/config.yaml)")
	flags.StringVar(&rootFlags.statePath, "state", "", "Path to state.json (default: next to config.yaml)")

	rootCmd.AddCommand(newToolCmd("claude", "Configure Claude Code"))
	rootCmd.AddCommand(newToolCmd("codex", "Configure Codex CLI"))
	rootCmd.AddCommand(statusCmd)
}

// Execute runs the CLI and returns the process exit code. SIGINT and SIGTERM
// cancel the running command, which then exits with ExitCanceled.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	code := ExitCode(err)
	switch {
	case code == ExitCanceled:
		fmt.Fprintln(os.Stderr, "\nConfiguration cancelled")
	case err != nil && !alreadyReported(err):
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return code
}

// alreadyReported is true for errors the setup flow has printed itself.
func alreadyReported(err error) bool {
	return errors.Is(err, setup.ErrMissingCredential) || errors.Is(err, setup.ErrAborted)
}
