// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"marmot-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the flags shared by all subcommands.
type rootOptions struct {
	verbose    bool
	rcFile     string
	noRC       bool
	rootPrefix string
}

// newRootCommand assembles the marmot command tree. Each call builds a
// fresh tree with its own flag state so tests can run commands in
// isolation.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "marmot",
		Short: "A conda-compatible environment manager",
		Long: TitleStyle.Render("marmot") + SubtitleStyle.Render(" - A conda-compatible environment manager") + `

marmot manages package environments laid out the conda way: a root
prefix holding an envs/ directory and a shared pkgs cache. Configuration
is merged from CLI flags, environment variables, an rc file, and spec
files under a strict precedence order, and contradictory combinations
are rejected before anything is installed.

` + SubtitleStyle.Render("Examples:") + `
  marmot install -n myenv xtensor         Install into a named environment
  marmot install -f env.yaml              Install from an environment description
  marmot install -f specs.txt -c conda-forge xtl
  marmot install --print-config-only -n myenv xtensor`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.rcFile, "rc-file", "", "run-control file (default is ~/.marmotrc)")
	rootCmd.PersistentFlags().BoolVar(&opts.noRC, "no-rc", false, "skip run-control file loading")
	rootCmd.PersistentFlags().StringVarP(&opts.rootPrefix, "root-prefix", "r", "", "root prefix holding envs/ and the package cache")

	rootCmd.AddCommand(newInstallCommand(opts))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
