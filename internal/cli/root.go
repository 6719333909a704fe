// Package cli is the command-line front end: it runs one audit over local
// files without the HTTP service or a database.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alturath/hr-audit/internal/domain/audit"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitMisconfig = 2
)

func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "hr-audit",
		Short: "Reconcile attendance exports into a daily audit",
		Long: `hr-audit merges gate logs, mobile-app status exports and biometric
monthly grids, applies the leave registry and reports who was on time,
late, on leave or absent.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	root.AddCommand(newRunCommand())
	return root
}

// Execute is the entry point called from main.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitCode(err)
	}
	return ExitOK
}

func exitCode(err error) int {
	if errors.Is(err, audit.ErrConfiguration) {
		return ExitMisconfig
	}
	return ExitFailure
}
