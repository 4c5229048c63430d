// Package main provides the entry point for the pagelint CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pagelint.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagelint",
		Short: "HTML structure and accessibility checker",
		Long: `Pagelint fetches web pages and audits them for HTML structure and
accessibility problems: missing alt text, broken heading hierarchy,
deprecated tags, unlabeled form inputs, unreachable links, and more.

Targets come from command-line arguments or a newline-delimited file
(urls.txt by default). Failing pages are exported to a timestamped CSV
and every result is saved to a local history database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
