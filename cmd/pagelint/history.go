package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagelint/pagelint/internal/config"
	"github.com/pagelint/pagelint/internal/history"
	"github.com/pagelint/pagelint/internal/model"
	"github.com/pagelint/pagelint/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show past audit results",
		Long: `History reads the local audit database written by check.

Without arguments it lists every audited URL with its most recent
result. With a URL argument it shows all stored results for that URL,
newest first.

Examples:
  # List all audited URLs with their latest verdict
  pagelint history

  # Show the full history of one URL
  pagelint history https://example.com/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	db, err := history.Open(config.XDGDataDir(), history.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no audit history found (run 'pagelint check' first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if len(args) == 1 {
		results, err := db.HistoryFor(ctx, args[0])
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Printf("No stored results for %s\n", args[0])
			return nil
		}
		return printHistory(results)
	}

	targets, err := db.ListTargets(ctx)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Println("No stored results")
		return nil
	}

	// One report with the latest result per URL, printed in the same
	// format as a check run.
	latest := model.NewRunReport()
	for _, target := range targets {
		result, err := db.LatestFor(ctx, target)
		if err != nil {
			return err
		}
		if result != nil {
			latest.Add(*result)
		}
	}

	_, err = report.NewSimpleWriter(os.Stdout).Write(latest)
	return err
}

// printHistory prints all stored results for one URL, newest first.
func printHistory(results []model.Result) error {
	for _, result := range results {
		marker := "[NG]"
		if result.Verdict.Valid {
			marker = "[OK]"
		}
		fmt.Printf("%s  %s  %s (%d issue(s))\n",
			result.DateAudited.Format("2006-01-02 15:04:05"),
			marker,
			result.URL,
			result.IssueCount,
		)
	}
	return nil
}
