package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pagelint/pagelint/internal/auditor"
	"github.com/pagelint/pagelint/internal/config"
	"github.com/pagelint/pagelint/internal/history"
	"github.com/pagelint/pagelint/internal/linkcheck"
	"github.com/pagelint/pagelint/internal/log"
	"github.com/pagelint/pagelint/internal/model"
	"github.com/pagelint/pagelint/internal/report"
	"github.com/pagelint/pagelint/internal/rules"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [url]...",
		Short: "Audit web pages for HTML and accessibility issues",
		Long: `Check fetches each target page and audits it against a fixed rule
catalog: empty containers, missing image attributes, duplicate IDs,
heading hierarchy, deprecated tags, form labels, meta tags, character
encoding, link reachability, inline styles, inline event handlers, list
structure, and table structure.

Targets come from arguments, or from a newline-delimited file when no
arguments are given (urls.txt by default). Pages are audited one at a
time in input order; within a page, link probes run concurrently.

When at least one page fails, the failures are exported to
errors_<timestamp>.csv in the output directory.

Examples:
  # Check a single page
  pagelint check https://example.com/

  # Check every URL listed in urls.txt
  pagelint check

  # Check URLs from a custom file
  pagelint check --file targets.txt

  # Output a JSON run report
  pagelint check --json https://example.com/

  # Skip the history database
  pagelint check --no-save https://example.com/

Configuration file (.pagelint) example:
  sites:
    https://example.com/admin:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultPageTimeout,
		"Timeout for fetching each page")
	cmd.Flags().Duration("link-timeout", config.DefaultLinkTimeout,
		"Timeout for each link reachability probe")
	cmd.Flags().IntP("workers", "w", config.DefaultLinkWorkers,
		"Maximum number of concurrent link probes per page")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with all requests")

	// Target selection
	cmd.Flags().StringP("file", "f", config.DefaultTargetsFile,
		"Targets file, one URL per line (used when no arguments are given)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pagelint in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", ".",
		"Directory that receives the CSV error export")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not save results to the history database")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel the run on interrupt so a long target list can be stopped.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCheck(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.PageTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.LinkTimeout, err = cmd.Flags().GetDuration("link-timeout")
	if err != nil {
		return nil, err
	}

	cfg.LinkWorkers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.TargetsFile, err = cmd.Flags().GetString("file")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations. An explicit path that does not
	// exist is an error; a missing default file is not.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ExportDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noSave
	cfg.HistoryDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments take priority over the targets file.
	cfg.Targets = args

	return cfg, nil
}

// runCheck executes the audit run.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	targets := cfg.Targets
	if len(targets) == 0 {
		var err error
		targets, err = config.ReadTargets(cfg.TargetsFile)
		if err != nil {
			return err
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets to check (file %s is empty)", cfg.TargetsFile)
	}

	logger.Info("starting check",
		"targets", len(targets),
		"linkWorkers", cfg.LinkWorkers,
		"saveHistory", cfg.SaveHistory,
	)

	var db *history.DB
	if cfg.SaveHistory {
		var err error
		db, err = history.Open(cfg.HistoryDir, history.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Debug("history database opened", "dir", cfg.HistoryDir)
	}

	pageAuditor := newPageAuditor(cfg, logger)

	runReport := model.NewRunReport()
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result := pageAuditor.Audit(ctx, target)
		runReport.Add(result)
		printResult(result)
	}

	if err := outputReport(cfg, runReport); err != nil {
		logger.Error("report output failed", "error", err)
	}

	if runReport.HasFailures() {
		path, err := report.ExportErrors(runReport, cfg.ExportDir)
		if err != nil {
			logger.Error("CSV export failed", "error", err)
		} else {
			fmt.Printf("Errors exported to %s\n", path)
		}
	}

	if db != nil {
		if err := db.SaveRun(ctx, runReport); err != nil {
			logger.Error("failed to save run to history", "error", err)
		}
	}

	return nil
}

// newPageAuditor assembles the audit stack: link classifier, probe
// coordinator, rule engine, page auditor.
func newPageAuditor(cfg *config.Config, logger *slog.Logger) *auditor.PageAuditor {
	classifier := linkcheck.NewClassifier(
		linkcheck.WithProbeTimeout(cfg.LinkTimeout),
		linkcheck.WithProbeUserAgent(cfg.UserAgent),
	)
	coordinator := linkcheck.NewCoordinator(classifier,
		linkcheck.WithWorkers(cfg.LinkWorkers),
		linkcheck.WithCoordinatorLogger(logger),
	)
	engine := rules.NewEngine(coordinator, rules.WithEngineLogger(logger))

	return auditor.NewPageAuditor(engine,
		auditor.WithTimeout(cfg.PageTimeout),
		auditor.WithUserAgent(cfg.UserAgent),
		auditor.WithMaxBodySize(cfg.MaxBodySize),
		auditor.WithSiteConfigs(cfg.SiteConfigs),
		auditor.WithLogger(logger),
	)
}

// printResult prints one page result as it completes, so a long run
// shows progress instead of staying silent until the summary.
func printResult(result model.Result) {
	fmt.Printf("Checking: %s\n", result.URL)
	marker := "[NG]"
	if result.Verdict.Valid {
		marker = "[OK]"
	}
	fmt.Printf("%s %s\n\n", marker, result.Verdict.Message)
}

// outputReport writes the run report in the requested format. The
// per-page lines were already printed while checking, so the default
// format only adds the run summary; JSON and Markdown replace it.
func outputReport(cfg *config.Config, runReport *model.RunReport) error {
	if cfg.JSONReport {
		_, err := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint()).Write(runReport)
		return err
	}
	if cfg.MarkdownReport {
		_, err := report.NewMarkdownWriter(os.Stdout).Write(runReport)
		return err
	}

	fmt.Printf("Checked %d page(s): %d passed, %d failed\n",
		len(runReport.Results), runReport.PassedCount(), len(runReport.Failures()))
	return nil
}
