package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pagelint/pagelint/internal/model"
)

// Result markers for terminal output. Plain ASCII so the output pipes
// cleanly to files and other tools in any terminal.
const (
	markerPassed = "[OK]"
	markerFailed = "[NG]"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose enables per-page timing in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-page timing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run report in human-readable format: one block per
// page in input order, then a pass/fail summary.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	for _, result := range report.Results {
		w.writeResult(&sb, result)
	}
	w.writeSummary(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeResult writes one page result with its marker and verdict message.
func (w *SimpleWriter) writeResult(sb *strings.Builder, result model.Result) {
	sb.WriteString(fmt.Sprintf("Checking: %s\n", result.URL))

	marker := markerFailed
	if result.Verdict.Valid {
		marker = markerPassed
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", marker, result.Verdict.Message))

	if w.verbose {
		sb.WriteString(fmt.Sprintf("     took %s\n", result.Elapsed.Round(time.Millisecond)))
	}
	sb.WriteString("\n")
}

// writeSummary writes the run totals.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Checked %d page(s): %d passed, %d failed\n",
		len(report.Results), report.PassedCount(), len(report.Failures())))
}
