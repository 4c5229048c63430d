package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/pagelint/pagelint/internal/model"
)

// MarkdownWriter outputs run reports in Markdown format for
// documentation and sharing. Built on the nao1215/markdown fluent API.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeResults(md, report)
	w.writeIssues(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Pagelint Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run Date", report.DateStarted.Format("2006-01-02 15:04:05 MST")},
			{"Pages Checked", strconv.Itoa(len(report.Results))},
			{"Passed", strconv.Itoa(report.PassedCount())},
			{"Failed", strconv.Itoa(len(report.Failures()))},
		},
	})
	md.PlainText("")
}

// writeSummary writes an alert matching the run outcome.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	failed := len(report.Failures())
	switch {
	case len(report.Results) == 0:
		md.Note("No pages were checked.")
	case failed == 0:
		md.Tip("All pages passed the audit.")
	default:
		md.Warningf("%d of %d page(s) failed the audit.", failed, len(report.Results))
	}
	md.PlainText("")
}

// writeResults writes one table row per page in input order.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Results")
	md.PlainText("")

	if len(report.Results) == 0 {
		md.PlainText("No results.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Results))
	for i, result := range report.Results {
		status := "FAIL"
		if result.Verdict.Valid {
			status = "PASS"
		}
		rows[i] = []string{
			"`" + result.URL + "`",
			status,
			strconv.Itoa(result.IssueCount),
			result.Elapsed.Round(time.Millisecond).String(),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Issues", "Elapsed"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeIssues writes a collapsible issue list per failing page.
func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, report *model.RunReport) {
	failures := report.Failures()
	if len(failures) == 0 {
		return
	}

	md.H2("Issues")
	md.PlainText("")
	for _, result := range failures {
		md.Details(result.URL, markdownIssueBody(result.Verdict.Message))
	}
	md.PlainText("")
}

// markdownIssueBody formats a verdict message as a bullet list when it
// carries an issue list, and passes error messages through as-is.
func markdownIssueBody(message string) string {
	lines := strings.Split(message, "\n")
	if len(lines) < 2 {
		return message
	}

	var sb strings.Builder
	for _, line := range lines[1:] {
		sb.WriteString("\n- ")
		sb.WriteString(line)
	}
	return sb.String()
}
