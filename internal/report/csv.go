package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pagelint/pagelint/internal/model"
)

// exportTimeLayout names the CSV export file, e.g. errors_20260826_153004.csv.
const exportTimeLayout = "20060102_150405"

// csvHeader is the fixed header row of the error export.
var csvHeader = []string{"URL", "Error"}

// CSVWriter outputs failing pages in CSV format, one row per failure
// with the full verdict message. Embedded newlines inside a message are
// preserved; encoding/csv quotes them.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the header and one row per failing page in input order.
// Passing pages are omitted. The whole document is built in memory first
// so that a marshalling failure never leaves a half-written export.
func (w *CSVWriter) Write(report *model.RunReport) (int, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}
	for _, result := range report.Failures() {
		if err := cw.Write([]string{result.URL, result.Verdict.Message}); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}

// ExportErrors writes the CSV error export into dir when the run has at
// least one failure. It returns the created file path, or "" when
// nothing was exported. The file name embeds the current time so
// repeated runs never clobber each other.
func ExportErrors(report *model.RunReport, dir string) (string, error) {
	if !report.HasFailures() {
		return "", nil
	}

	path := filepath.Join(dir, fmt.Sprintf("errors_%s.csv", time.Now().Format(exportTimeLayout)))
	f, err := os.Create(path) //nolint:gosec // Export path is user-chosen
	if err != nil {
		return "", err
	}

	if _, err := NewCSVWriter(f).Write(report); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
