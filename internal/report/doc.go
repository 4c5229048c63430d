// Package report formats run results for output.
//
// Four writers share the Writer interface: Simple (terminal text with
// per-page markers), JSON, Markdown, and CSV (failing pages only). The
// CSV error export is the only writer with its own file convention;
// ExportErrors handles the timestamped file name and skips runs with no
// failures.
package report
