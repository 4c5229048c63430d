package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultPageTimeout is the timeout for fetching one target page.
	// 10 seconds is generous for a single document while keeping a run
	// over a long target list bounded.
	DefaultPageTimeout = 10 * time.Second

	// DefaultLinkTimeout is the timeout for one link reachability probe.
	// Probes are lightweight HEAD requests, so 5 seconds is enough; slower
	// links are reported as failures rather than stalling the pool.
	DefaultLinkTimeout = 5 * time.Second

	// DefaultLinkWorkers is the width of the link probe pool. At most this
	// many probes are in flight at once; additional references queue until
	// a slot frees. 5 keeps the load on the audited site polite.
	DefaultLinkWorkers = 5

	// DefaultMaxBodySize limits the response body size to read. 5MB covers
	// any realistic HTML page while preventing memory exhaustion from
	// unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultTargetsFile is the targets file read when no URLs are given
	// on the command line. One URL per line, blank lines ignored.
	DefaultTargetsFile = "urls.txt"

	// DefaultUserAgent identifies pagelint in HTTP requests. A descriptive
	// User-Agent lets site operators identify checker traffic in logs.
	DefaultUserAgent = "pagelint/1.0 (+https://github.com/pagelint/pagelint)"

	// AppName is the application name used for XDG directory paths.
	AppName = "pagelint"
)

// Config holds all configuration options for one pagelint run.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
type Config struct {
	// Targets is the list of page addresses to audit, in input order.
	Targets []string

	// TargetsFile is the path of the newline-delimited targets file.
	// Only consulted when no targets are given as arguments.
	TargetsFile string

	// PageTimeout is the timeout for fetching one target page.
	PageTimeout time.Duration

	// LinkTimeout is the timeout for one link reachability probe.
	LinkTimeout time.Duration

	// LinkWorkers is the maximum number of concurrent link probes per page.
	LinkWorkers int

	// MaxBodySize is the maximum response body size in bytes to read.
	// Larger responses are truncated. Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with all requests.
	UserAgent string

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is the path to the YAML configuration file. If empty,
	// the tool searches for .pagelint in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site request overrides loaded from the
	// configuration file (headers, user agent).
	SiteConfigs *File

	// JSONReport enables JSON run-report output on stdout.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown run-report output on stdout.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ExportDir is the directory that receives the CSV error export.
	// Defaults to the current directory.
	ExportDir string

	// SaveHistory controls whether results are written to the audit
	// history database under the XDG data directory.
	SaveHistory bool

	// HistoryDir is the directory holding the history database.
	HistoryDir string
}

// NewConfig creates a Config with default values. Many defaults are
// non-zero, so relying on the zero value would be a trap; this constructor
// also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		TargetsFile: DefaultTargetsFile,
		PageTimeout: DefaultPageTimeout,
		LinkTimeout: DefaultLinkTimeout,
		LinkWorkers: DefaultLinkWorkers,
		MaxBodySize: DefaultMaxBodySize,
		UserAgent:   DefaultUserAgent,
		ExportDir:   ".",
		SaveHistory: true,
		HistoryDir:  XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for pagelint.
// On Linux: ~/.local/share/pagelint
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pagelint.
// On Linux: ~/.config/pagelint
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid. It is called once after
// CLI parsing, before any auditing begins, and returns the first error
// found; fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.PageTimeout <= 0 {
		return ErrInvalidPageTimeout
	}
	if c.LinkTimeout <= 0 {
		return ErrInvalidLinkTimeout
	}
	if c.LinkWorkers <= 0 {
		return ErrInvalidLinkWorkers
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
