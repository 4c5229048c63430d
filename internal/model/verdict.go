package model

import (
	"strings"
	"time"
)

// Verdict message constants.
// These strings are an observable contract: the CSV export and the console
// output reproduce them verbatim, so they must not be reworded casually.
const (
	// MessageWellFormed is the verdict message for a page with no issues.
	MessageWellFormed = "HTML is well-formed"

	// issuesPrefix starts the verdict message for a page with issues.
	// The full issue list follows, newline-joined in catalog order.
	issuesPrefix = "HTML issues found:\n"
)

// PageVerdict is the aggregate pass/fail result for one audited page.
type PageVerdict struct {
	// Valid is true iff the issue list was empty.
	Valid bool `json:"valid"`

	// Message is either a success string or a newline-joined concatenation
	// of all issues in catalog order, prefixed with "HTML issues found:".
	Message string `json:"message"`
}

// NewPageVerdict reduces an ordered issue list to a verdict.
// An empty list yields a valid verdict with the well-formed message.
func NewPageVerdict(issues []string) PageVerdict {
	if len(issues) == 0 {
		return PageVerdict{Valid: true, Message: MessageWellFormed}
	}
	return PageVerdict{Valid: false, Message: issuesPrefix + strings.Join(issues, "\n")}
}

// NewErrorVerdict creates a failing verdict carrying an error description.
// Used for fetch and processing failures where no issue list exists.
func NewErrorVerdict(message string) PageVerdict {
	return PageVerdict{Valid: false, Message: message}
}

// Result is the outcome of auditing one page.
type Result struct {
	// URL is the target address exactly as it was given to the auditor.
	URL string `json:"url"`

	// Verdict is the reduced pass/fail result for the page.
	Verdict PageVerdict `json:"verdict"`

	// IssueCount is the number of issues behind the verdict.
	// Zero for valid pages and for pages that failed before evaluation.
	IssueCount int `json:"issue_count"`

	// DateAudited records when the audit of this page started.
	DateAudited time.Time `json:"date_audited"`

	// Elapsed is the wall-clock duration of the audit including all probes.
	Elapsed time.Duration `json:"elapsed"`
}

// RunReport aggregates the results of one pagelint invocation.
type RunReport struct {
	// DateStarted records when the run began.
	DateStarted time.Time `json:"date_started"`

	// Results holds one entry per target in input order.
	Results []Result `json:"results"`
}

// NewRunReport creates an empty run report stamped with the current time.
func NewRunReport() *RunReport {
	return &RunReport{
		DateStarted: time.Now(),
		Results:     make([]Result, 0),
	}
}

// Add appends a page result to the run.
func (r *RunReport) Add(result Result) {
	r.Results = append(r.Results, result)
}

// Failures returns the results with an invalid verdict, in input order.
func (r *RunReport) Failures() []Result {
	failures := make([]Result, 0)
	for _, result := range r.Results {
		if !result.Verdict.Valid {
			failures = append(failures, result)
		}
	}
	return failures
}

// HasFailures reports whether at least one page failed.
// The CSV export is produced only when this is true.
func (r *RunReport) HasFailures() bool {
	for _, result := range r.Results {
		if !result.Verdict.Valid {
			return true
		}
	}
	return false
}

// PassedCount returns the number of pages with a valid verdict.
func (r *RunReport) PassedCount() int {
	return len(r.Results) - len(r.Failures())
}
