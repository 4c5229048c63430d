package config

import "errors"

// Configuration validation errors.
// Package-level sentinel errors let callers use errors.Is() for
// programmatic handling while still carrying human-readable messages.
var (
	// ErrInvalidPageTimeout is returned when the page fetch timeout is not
	// positive. A zero timeout would cause immediate fetch failures.
	ErrInvalidPageTimeout = errors.New("invalid page timeout: must be positive")

	// ErrInvalidLinkTimeout is returned when the link probe timeout is not
	// positive.
	ErrInvalidLinkTimeout = errors.New("invalid link timeout: must be positive")

	// ErrInvalidLinkWorkers is returned when the probe pool width is not
	// positive. A width of zero would mean no link could ever be probed.
	ErrInvalidLinkWorkers = errors.New("invalid link workers: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrTargetsFileNotFound is returned when the targets file does not
	// exist. This is the only fatal per-run condition: without targets
	// there is nothing to audit.
	ErrTargetsFileNotFound = errors.New("targets file not found")
)
