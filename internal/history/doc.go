// Package history persists audit results across runs.
//
// Results land in a single SQLite database under the XDG data
// directory, one row per audited page per run. The history command
// reads it back; --no-save on check skips the write entirely.
package history
