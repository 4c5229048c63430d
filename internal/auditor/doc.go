// Package auditor fetches target pages and reduces rule findings to
// per-page verdicts. It owns the page-level HTTP concerns: timeouts,
// User-Agent, per-site header overrides, body size limits, and
// charset-aware decoding. Rule evaluation itself lives in the rules
// package and is reached through the Evaluator interface.
package auditor
