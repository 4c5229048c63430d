// Package linkcheck validates hyperlink reachability.
//
// The Classifier resolves one reference against the page's base address
// and probes it with a lightweight HEAD request. The Coordinator fans the
// classifier out over every reference of a page under a bounded worker
// pool and folds unreachable outcomes into issue strings, preserving the
// order in which the references appeared in the document.
package linkcheck
