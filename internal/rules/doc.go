// Package rules evaluates a parsed document against the audit catalog.
//
// The catalog is a fixed, ordered list of independent rule groups covering
// structure and accessibility: empty containers, image attributes,
// duplicate identifiers, heading hierarchy, deprecated markup, form
// accessibility, meta tags, character encoding, link reachability, inline
// styles, inline event handlers, list structure, and table structure.
// Issues are reported in catalog order, and within a group in document
// order; that ordering is an observable contract.
//
// The catalog is deliberately fixed and heuristic. It is not a general
// HTML5 conformance validator.
package rules
