// Package model defines the core data structures for pagelint.
//
// It contains the link reachability outcome, the per-page verdict, and the
// aggregate run report consumed by the report writers. All types in this
// package are plain values with no behavior beyond formatting helpers.
package model
