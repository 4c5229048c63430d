// Package main provides the entry point for the pagelint CLI.
//
// Pagelint audits web pages for HTML structure and accessibility
// problems: missing alt text, broken heading hierarchy, deprecated
// tags, unreachable links, and more.
//
// Usage:
//
//	pagelint check <url>...
//	pagelint check --file urls.txt
//
// See --help for all available options.
package main

// main is the entry point for pagelint.
func main() {
	Execute()
}
