package rules

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
)

// LinkAuditor validates the reachability of extracted references.
// Satisfied by linkcheck.Coordinator; tests inject fakes so that the
// twelve pure rule groups can be tested without any network.
type LinkAuditor interface {
	// AuditLinks probes every auditable reference and returns one issue
	// per unreachable link, in the order the references were submitted.
	AuditLinks(ctx context.Context, refs []string, baseAddress string) []string
}

// Engine runs the rule catalog against a parsed document tree.
// The tree is never mutated; every group only reads it.
type Engine struct {
	// links handles the reference-validation group. All other groups are
	// pure in-memory tree traversal.
	links LinkAuditor

	// logger is used for per-group debug logging.
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets a custom logger for the engine.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine delegating link validation to links.
func NewEngine(links LinkAuditor, opts ...EngineOption) *Engine {
	e := &Engine{links: links}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Evaluate runs every rule group in catalog order and returns the ordered
// issue list. Groups never short-circuit each other: a finding in one
// group has no effect on any other. Re-running Evaluate on the same tree
// yields the identical list, except that link-audit detail strings depend
// on the network at probe time.
func (e *Engine) Evaluate(ctx context.Context, doc *goquery.Document, baseAddress string) []string {
	issues := make([]string, 0)

	issues = append(issues, checkEmptyContainers(doc)...)
	issues = append(issues, checkImages(doc)...)
	issues = append(issues, checkDuplicateIDs(doc)...)
	issues = append(issues, checkHeadingHierarchy(doc)...)
	issues = append(issues, checkDeprecatedTags(doc)...)
	issues = append(issues, checkForms(doc)...)
	issues = append(issues, checkMetaTags(doc)...)
	issues = append(issues, checkEncoding(doc)...)
	issues = append(issues, e.links.AuditLinks(ctx, extractReferences(doc), baseAddress)...)
	issues = append(issues, checkInlineStyles(doc)...)
	issues = append(issues, checkEventHandlers(doc)...)
	issues = append(issues, checkLists(doc)...)
	issues = append(issues, checkTables(doc)...)

	e.logger.Debug("rule evaluation complete",
		"base", baseAddress,
		"issues", len(issues),
	)

	return issues
}

// extractReferences collects every anchor href in document order.
// Anchors without an href attribute are skipped here; fragment-only and
// empty references are filtered by the link auditor itself.
func extractReferences(doc *goquery.Document) []string {
	refs := make([]string, 0)
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			refs = append(refs, href)
		}
	})
	return refs
}
