package auditor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/pagelint/pagelint/internal/config"
	"github.com/pagelint/pagelint/internal/model"
)

// Evaluator runs the rule catalog against a parsed document.
// Satisfied by rules.Engine; tests inject fakes to assert that fetch
// failures never reach evaluation.
type Evaluator interface {
	// Evaluate returns the ordered issue list for the document.
	Evaluate(ctx context.Context, doc *goquery.Document, baseAddress string) []string
}

// PageAuditor fetches a page, parses it, and reduces the rule catalog's
// findings to a verdict. One PageAuditor serves a whole run; it carries
// no per-page state.
type PageAuditor struct {
	evaluator Evaluator
	client    *http.Client
	userAgent string

	// maxBodySize bounds how much of the response body is parsed.
	maxBodySize int64

	// sites supplies per-site request overrides. May be nil.
	sites *config.File

	logger *slog.Logger
}

// Option configures a PageAuditor.
type Option func(*PageAuditor)

// WithTimeout sets the page fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(a *PageAuditor) {
		a.client.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header for page fetches.
func WithUserAgent(userAgent string) Option {
	return func(a *PageAuditor) {
		a.userAgent = userAgent
	}
}

// WithMaxBodySize bounds the response body size read per page.
func WithMaxBodySize(size int64) Option {
	return func(a *PageAuditor) {
		a.maxBodySize = size
	}
}

// WithSiteConfigs supplies per-site request overrides.
func WithSiteConfigs(sites *config.File) Option {
	return func(a *PageAuditor) {
		a.sites = sites
	}
}

// WithClient sets a custom HTTP client. Used by tests.
func WithClient(client *http.Client) Option {
	return func(a *PageAuditor) {
		a.client = client
	}
}

// WithLogger sets a custom logger for the auditor.
func WithLogger(logger *slog.Logger) Option {
	return func(a *PageAuditor) {
		a.logger = logger
	}
}

// NewPageAuditor creates a PageAuditor delegating rule evaluation to
// evaluator.
func NewPageAuditor(evaluator Evaluator, opts ...Option) *PageAuditor {
	a := &PageAuditor{
		evaluator:   evaluator,
		client:      &http.Client{Timeout: config.DefaultPageTimeout},
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// Audit fetches and audits one page, returning a timed result.
// A page that cannot be fetched or parsed yields a failing verdict with
// an error message; rule evaluation is never attempted for it.
func (a *PageAuditor) Audit(ctx context.Context, target string) model.Result {
	started := time.Now()
	verdict, issueCount := a.audit(ctx, target)

	return model.Result{
		URL:         target,
		Verdict:     verdict,
		IssueCount:  issueCount,
		DateAudited: started,
		Elapsed:     time.Since(started),
	}
}

func (a *PageAuditor) audit(ctx context.Context, target string) (model.PageVerdict, int) {
	doc, err := a.fetch(ctx, target)
	if err != nil {
		a.logger.Debug("page fetch failed", "url", target, "error", err)
		return model.NewErrorVerdict(err.Error()), 0
	}

	issues := a.evaluator.Evaluate(ctx, doc, target)
	a.logger.Debug("page audited", "url", target, "issues", len(issues))
	return model.NewPageVerdict(issues), len(issues)
}

// fetch retrieves and parses the target page. The two failure classes are
// distinguished by message prefix: access errors cover transport failures
// and error status codes, processing errors cover undecodable or
// unparseable bodies.
func (a *PageAuditor) fetch(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("Error accessing URL: %v", err)
	}

	req.Header.Set("User-Agent", a.userAgent)
	a.applySiteConfig(req, target)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Error accessing URL: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("Error accessing URL: status code %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, a.maxBodySize)
	decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("Error processing HTML: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, fmt.Errorf("Error processing HTML: %v", err)
	}
	return doc, nil
}

// applySiteConfig layers per-site overrides onto the request: extra
// headers, a cookie, and a site-specific User-Agent.
func (a *PageAuditor) applySiteConfig(req *http.Request, target string) {
	site := a.sites.SiteConfigFor(target)

	for key, value := range site.Headers {
		req.Header.Set(key, value)
	}
	if site.Cookie != "" {
		req.Header.Set("Cookie", site.Cookie)
	}
	if site.UserAgent != "" {
		req.Header.Set("User-Agent", site.UserAgent)
	}
}
