package auditor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagelint/pagelint/internal/config"
	"github.com/pagelint/pagelint/internal/model"
)

// fakeEvaluator returns canned issues and records whether it ran.
type fakeEvaluator struct {
	issues  []string
	invoked bool
	base    string
}

func (f *fakeEvaluator) Evaluate(_ context.Context, _ *goquery.Document, baseAddress string) []string {
	f.invoked = true
	f.base = baseAddress
	return f.issues
}

// TestAuditWellFormedPage tests that a clean page yields a valid verdict.
func TestAuditWellFormedPage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>ok</title></head><body><h1>t</h1></body></html>`))
	}))
	defer server.Close()

	evaluator := &fakeEvaluator{}
	a := NewPageAuditor(evaluator)

	result := a.Audit(context.Background(), server.URL)
	if !result.Verdict.Valid {
		t.Errorf("expected valid verdict, got %+v", result.Verdict)
	}
	if result.Verdict.Message != model.MessageWellFormed {
		t.Errorf("unexpected message: %q", result.Verdict.Message)
	}
	if result.IssueCount != 0 {
		t.Errorf("expected zero issues, got %d", result.IssueCount)
	}
	if result.URL != server.URL {
		t.Errorf("expected URL %q preserved, got %q", server.URL, result.URL)
	}
	if !evaluator.invoked {
		t.Error("expected the evaluator to run")
	}
	if evaluator.base != server.URL {
		t.Errorf("expected base address %q, got %q", server.URL, evaluator.base)
	}
}

// TestAuditPageWithIssues tests verdict reduction for a flagged page.
func TestAuditPageWithIssues(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><img></body></html>`))
	}))
	defer server.Close()

	evaluator := &fakeEvaluator{issues: []string{"Image missing alt text: unknown source", "Image missing src attribute"}}
	a := NewPageAuditor(evaluator)

	result := a.Audit(context.Background(), server.URL)
	if result.Verdict.Valid {
		t.Error("expected invalid verdict")
	}
	if result.IssueCount != 2 {
		t.Errorf("expected 2 issues, got %d", result.IssueCount)
	}
	if !strings.HasPrefix(result.Verdict.Message, "HTML issues found:\n") {
		t.Errorf("unexpected message: %q", result.Verdict.Message)
	}
	if !strings.Contains(result.Verdict.Message, "Image missing src attribute") {
		t.Errorf("expected issue listed in message, got %q", result.Verdict.Message)
	}
}

// TestAuditFetchFailure tests that a transport failure yields an access
// error verdict and the evaluator never runs.
func TestAuditFetchFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close() // Closed immediately so the fetch fails.

	evaluator := &fakeEvaluator{}
	a := NewPageAuditor(evaluator)

	result := a.Audit(context.Background(), server.URL)
	if result.Verdict.Valid {
		t.Error("expected invalid verdict")
	}
	if !strings.HasPrefix(result.Verdict.Message, "Error accessing URL: ") {
		t.Errorf("expected access error message, got %q", result.Verdict.Message)
	}
	if result.IssueCount != 0 {
		t.Errorf("expected zero issue count for fetch failure, got %d", result.IssueCount)
	}
	if evaluator.invoked {
		t.Error("evaluator must not run when the fetch fails")
	}
}

// TestAuditErrorStatus tests that an HTTP error status is an access error.
func TestAuditErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	evaluator := &fakeEvaluator{}
	a := NewPageAuditor(evaluator)

	result := a.Audit(context.Background(), server.URL)
	if result.Verdict.Valid {
		t.Error("expected invalid verdict")
	}
	if result.Verdict.Message != "Error accessing URL: status code 404" {
		t.Errorf("unexpected message: %q", result.Verdict.Message)
	}
	if evaluator.invoked {
		t.Error("evaluator must not run for an error status")
	}
}

// TestAuditRequestHeaders tests User-Agent and site overrides on the wire.
func TestAuditRequestHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	defer server.Close()

	sites := &config.File{
		Sites: map[string]config.SiteConfig{
			server.URL: {
				UserAgent: "custom-agent/2.0",
				Headers:   map[string]string{"Authorization": "Bearer token"},
				Cookie:    "session=abc",
			},
		},
	}

	a := NewPageAuditor(&fakeEvaluator{}, WithSiteConfigs(sites))
	result := a.Audit(context.Background(), server.URL)
	if !result.Verdict.Valid {
		t.Fatalf("expected valid verdict, got %+v", result.Verdict)
	}

	if got.Get("User-Agent") != "custom-agent/2.0" {
		t.Errorf("expected site User-Agent override, got %q", got.Get("User-Agent"))
	}
	if got.Get("Authorization") != "Bearer token" {
		t.Errorf("expected Authorization header, got %q", got.Get("Authorization"))
	}
	if got.Get("Cookie") != "session=abc" {
		t.Errorf("expected Cookie header, got %q", got.Get("Cookie"))
	}
}

// TestAuditDefaultUserAgent tests the default User-Agent without overrides.
func TestAuditDefaultUserAgent(t *testing.T) {
	t.Parallel()

	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	defer server.Close()

	a := NewPageAuditor(&fakeEvaluator{})
	a.Audit(context.Background(), server.URL)

	if agent != config.DefaultUserAgent {
		t.Errorf("expected default User-Agent %q, got %q", config.DefaultUserAgent, agent)
	}
}

// TestAuditBodySizeLimit tests that oversized bodies are truncated rather
// than read whole.
func TestAuditBodySizeLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>` + strings.Repeat("x", 4096) + `</body></html>`))
	}))
	defer server.Close()

	a := NewPageAuditor(&fakeEvaluator{}, WithMaxBodySize(64))
	result := a.Audit(context.Background(), server.URL)

	// A truncated body still parses; html.Parse tolerates a cut-off tree.
	if !result.Verdict.Valid {
		t.Errorf("expected valid verdict for truncated body, got %+v", result.Verdict)
	}
}
