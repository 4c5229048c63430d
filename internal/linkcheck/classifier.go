package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pagelint/pagelint/internal/model"
)

// DefaultProbeTimeout is the fixed timeout for one reachability probe.
const DefaultProbeTimeout = 5 * time.Second

// Classifier determines the reachability of one hyperlink reference.
// It owns its HTTP client so that connection pooling and the redirect
// policy stay consistent across probes.
type Classifier struct {
	// client issues the HEAD probes. Redirect following is the client
	// default (up to 10 redirects).
	client *http.Client

	// userAgent is sent with every probe.
	userAgent string
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithProbeTimeout sets the per-probe timeout.
func WithProbeTimeout(timeout time.Duration) ClassifierOption {
	return func(c *Classifier) {
		c.client.Timeout = timeout
	}
}

// WithProbeUserAgent sets the User-Agent header for probes.
func WithProbeUserAgent(ua string) ClassifierOption {
	return func(c *Classifier) {
		c.userAgent = ua
	}
}

// WithProbeClient replaces the HTTP client entirely. Intended for tests
// that need a custom transport.
func WithProbeClient(client *http.Client) ClassifierOption {
	return func(c *Classifier) {
		c.client = client
	}
}

// NewClassifier creates a Classifier with the default 5 second timeout.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		client: &http.Client{
			Timeout: DefaultProbeTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Classify resolves ref against base and probes the resolved address.
// The outcome always carries the original reference, never the resolved
// form, because issues must point at what the document actually says.
//
// A single attempt is made: a transient failure is reported as a failure,
// not retried.
func (c *Classifier) Classify(ctx context.Context, ref string, base *url.URL) model.LinkOutcome {
	target, err := resolveReference(ref, base)
	if err != nil {
		return model.LinkOutcome{
			Reference: ref,
			Reachable: false,
			Detail:    fmt.Sprintf("Failed to access: %v", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return model.LinkOutcome{
			Reference: ref,
			Reachable: false,
			Detail:    fmt.Sprintf("Failed to access: %v", err),
		}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// DNS failure, connection refusal, timeout, TLS error.
		return model.LinkOutcome{
			Reference: ref,
			Reachable: false,
			Detail:    fmt.Sprintf("Failed to access: %v", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return model.LinkOutcome{
			Reference: ref,
			Reachable: false,
			Detail:    fmt.Sprintf("Broken link (Status %d)", resp.StatusCode),
		}
	}

	return model.LinkOutcome{
		Reference: ref,
		Reachable: true,
		Detail:    model.DetailOK,
	}
}

// resolveReference resolves ref against base using RFC 3986 semantics.
// Relative paths, protocol-relative and absolute references are all
// supported by ResolveReference.
func resolveReference(ref string, base *url.URL) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if base == nil {
		return u.String(), nil
	}
	return base.ResolveReference(u).String(), nil
}
