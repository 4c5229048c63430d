package linkcheck

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/pagelint/pagelint/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the width of the probe pool: at most this many probes
// execute concurrently, additional references queue until a slot frees.
const DefaultWorkers = 5

// Prober classifies one reference. Satisfied by *Classifier; tests inject
// instrumented implementations.
type Prober interface {
	Classify(ctx context.Context, ref string, base *url.URL) model.LinkOutcome
}

// Coordinator runs the prober over every extracted reference of a page
// under a bounded-concurrency policy and folds the outcomes into issues.
type Coordinator struct {
	// prober performs the individual reachability probes.
	prober Prober

	// workers is the maximum number of concurrent probes.
	workers int

	// logger is used for per-probe debug logging.
	logger *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithWorkers sets the probe pool width. Values below one are ignored.
func WithWorkers(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithCoordinatorLogger sets a custom logger.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a Coordinator around the given prober.
func NewCoordinator(prober Prober, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		prober:  prober,
		workers: DefaultWorkers,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// AuditLinks probes every auditable reference and returns one issue per
// unreachable link, formatted as "Link issue (<reference>): <detail>".
//
// Fragment-only references ("#section") and references with no href value
// are not auditable and produce neither a probe nor an issue.
//
// Probes race under the worker pool with no completion-order guarantee,
// but outcomes are re-sequenced by submission index before folding, so the
// returned issues follow document order regardless of network timing. A
// probe failure is terminal for that reference only; it never aborts
// sibling probes or the coordinator.
func (c *Coordinator) AuditLinks(ctx context.Context, refs []string, baseAddress string) []string {
	auditable := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref == "" || strings.HasPrefix(ref, "#") {
			continue
		}
		auditable = append(auditable, ref)
	}
	if len(auditable) == 0 {
		return nil
	}

	base, err := url.Parse(baseAddress)
	if err != nil {
		c.logger.Warn("unparseable base address, probing references as-is",
			"base", baseAddress,
			"error", err,
		)
		base = nil
	}

	c.logger.Debug("auditing links",
		"total", len(auditable),
		"workers", c.workers,
	)

	// Pre-allocate to keep outcomes in submission order.
	outcomes := make([]model.LinkOutcome, len(auditable))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(c.workers)

	for i, ref := range auditable {
		g.Go(func() error {
			outcome := c.prober.Classify(ctx, ref, base)

			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()

			// Probe failures are data, not errors.
			return nil
		})
	}

	// Wait for every outcome before folding; the goroutines never return
	// errors so the only job of Wait is the join-all barrier.
	_ = g.Wait() //nolint:errcheck // Probe failures are recorded in outcomes

	issues := make([]string, 0)
	for _, outcome := range outcomes {
		if outcome.Reachable {
			continue
		}
		issues = append(issues, fmt.Sprintf("Link issue (%s): %s", outcome.Reference, outcome.Detail))
	}

	return issues
}
