package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports whether a downstream dependency is reachable.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named checks.
type Checks map[string]CheckFunc

// Report is the aggregated result of a run.
type Report struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Healthy reports whether every check passed.
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// Check is the outcome of a single check.
type Check struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

type config struct {
	logger      *slog.Logger
	timeout     time.Duration
	concurrency int
}

// Option configures a run.
type Option func(*config)

// WithTimeout bounds the whole run. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failing checks at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConcurrency limits how many checks run at once. Zero means no limit.
func WithConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes all checks in parallel and aggregates the results.
// A failing check never stops the others.
func Run(ctx context.Context, checks Checks, opts ...Option) *Report {
	return run(ctx, checks, newConfig(opts...))
}

func run(ctx context.Context, checks Checks, cfg *config) *Report {
	if len(checks) == 0 {
		return &Report{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]Check, len(checks))
		status  = StatusHealthy
	)
	if cfg.concurrency > 0 {
		g.SetLimit(cfg.concurrency)
	}

	for name, check := range checks {
		g.Go(func() error {
			start := time.Now()
			err := safeCheck(ctx, check)
			result := Check{Status: StatusHealthy, Latency: time.Since(start).String()}

			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = errors.Join(ErrCheckTimeout, err)
				}
				result.Status = StatusUnhealthy
				result.Error = err.Error()
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			results[name] = result
			if err != nil {
				status = StatusUnhealthy
			}
			return nil
		})
	}
	_ = g.Wait()

	return &Report{Status: status, Checks: results}
}

// safeCheck converts a panicking check into an error.
func safeCheck(ctx context.Context, check CheckFunc) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrCheckPanicked, p)
		}
	}()
	if check == nil {
		return nil
	}
	return check(ctx)
}
