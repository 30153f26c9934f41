package health

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Probe runs a fixed set of checks and coalesces concurrent callers,
// so a burst of monitoring requests hits each dependency once.
type Probe struct {
	checks Checks
	cfg    *config
	group  singleflight.Group
}

// NewProbe creates a Probe.
func NewProbe(checks Checks, opts ...Option) *Probe {
	return &Probe{checks: checks, cfg: newConfig(opts...)}
}

// Status returns the current report. Callers that arrive while a run is in
// flight share its result.
func (p *Probe) Status(ctx context.Context) *Report {
	v, _, _ := p.group.Do("status", func() (any, error) {
		return run(context.WithoutCancel(ctx), p.checks, p.cfg), nil
	})
	return v.(*Report)
}

// Len returns the number of registered checks.
func (p *Probe) Len() int {
	return len(p.checks)
}
