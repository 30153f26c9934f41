package health

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

type breakerConfig struct {
	failures uint32
	cooldown time.Duration
}

// BreakerOption configures Breaker.
type BreakerOption func(*breakerConfig)

// WithTripAfter opens the breaker after n consecutive failures. Default: 3.
func WithTripAfter(n uint32) BreakerOption {
	return func(c *breakerConfig) {
		if n > 0 {
			c.failures = n
		}
	}
}

// WithCooldown sets how long the breaker stays open. Default: 30s.
func WithCooldown(d time.Duration) BreakerOption {
	return func(c *breakerConfig) {
		if d > 0 {
			c.cooldown = d
		}
	}
}

// Breaker wraps a check in a circuit breaker. While open, the check fails
// fast with gobreaker.ErrOpenState instead of reaching the dependency.
func Breaker(name string, check CheckFunc, opts ...BreakerOption) CheckFunc {
	cfg := &breakerConfig{failures: 3, cooldown: 30 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.failures
		},
	})

	return func(ctx context.Context) error {
		_, err := cb.Execute(func() (interface{}, error) {
			return nil, check(ctx)
		})
		return err
	}
}
