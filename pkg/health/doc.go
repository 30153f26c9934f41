// Package health aggregates reachability checks against downstream dependencies.
//
// A check is any func(context.Context) error. [Run] executes a set of named
// checks in parallel under one deadline and returns a [Report]; [Probe] does
// the same but coalesces concurrent callers:
//
//	probe := health.NewProbe(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//		"billing":  health.Breaker("billing", health.HTTPCheck("https://billing.internal/ping")),
//	}, health.WithTimeout(3*time.Second))
//
//	report := probe.Status(ctx)
//	if !report.Healthy() { ... }
//
// [HTTPCheck] retries transient failures with go-retryablehttp. [Breaker]
// wraps a check with a gobreaker circuit breaker.
//
// The HTTP surface (/monitor/ping and /monitor/status) lives in the
// middlewares package.
package health
