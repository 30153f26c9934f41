package middlewares

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/pkg/health"
)

// DefaultMonitorPrefix is where Monitor answers.
const DefaultMonitorPrefix = "/monitor"

type monitorConfig struct {
	prefix  string
	checks  health.Checks
	options []health.Option
}

// MonitorOption configures the Monitor middleware.
type MonitorOption func(*monitorConfig)

// WithMonitorPrefix moves the endpoints, e.g. "/_health".
func WithMonitorPrefix(prefix string) MonitorOption {
	return func(cfg *monitorConfig) {
		cfg.prefix = "/" + strings.Trim(prefix, "/")
	}
}

// WithCheck registers a readiness check.
func WithCheck(name string, check health.CheckFunc) MonitorOption {
	return func(cfg *monitorConfig) {
		cfg.checks[name] = check
	}
}

// WithHealthOptions passes options to the underlying probe.
func WithHealthOptions(opts ...health.Option) MonitorOption {
	return func(cfg *monitorConfig) {
		cfg.options = append(cfg.options, opts...)
	}
}

// Monitor returns middleware answering liveness and readiness probes ahead
// of routing:
//
//	GET /monitor/ping    200 while the process serves requests
//	GET /monitor/status  200 when every check passes, 503 otherwise
//
// Clients accepting JSON receive the full report; others get plain text.
// Concurrent status requests share one run of the checks.
//
//	middlewares.Monitor(
//	    middlewares.WithCheck("postgres", db.Healthcheck(pool)),
//	    middlewares.WithCheck("redis", redis.Healthcheck(client)),
//	)
func Monitor(opts ...MonitorOption) internal.Factory {
	cfg := &monitorConfig{
		prefix: DefaultMonitorPrefix,
		checks: health.Checks{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	probe := health.NewProbe(cfg.checks, cfg.options...)
	pingPath := cfg.prefix + "/ping"
	statusPath := cfg.prefix + "/status"

	return internal.Use("monitor", internal.MiddlewareFunc(func(next internal.Handler) internal.HandlerFunc {
		return func(c internal.Context) (any, error) {
			r := c.Request()
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				return next(c), nil
			}

			switch r.URL.Path {
			case pingPath:
				if c.Accepts().Type("text", "json") == "json" {
					return internal.JSON(map[string]string{"status": health.StatusHealthy}), nil
				}
				return internal.Text("pong"), nil

			case statusPath:
				report := probe.Status(c)
				status := http.StatusOK
				if !report.Healthy() {
					status = http.StatusServiceUnavailable
				}
				if c.Accepts().Type("text", "json") == "json" {
					return internal.JSON(report).WithStatus(status), nil
				}
				return internal.Text(report.Status).WithStatus(status), nil
			}

			return next(c), nil
		}
	}))
}
