package internal

import (
	"log/slog"

	"github.com/dmitrymomot/servo/pkg/bodyparser"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware appends middleware factories. The first one is outermost.
func WithMiddleware(factories ...Factory) Option {
	return func(a *App) {
		a.factories = append(a.factories, factories...)
	}
}

// WithRoutes registers routes.
func WithRoutes(routes ...Route) Option {
	return func(a *App) {
		a.routes = append(a.routes, routes...)
	}
}

// WithHandlers registers route tables. Each table's Routes method is
// called during Build.
func WithHandlers(tables ...RouteTable) Option {
	return func(a *App) {
		for _, t := range tables {
			if t != nil {
				a.tables = append(a.tables, t)
			}
		}
	}
}

// WithDevelopment enables stack traces in error payloads, the latency
// watchdog, non-Secure cookies and immediate shutdown.
func WithDevelopment(dev bool) Option {
	return func(a *App) {
		a.development = dev
	}
}

// WithLogger sets the application logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithBodyParsers replaces the default parser chain (JSON, form, text).
func WithBodyParsers(parsers ...bodyparser.Parser) Option {
	return func(a *App) {
		a.bodyParsers = parsers
	}
}

// WithWatchdog sets the development latency thresholds.
func WithWatchdog(cfg WatchdogConfig) Option {
	return func(a *App) {
		a.watchdog = cfg
	}
}

// WithRequestIDSources replaces the sources consulted for incoming request
// ids. A traceparent header is always checked first.
func WithRequestIDSources(sources ...ExtractorSource) Option {
	return func(a *App) {
		a.idSources = sources
	}
}
