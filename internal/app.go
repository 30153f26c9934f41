package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/servo/pkg/bodyparser"
	"github.com/dmitrymomot/servo/pkg/logger"
)

// Default server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// PoweredBy is sent as X-Powered-By on every response.
const PoweredBy = "servo"

// App assembles middleware and routes into one pipeline and serves it.
// Configuration happens in New; the pipeline is built once by Build.
type App struct {
	logger      *slog.Logger
	factories   []Factory
	routes      []Route
	tables      []RouteTable
	bodyParsers []bodyparser.Parser
	idSources   []ExtractorSource
	watchdog    WatchdogConfig
	development bool

	mu       sync.Mutex
	built    bool
	router   *Router
	pipeline Handler
	ctxCfg   *ContextConfig
}

// New creates an application.
//
// Example:
//
//	app := servo.New(
//	    servo.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Logging(log, slog.LevelInfo),
//	        middlewares.Session(store, sessionCfg),
//	    ),
//	    servo.WithHandlers(users, posts),
//	)
func New(opts ...Option) *App {
	a := &App{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build registers routes and composes the middleware pipeline. Factories
// run here, so a failing dependency check fails the build. Calling Build
// again returns the already built application.
func (a *App) Build(ctx context.Context) (http.Handler, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.built {
		return a, nil
	}

	composer := NewComposer(a.logger, a.development, a.watchdog)
	router := NewRouter(composer)

	routes := append([]Route(nil), a.routes...)
	for _, t := range a.tables {
		routes = append(routes, t.Routes()...)
	}
	if err := router.Register(routes...); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	pipeline, err := composer.Compose(ctx, a.factories, router.Dispatch)
	if err != nil {
		return nil, fmt.Errorf("compose middleware: %w", err)
	}

	a.router = router
	a.pipeline = pipeline
	a.ctxCfg = &ContextConfig{
		Logger:      a.logger,
		BodyParsers: a.bodyParsers,
		IDSources:   a.idSources,
		Development: a.development,
	}
	a.built = true

	a.logger.DebugContext(ctx, "application built",
		slog.Int("middleware", len(a.factories)),
		slog.Int("routes", len(routes)),
		slog.Bool("development", a.development),
	)
	return a, nil
}

// Routes lists registered routes. It is empty before Build.
func (a *App) Routes() []RouteInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.router == nil {
		return nil
	}
	return a.router.Routes()
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Development reports whether the application runs in development mode.
func (a *App) Development() bool {
	return a.development
}

// Run builds the application and serves it until SIGINT or SIGTERM.
//
// Example:
//
//	err := app.Run(
//	    servo.Address(":8080"),
//	    servo.ShutdownHook(db.Shutdown(pool)),
//	)
func (a *App) Run(opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	ctx := cfg.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := a.Build(ctx); err != nil {
		return err
	}

	return runServer(runtimeConfig{
		handler:         a,
		address:         cfg.address,
		listener:        cfg.listener,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         ctx,
		development:     a.development,
	})
}
