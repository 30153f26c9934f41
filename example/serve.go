package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/servo"
	"github.com/dmitrymomot/servo/example/views"
	"github.com/dmitrymomot/servo/middlewares"
	"github.com/dmitrymomot/servo/pkg/db"
	"github.com/dmitrymomot/servo/pkg/health"
	"github.com/dmitrymomot/servo/pkg/logger"
	"github.com/dmitrymomot/servo/pkg/redis"
	"github.com/dmitrymomot/servo/pkg/session"
)

func serveCmd(configPath *string) *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, migrateFirst)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg Config, migrateFirst bool) error {
	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	if migrateFirst {
		if err := migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return err
		}
	}

	runOpts := []servo.RunOption{
		servo.Address(cfg.Address),
		servo.ShutdownTimeout(cfg.ShutdownTimeout),
		servo.ShutdownHook(db.Shutdown(pool)),
	}

	checks := []middlewares.MonitorOption{
		middlewares.WithCheck("postgres", db.Healthcheck(pool)),
		middlewares.WithHealthOptions(health.WithLogger(log), health.WithTimeout(3*time.Second)),
	}
	if cfg.UpstreamURL != "" {
		checks = append(checks, middlewares.WithCheck("upstream",
			health.Breaker("upstream", health.HTTPCheck(cfg.UpstreamURL, health.WithRetries(2))),
		))
	}

	var store session.Store
	switch cfg.SessionStore {
	case "memory":
		mem := session.NewMemoryStore(session.WithDefaultTTL(cfg.Session.TTL))
		runOpts = append(runOpts, servo.ShutdownHook(func(context.Context) error { return mem.Close() }))
		store = mem
	case "redis":
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			pool.Close()
			return err
		}
		runOpts = append(runOpts, servo.ShutdownHook(redis.Shutdown(client)))
		checks = append(checks, middlewares.WithCheck("redis", redis.Healthcheck(client)))
		store = session.NewRedisStore(client)
	case "postgres":
		store = session.NewPostgresStore(pool, cfg.Session.TTL)
	default:
		pool.Close()
		return fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}

	cors := []middlewares.CORSOption{middlewares.WithExposeHeaders(middlewares.DefaultRequestIDHeader)}
	if len(cfg.CORSOrigins) > 0 {
		cors = append(cors, middlewares.WithAllowOrigins(cfg.CORSOrigins...), middlewares.WithAllowCredentials())
	}

	app := servo.New(
		servo.WithLogger(log),
		servo.WithDevelopment(cfg.Development),
		servo.WithMiddleware(
			middlewares.CORS(cors...),
			middlewares.RequestID(),
			middlewares.Logging(log, slog.LevelInfo),
			middlewares.Monitor(checks...),
			middlewares.Timeout(cfg.RequestTimeout),
			middlewares.Render(views.Registry(), middlewares.WithErrorPage(views.ErrorPage)),
			middlewares.Session(store, cfg.Session),
			middlewares.Transaction(pool),
		),
		servo.WithHandlers(tables()...),
	)

	runOpts = append(runOpts, servo.WithContext(ctx))
	return app.Run(runOpts...)
}
