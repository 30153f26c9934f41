package main

import (
	"context"
	"embed"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/servo/pkg/db"
	"github.com/dmitrymomot/servo/pkg/logger"
	"github.com/dmitrymomot/servo/pkg/session"
)

//go:embed migrations/*.sql
var migrations embed.FS

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log)

			pool, err := db.Connect(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			return migrate(cmd.Context(), pool, cfg, log)
		},
	}
}

// migrate applies the session table and the application schema, each with
// its own version table.
func migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log *slog.Logger) error {
	if err := db.Migrate(ctx, pool, session.Migrations, "migrations", cfg.DB.MigrationsTable+"_sessions", log); err != nil {
		return err
	}
	return db.Migrate(ctx, pool, migrations, "migrations", cfg.DB.MigrationsTable, log)
}
