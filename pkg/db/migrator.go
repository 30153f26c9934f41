package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration found in dir of fsys.
// table names the goose version table.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir, table string, log *slog.Logger) error {
	// Borrows connections from pool; idle ones stay there.
	sqlDB := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(fsys)
	goose.SetLogger(&gooseLogger{log: log})
	if table != "" {
		goose.SetTableName(table)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	if g.log != nil {
		g.log.Info(fmt.Sprintf(format, args...), slog.String("component", "migrator"))
	}
}

// Fatalf only logs; goose returns the error to Migrate.
func (g *gooseLogger) Fatalf(format string, args ...any) {
	if g.log != nil {
		g.log.Error(fmt.Sprintf(format, args...), slog.String("component", "migrator"))
	}
}
