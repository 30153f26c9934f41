package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/servo/pkg/health"
)

var (
	ErrEmptyConnectionURL       = errors.New("db: connection URL is required")
	ErrFailedToParseDBConfig    = errors.New("db: invalid pool configuration")
	ErrFailedToOpenDBConnection = errors.New("db: database unreachable")
	ErrHealthcheckFailed        = errors.New("db: ping failed")
	ErrSetDialect               = errors.New("db: goose dialect")
	ErrApplyMigrations          = errors.New("db: apply migrations")
)

// Healthcheck pings the pool; register it with middlewares.WithCheck.
func Healthcheck(pool Pool) health.CheckFunc {
	return func(ctx context.Context) error {
		if pool == nil {
			return ErrHealthcheckFailed
		}
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown closes the pool as a servo.ShutdownHook. Close blocks until
// acquired connections are released.
func Shutdown(pool *pgxpool.Pool) func(context.Context) error {
	return func(context.Context) error {
		pool.Close()
		return nil
	}
}
