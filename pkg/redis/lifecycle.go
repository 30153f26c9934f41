package redis

import (
	"context"
	"errors"
	"io"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/servo/pkg/health"
)

var (
	ErrEmptyConnectionURL = errors.New("redis: connection URL is required")
	ErrFailedToParseURL   = errors.New("redis: invalid connection URL")
	ErrConnectionFailed   = errors.New("redis: server unreachable")
	ErrHealthcheckFailed  = errors.New("redis: ping failed")
)

// Healthcheck pings the server; register it with middlewares.WithCheck.
func Healthcheck(client redis.UniversalClient) health.CheckFunc {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown closes the client as a servo.ShutdownHook.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error { return client.Close() }
}
