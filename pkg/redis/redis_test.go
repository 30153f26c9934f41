package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/pkg/redis"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		client, err := redis.Open(ctx, redis.Config{})
		require.Nil(t, client)
		require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	for _, url := range []string{"http://localhost:6379", "localhost:6379", "postgresql://localhost:6379"} {
		t.Run("rejects "+url, func(t *testing.T) {
			t.Parallel()

			client, err := redis.Open(ctx, redis.Config{URL: url})
			require.Nil(t, client)
			require.ErrorIs(t, err, redis.ErrFailedToParseURL)
		})
	}

	t.Run("unreachable server fails after retries", func(t *testing.T) {
		t.Parallel()

		client, err := redis.Open(ctx, redis.Config{
			URL:           "redis://127.0.0.1:1/0",
			DialTimeout:   50 * time.Millisecond,
			RetryAttempts: 2,
			RetryInterval: time.Millisecond,
		})
		require.Nil(t, client)
		require.ErrorIs(t, err, redis.ErrConnectionFailed)
	})
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := redis.Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, redis.ErrHealthcheckFailed)
}

type closer struct{ err error }

func (c closer) Close() error { return c.err }

func TestShutdown(t *testing.T) {
	t.Parallel()

	require.NoError(t, redis.Shutdown(closer{})(context.Background()))

	boom := errors.New("boom")
	require.ErrorIs(t, redis.Shutdown(closer{err: boom})(context.Background()), boom)
}
