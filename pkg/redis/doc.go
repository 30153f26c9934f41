// Package redis opens go-redis clients for session storage and health checks.
//
//	client, err := redis.Open(ctx, redis.Config{URL: os.Getenv("REDIS_URL")})
//	if err != nil {
//		return err
//	}
//	store := session.NewRedisStore(client)
//
// Open retries the initial ping RetryAttempts times, waiting n*RetryInterval
// before attempt n+1. [Healthcheck] plugs into health.Checks and [Shutdown]
// into servo.ShutdownHook.
package redis
