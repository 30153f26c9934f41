package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis as JSON with native key expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces keys as "{prefix}:{key}". Default: "session".
// An empty prefix stores bare keys.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore creates a store on top of a client from pkg/redis.Open.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "session"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Load(ctx context.Context, key string) (map[string]any, error) {
	raw, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, data map[string]any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}
	return s.client.Set(ctx, s.redisKey(key), raw, max(ttl, 0)).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.redisKey(key)).Err()
}

func (s *RedisStore) redisKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

var (
	_ Store   = (*RedisStore)(nil)
	_ Deleter = (*RedisStore)(nil)
)
