package session

import (
	"context"
	"time"
)

// Store persists session data under a hashed storage key.
type Store interface {
	// Load returns the data stored under key, or nil and no error when absent or expired.
	Load(ctx context.Context, key string) (map[string]any, error)

	// Save replaces the data stored under key and sets its time to live.
	Save(ctx context.Context, key string, data map[string]any, ttl time.Duration) error
}

// Deleter is implemented by stores that can drop a row eagerly.
// The session manager uses it to remove the previous row after a reissue.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Funcs adapts a pair of functions to Store.
type Funcs struct {
	LoadFunc func(ctx context.Context, key string) (map[string]any, error)
	SaveFunc func(ctx context.Context, key string, data map[string]any, ttl time.Duration) error
}

func (f Funcs) Load(ctx context.Context, key string) (map[string]any, error) {
	if f.LoadFunc == nil {
		return nil, nil
	}
	return f.LoadFunc(ctx, key)
}

func (f Funcs) Save(ctx context.Context, key string, data map[string]any, ttl time.Duration) error {
	if f.SaveFunc == nil {
		return nil
	}
	return f.SaveFunc(ctx, key, data, ttl)
}

var _ Store = Funcs{}
