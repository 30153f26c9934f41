package middlewares

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/pkg/db"
)

// DefaultPingTimeout bounds the database ping at build time.
const DefaultPingTimeout = 5 * time.Second

type txKey struct{}

type transactionConfig struct {
	safeMethods []string
	pingTimeout time.Duration
}

// TransactionOption configures the Transaction middleware.
type TransactionOption func(*transactionConfig)

// WithSafeMethods replaces the methods served from the pool without a
// transaction. Default: GET, HEAD, OPTIONS.
func WithSafeMethods(methods ...string) TransactionOption {
	return func(cfg *transactionConfig) { cfg.safeMethods = methods }
}

// WithPingTimeout bounds the build-time ping.
func WithPingTimeout(d time.Duration) TransactionOption {
	return func(cfg *transactionConfig) {
		if d > 0 {
			cfg.pingTimeout = d
		}
	}
}

// Transaction returns middleware that scopes one database transaction to a
// request. Building pings the pool. The transaction begins on the first DB
// call of a mutating request and finishes exactly once after the inner
// layers return: committed unless the response threw, rolled back otherwise.
// A failed commit turns the response into a 500.
func Transaction(pool db.Pool, opts ...TransactionOption) internal.Factory {
	cfg := &transactionConfig{
		safeMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		pingTimeout: DefaultPingTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.Factory{
		Name: "transaction",
		Build: func(ctx context.Context) (internal.Middleware, error) {
			if pool == nil {
				return nil, ErrNilPool
			}

			pingCtx, cancel := context.WithTimeout(ctx, cfg.pingTimeout)
			defer cancel()
			if err := pool.Ping(pingCtx); err != nil {
				return nil, fmt.Errorf("ping database: %w", err)
			}

			return internal.MiddlewareFunc(func(next internal.Handler) internal.HandlerFunc {
				return func(c internal.Context) (any, error) {
					state := &txState{
						pool: pool,
						safe: slices.Contains(cfg.safeMethods, c.Request().Method),
					}
					c.Set(txKey{}, state)

					resp := next(c)

					if err := state.finish(context.WithoutCancel(c), !resp.Threw); err != nil {
						if !resp.Threw {
							return nil, fmt.Errorf("commit transaction: %w", err)
						}
						c.Logger().ErrorContext(c, "rollback failed", slog.String("error", err.Error()))
					}
					return resp, nil
				}
			}), nil
		},
	}
}

// DB returns the querier for the current request: the pool for safe
// methods, otherwise the request transaction, begun on first use.
//
//	func (h *Posts) create(c servo.Context) (any, error) {
//	    q, err := middlewares.DB(c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    _, err = q.Exec(c, "INSERT INTO posts (title) VALUES ($1)", title)
//	    ...
//	}
func DB(c internal.Context) (db.Querier, error) {
	state, ok := c.Get(txKey{}).(*txState)
	if !ok {
		return nil, ErrNoTransaction
	}
	return state.querier(c)
}

type txState struct {
	pool db.Pool
	safe bool

	mu   sync.Mutex
	tx   pgx.Tx
	done bool
}

func (s *txState) querier(ctx context.Context) (db.Querier, error) {
	if s.safe {
		return s.pool, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil, ErrTransactionDone
	}
	if s.tx == nil {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin transaction: %w", err)
		}
		s.tx = tx
	}
	return s.tx, nil
}

func (s *txState) finish(ctx context.Context, commit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil
	}
	s.done = true

	if s.tx == nil {
		return nil
	}
	return db.Finish(ctx, s.tx, commit)
}
