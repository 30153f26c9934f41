package middlewares

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/pkg/session"
)

// Session returns middleware that makes Context.Session available.
// Building fails when the store is nil, the salt is empty or the secret is
// shorter than 32 bytes. The session loads on first access; after the inner
// layers return a mutated session is saved and its cookie issued. Requests
// that never touch the session cost nothing.
//
//	store := session.NewRedisStore(client)
//	servo.WithMiddleware(middlewares.Session(store, cfg.Session))
func Session(store session.Store, cfg internal.SessionConfig) internal.Factory {
	return internal.Factory{
		Name: "session",
		Build: func(context.Context) (internal.Middleware, error) {
			sm, err := internal.NewSessionManager(store, cfg)
			if err != nil {
				return nil, err
			}
			return sessionMiddleware(sm), nil
		},
	}
}

func sessionMiddleware(sm *internal.SessionManager) internal.Middleware {
	return internal.MiddlewareFunc(func(next internal.Handler) internal.HandlerFunc {
		return func(c internal.Context) (any, error) {
			c.InstallSession(sm.Load)

			resp := next(c)

			if err := sm.Commit(c, c.PeekSession()); err != nil {
				return nil, fmt.Errorf("commit session: %w", err)
			}
			return resp, nil
		}
	})
}
