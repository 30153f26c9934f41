package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/servo/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that attaches a deadline to the request
// context. It never interrupts a handler: code that honours ctx.Done()
// stops early, and a failure caused by the deadline becomes a TimeoutError
// (503). When the inner layers return, the outer deadline and cancellation
// are restored while values they stored with Set stay visible.
func Timeout(d time.Duration) internal.Factory {
	if d <= 0 {
		d = DefaultTimeout
	}

	return internal.Use("timeout", internal.MiddlewareFunc(func(next internal.Handler) internal.HandlerFunc {
		return func(c internal.Context) (any, error) {
			prev := c.Request().Context()
			ctx, cancel := context.WithTimeout(prev, d)
			defer cancel()

			c.SetContext(ctx)
			resp := next(c)
			c.SetContext(detachedDeadline{Context: prev, values: c.Request().Context()})

			if resp.Threw && errors.Is(resp.Err, context.DeadlineExceeded) &&
				errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.Logger().WarnContext(c, "request timeout", slog.Duration("timeout", d))
				return nil, &TimeoutError{Duration: d}
			}
			return resp, nil
		}
	}))
}

// detachedDeadline keeps the lifetime of Context and resolves values
// through values.
type detachedDeadline struct {
	context.Context
	values context.Context
}

func (d detachedDeadline) Value(key any) any {
	return d.values.Value(key)
}
