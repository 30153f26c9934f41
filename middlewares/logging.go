package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/servo/internal"
)

// Logging returns middleware that writes one access log line per request.
// Server errors are logged at error level regardless of level; a nil
// logger uses the request's logger.
//
//	servo.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Logging(log, slog.LevelInfo),
//	)
func Logging(log *slog.Logger, level slog.Level) internal.Factory {
	return internal.Use("logging", internal.MiddlewareFunc(func(next internal.Handler) internal.HandlerFunc {
		return func(c internal.Context) (any, error) {
			start := time.Now()
			resp := next(c)

			l := log
			if l == nil {
				l = c.Logger()
			}

			lvl := level
			if resp.Status >= http.StatusInternalServerError && lvl < slog.LevelError {
				lvl = slog.LevelError
			}

			r := c.Request()
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", resp.Status),
				slog.Duration("duration", time.Since(start)),
			}
			if resp.Threw {
				attrs = append(attrs, slog.Bool("threw", true))
			}
			if route := c.Route(); route != nil {
				attrs = append(attrs, slog.String("route", route.Pattern))
			}

			l.LogAttrs(c, lvl, "request completed", attrs...)
			return resp, nil
		}
	}))
}
