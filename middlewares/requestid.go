package middlewares

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/pkg/logger"
)

// requestIDKey is the context key for storing the request ID.
type requestIDKey struct{}

// DefaultRequestIDHeader is the response header carrying the request id.
const DefaultRequestIDHeader = "X-Request-ID"

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	ResponseHeader string
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID returns middleware that publishes the request id.
// The id itself comes from Context.ID: an incoming traceparent, a known
// request id header, or a fresh UUIDv7. It is stored on the request
// context for log extraction and echoed on every response, errors included.
func RequestID(opts ...RequestIDOption) internal.Factory {
	cfg := &RequestIDConfig{
		ResponseHeader: DefaultRequestIDHeader,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return internal.Use("request_id", internal.MiddlewareFunc(func(next internal.Handler) internal.HandlerFunc {
		return func(c internal.Context) (any, error) {
			reqID := c.ID()
			c.Set(requestIDKey{}, reqID)

			resp := next(c)
			if cfg.ResponseHeader != "" {
				resp.Header.Set(cfg.ResponseHeader, reqID)
			}
			return resp, nil
		}
	}))
}

// GetRequestID returns the id stored by RequestID, or "" if the middleware
// did not run.
func GetRequestID(c internal.Context) string {
	if v, ok := c.Get(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestIDExtractor returns a ContextExtractor for logger.New.
// Automatically adds "request_id" to all log entries.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
