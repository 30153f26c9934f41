package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/servo/internal"
)

// DefaultCORSMaxAge is how long browsers may cache a preflight answer.
const DefaultCORSMaxAge = 12 * time.Hour

// DefaultCORSConfig allows any origin with the common methods and headers.
var DefaultCORSConfig = CORSConfig{
	AllowOrigins: []string{"*"},
	AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	AllowHeaders: []string{"Accept", "Accept-Version", "Authorization", "Content-Type", "X-Request-ID"},
	MaxAge:       DefaultCORSMaxAge,
}

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOriginFunc, when set, decides instead of AllowOrigins.
	AllowOriginFunc func(origin string) bool

	// AllowOrigins lists allowed origins; "*" allows any.
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string

	// AllowCredentials echoes the request origin instead of "*".
	AllowCredentials bool

	MaxAge time.Duration
}

// CORSOption configures CORSConfig.
type CORSOption func(*CORSConfig)

func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowOrigins = origins }
}

// WithAllowOriginFunc validates origins dynamically, overriding AllowOrigins.
func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowOriginFunc = fn }
}

func WithAllowMethods(methods ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowMethods = methods }
}

func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowHeaders = headers }
}

func WithExposeHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.ExposeHeaders = headers }
}

func WithAllowCredentials() CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowCredentials = true }
}

// WithMaxAge sets the preflight cache duration. Zero omits the header.
func WithMaxAge(d time.Duration) CORSOption {
	return func(cfg *CORSConfig) { cfg.MaxAge = d }
}

// CORS returns middleware that handles Cross-Origin Resource Sharing.
// Preflight requests from allowed origins are answered with 204; every
// other response, errors included, gets the CORS headers.
func CORS(opts ...CORSOption) internal.Factory {
	cfg := &CORSConfig{
		AllowOrigins: DefaultCORSConfig.AllowOrigins,
		AllowMethods: DefaultCORSConfig.AllowMethods,
		AllowHeaders: DefaultCORSConfig.AllowHeaders,
		MaxAge:       DefaultCORSConfig.MaxAge,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	allowMethodsStr := strings.Join(cfg.AllowMethods, ", ")
	allowHeadersStr := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeadersStr := strings.Join(cfg.ExposeHeaders, ", ")
	maxAgeStr := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	hasWildcard := slices.Contains(cfg.AllowOrigins, "*")

	return internal.Use("cors", internal.MiddlewareFunc(func(next internal.Handler) internal.HandlerFunc {
		return func(c internal.Context) (any, error) {
			origin := c.Header("Origin")
			if origin == "" || !isOriginAllowed(origin, cfg, hasWildcard) {
				return next(c), nil
			}

			preflight := c.Request().Method == http.MethodOptions &&
				c.Header("Access-Control-Request-Method") != ""

			var resp *internal.Response
			if preflight {
				resp = internal.Empty().WithStatus(http.StatusNoContent)
			} else {
				resp = next(c)
			}

			headers := resp.Header
			headers.Add("Vary", "Origin")

			if cfg.AllowCredentials || !hasWildcard {
				headers.Set("Access-Control-Allow-Origin", origin)
			} else {
				headers.Set("Access-Control-Allow-Origin", "*")
			}

			if cfg.AllowCredentials {
				headers.Set("Access-Control-Allow-Credentials", "true")
			}

			if exposeHeadersStr != "" {
				headers.Set("Access-Control-Expose-Headers", exposeHeadersStr)
			}

			if preflight {
				headers.Add("Vary", "Access-Control-Request-Method")
				headers.Add("Vary", "Access-Control-Request-Headers")

				headers.Set("Access-Control-Allow-Methods", allowMethodsStr)
				headers.Set("Access-Control-Allow-Headers", allowHeadersStr)

				if cfg.MaxAge > 0 {
					headers.Set("Access-Control-Max-Age", maxAgeStr)
				}
			}

			return resp, nil
		}
	}))
}

// isOriginAllowed checks if the given origin is allowed based on configuration.
func isOriginAllowed(origin string, cfg *CORSConfig, hasWildcard bool) bool {
	// AllowOriginFunc completely overrides AllowOrigins when set
	if cfg.AllowOriginFunc != nil {
		return cfg.AllowOriginFunc(origin)
	}

	if hasWildcard {
		return true
	}
	return slices.Contains(cfg.AllowOrigins, origin)
}
