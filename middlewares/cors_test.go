package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/middlewares"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	request := func(method, origin string) *http.Request {
		req := httptest.NewRequest(method, "/", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		return req
	}

	t.Run("default configuration allows all origins", func(t *testing.T) {
		t.Parallel()

		w := serve(t, request(http.MethodGet, "http://example.com"),
			internal.WithMiddleware(middlewares.CORS()),
			route("GET /", ok),
		)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		require.Contains(t, w.Header().Values("Vary"), "Origin")
	})

	t.Run("no headers without Origin", func(t *testing.T) {
		t.Parallel()

		w := serve(t, request(http.MethodGet, ""),
			internal.WithMiddleware(middlewares.CORS()),
			route("GET /", ok),
		)
		require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("static origin list", func(t *testing.T) {
		t.Parallel()

		opt := internal.WithMiddleware(middlewares.CORS(
			middlewares.WithAllowOrigins("http://allowed.com"),
		))

		w := serve(t, request(http.MethodGet, "http://allowed.com"), opt, route("GET /", ok))
		require.Equal(t, "http://allowed.com", w.Header().Get("Access-Control-Allow-Origin"))

		w = serve(t, request(http.MethodGet, "http://evil.com"), opt, route("GET /", ok))
		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("origin func overrides list", func(t *testing.T) {
		t.Parallel()

		w := serve(t, request(http.MethodGet, "https://app.example.com"),
			internal.WithMiddleware(middlewares.CORS(
				middlewares.WithAllowOrigins("http://other.com"),
				middlewares.WithAllowOriginFunc(func(origin string) bool {
					return strings.HasSuffix(origin, ".example.com")
				}),
			)),
			route("GET /", ok),
		)
		require.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("credentials echo the origin", func(t *testing.T) {
		t.Parallel()

		w := serve(t, request(http.MethodGet, "http://example.com"),
			internal.WithMiddleware(middlewares.CORS(
				middlewares.WithAllowCredentials(),
				middlewares.WithExposeHeaders("X-Request-ID"),
			)),
			route("GET /", ok),
		)
		require.Equal(t, "http://example.com", w.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		require.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("preflight answers without routing", func(t *testing.T) {
		t.Parallel()

		req := request(http.MethodOptions, "http://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		w := serve(t, req,
			internal.WithMiddleware(middlewares.CORS(
				middlewares.WithAllowMethods(http.MethodGet, http.MethodPost),
				middlewares.WithAllowHeaders("Content-Type"),
				middlewares.WithMaxAge(time.Hour),
			)),
		)
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
		require.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
		require.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("error responses get headers", func(t *testing.T) {
		t.Parallel()

		w := serve(t, request(http.MethodGet, "http://example.com"),
			internal.WithMiddleware(middlewares.CORS()),
			route("GET /", func(internal.Context) (any, error) {
				return nil, errors.New("boom")
			}),
		)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
