package middlewares_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/middlewares"
	"github.com/dmitrymomot/servo/pkg/health"
)

func TestMonitor(t *testing.T) {
	t.Parallel()

	healthy := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("connection refused") }

	t.Run("ping", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodGet, "/monitor/ping", nil),
			internal.WithMiddleware(middlewares.Monitor()),
		)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "pong", w.Body.String())
	})

	t.Run("status healthy as json", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/monitor/status", nil)
		req.Header.Set("Accept", "application/json")

		w := serve(t, req, internal.WithMiddleware(middlewares.Monitor(
			middlewares.WithCheck("postgres", healthy),
		)))
		require.Equal(t, http.StatusOK, w.Code)

		var report health.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		require.Equal(t, health.StatusHealthy, report.Status)
		require.Contains(t, report.Checks, "postgres")
	})

	t.Run("status unhealthy as text", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodGet, "/monitor/status", nil),
			internal.WithMiddleware(middlewares.Monitor(
				middlewares.WithCheck("postgres", healthy),
				middlewares.WithCheck("redis", failing),
			)),
		)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.Equal(t, health.StatusUnhealthy, w.Body.String())
	})

	t.Run("custom prefix and passthrough", func(t *testing.T) {
		t.Parallel()

		opts := []internal.Option{
			internal.WithMiddleware(middlewares.Monitor(middlewares.WithMonitorPrefix("_health/"))),
			route("GET /monitor/ping", func(internal.Context) (any, error) { return "routed", nil }),
		}

		w := serve(t, httptest.NewRequest(http.MethodGet, "/_health/ping", nil), opts...)
		require.Equal(t, "pong", w.Body.String())

		w = serve(t, httptest.NewRequest(http.MethodGet, "/monitor/ping", nil), opts...)
		require.Equal(t, "routed", w.Body.String())
	})

	t.Run("ignores other methods", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodPost, "/monitor/ping", nil),
			internal.WithMiddleware(middlewares.Monitor()),
		)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
