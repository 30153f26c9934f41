package internal_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/pkg/bodyparser"
)

func TestParseDescriptor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		methods []string
		path    string
	}{
		{"/users", []string{"GET"}, "/users"},
		{"POST /users", []string{"POST"}, "/users"},
		{"get /users/:id", []string{"GET"}, "/users/{id}"},
		{"GET,HEAD /files/*", []string{"GET", "HEAD"}, "/files/*"},
		{"DELETE /a/{id}/b/:name", []string{"DELETE"}, "/a/{id}/b/{name}"},
	}
	for _, tt := range tests {
		methods, path, err := internal.ParseDescriptor(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.methods, methods, tt.in)
		require.Equal(t, tt.path, path, tt.in)
	}

	for _, bad := range []string{"users", "FETCH /x", "GET users", "GET /a/:"} {
		_, _, err := internal.ParseDescriptor(bad)
		require.ErrorIs(t, err, internal.ErrInvalidRoute, bad)
	}
}

func text(s string) internal.HandlerFunc {
	return func(internal.Context) (any, error) { return s, nil }
}

func TestRouterMatching(t *testing.T) {
	t.Parallel()

	opts := internal.WithRoutes(
		internal.Route{Pattern: "GET /users/:id", Handler: func(c internal.Context) (any, error) {
			return "user " + c.Param("id"), nil
		}},
		internal.Route{Pattern: "GET /users/me", Handler: text("me")},
		internal.Route{Pattern: "POST /users", Handler: text("created")},
		internal.Route{Pattern: "/files/*", Handler: func(c internal.Context) (any, error) {
			return c.Param("*"), nil
		}},
	)

	t.Run("literal beats parameter", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodGet, "/users/me", nil), opts)
		require.Equal(t, "me", w.Body.String())
	})

	t.Run("parameters are attached", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodGet, "/users/7", nil), opts)
		require.Equal(t, "user 7", w.Body.String())
	})

	t.Run("wildcard", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodGet, "/files/a/b.txt", nil), opts)
		require.Equal(t, "a/b.txt", w.Body.String())
	})

	t.Run("HEAD falls back to GET without a body", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodHead, "/users/me", nil), opts)
		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, w.Body.String())
		require.Equal(t, "2", w.Header().Get("Content-Length"))
	})

	t.Run("no match is 404 naming method and path", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodDelete, "/users", nil), opts)
		require.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "Cannot DELETE /users", body["message"])
		require.NotContains(t, body, "stack")
	})

	t.Run("404 carries a stack in development", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodGet, "/missing", nil), opts, internal.WithDevelopment(true))
		require.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotEmpty(t, body["stack"])
	})
}

func TestRouterVersioning(t *testing.T) {
	t.Parallel()

	opts := internal.WithRoutes(
		internal.Route{Pattern: "GET /hello", Handler: text("old")},
		internal.Route{Pattern: "GET /hello", Version: "420.0.0", Handler: text("neue")},
		internal.Route{Pattern: "GET /hello", Version: "1.2.0", Handler: text("one")},
		internal.Route{Pattern: "GET /only", Version: "2.0.0", Handler: text("two")},
		internal.Route{Pattern: "GET /plain", Handler: text("plain")},
	)

	get := func(path, version string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if version != "" {
			req.Header.Set("Accept-Version", version)
		}
		return serve(t, req, opts)
	}

	t.Run("no header picks the unversioned route", func(t *testing.T) {
		t.Parallel()

		w := get("/hello", "")
		require.Equal(t, "old", w.Body.String())
		require.Contains(t, w.Header().Values("Vary"), "accept-version")
	})

	t.Run("paths without versions do not vary", func(t *testing.T) {
		t.Parallel()

		w := get("/plain", "*")
		require.Equal(t, "plain", w.Body.String())
		require.Empty(t, w.Header().Values("Vary"))
	})

	t.Run("exact version", func(t *testing.T) {
		t.Parallel()

		w := get("/hello", "420.0.0")
		require.Equal(t, "neue", w.Body.String())
		require.Contains(t, w.Header().Values("Vary"), "accept-version")
	})

	t.Run("range picks the highest satisfying version", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "one", get("/hello", "^1").Body.String())
		require.Equal(t, "neue", get("/hello", ">=1").Body.String())
		require.Equal(t, "neue", get("/hello", "*").Body.String())
	})

	t.Run("unsatisfied constraint falls back to unversioned", func(t *testing.T) {
		t.Parallel()

		w := get("/hello", "^5")
		require.Equal(t, "old", w.Body.String())
		require.Contains(t, w.Header().Values("Vary"), "accept-version")
	})

	t.Run("unsatisfied without fallback is 404", func(t *testing.T) {
		t.Parallel()

		w := get("/only", "^1")
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Contains(t, w.Header().Values("Vary"), "accept-version")
		require.Equal(t, "two", get("/only", "").Body.String())
	})

	t.Run("invalid header is 400", func(t *testing.T) {
		t.Parallel()

		w := get("/hello", "not a version")
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "invalid_version")
	})
}

func TestRouterRegister(t *testing.T) {
	t.Parallel()

	newRouter := func() *internal.Router {
		return internal.NewRouter(internal.NewComposer(slog.Default(), false, internal.WatchdogConfig{}))
	}

	t.Run("duplicates are rejected", func(t *testing.T) {
		t.Parallel()

		r := newRouter()
		require.NoError(t, r.Register(internal.Route{Pattern: "/a", Handler: text("a")}))
		require.ErrorIs(t, r.Register(internal.Route{Pattern: "GET /a", Handler: text("b")}), internal.ErrDuplicateRoute)

		require.NoError(t, r.Register(internal.Route{Pattern: "/a", Version: "1.0.0", Handler: text("a1")}))
		require.ErrorIs(t, r.Register(internal.Route{Pattern: "/a", Version: "1.0.0", Handler: text("a1")}), internal.ErrDuplicateRoute)
	})

	t.Run("invalid routes", func(t *testing.T) {
		t.Parallel()

		r := newRouter()
		require.ErrorIs(t, r.Register(internal.Route{Pattern: "/x"}), internal.ErrInvalidRoute)
		require.ErrorIs(t, r.Register(internal.Route{Pattern: "/x", Version: "one", Handler: text("x")}), internal.ErrInvalidRoute)
	})

	t.Run("listing", func(t *testing.T) {
		t.Parallel()

		r := newRouter()
		require.NoError(t, r.Register(
			internal.Route{Pattern: "POST /b", Handler: text("b"), Name: "create-b"},
			internal.Route{Pattern: "GET,HEAD /a/:id", Handler: text("a")},
		))
		require.Equal(t, []internal.RouteInfo{
			{Method: "GET", Path: "/a/:id"},
			{Method: "HEAD", Path: "/a/:id"},
			{Method: "POST", Path: "/b", Name: "create-b"},
		}, r.Routes())
	})

	t.Run("app build fails on bad routes", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithRoutes(internal.Route{Pattern: "nope", Handler: text("x")}))
		_, err := app.Build(context.Background())
		require.ErrorIs(t, err, internal.ErrInvalidRoute)
	})
}

func TestRouteMiddlewareOrder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	w := serve(t, httptest.NewRequest(http.MethodGet, "/", nil),
		internal.WithMiddleware(internal.Use("app", tracing(rec, "app"))),
		internal.WithRoutes(internal.Route{
			Pattern:    "/",
			Middleware: []internal.Middleware{tracing(rec, "m1"), tracing(rec, "m2")},
			Decorators: []internal.Middleware{tracing(rec, "d1"), tracing(rec, "d2")},
			Handler: func(internal.Context) (any, error) {
				rec.add("H")
				return nil, nil
			},
		}),
	)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, []string{
		"app-enter", "m1-enter", "m2-enter", "d1-enter", "d2-enter", "H",
		"d2-exit", "d1-exit", "m2-exit", "m1-exit", "app-exit",
	}, rec.list())
}

func TestRouteBodyParsers(t *testing.T) {
	t.Parallel()

	echo := func(c internal.Context) (any, error) {
		body, err := c.Body()
		if err != nil {
			return nil, err
		}
		return map[string]any{"body": body}, nil
	}
	opts := []internal.Option{
		internal.WithBodyParsers(bodyparser.JSON()),
		internal.WithRoutes(
			internal.Route{Pattern: "POST /json", Handler: echo},
			internal.Route{Pattern: "POST /text", Handler: echo, BodyParsers: []bodyparser.Parser{bodyparser.Text()}},
		),
	}

	post := func(path, ct, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", ct)
		return serve(t, req, opts...)
	}

	require.Equal(t, `{"body":{"a":1}}`, post("/json", "application/json", `{"a":1}`).Body.String())
	require.Equal(t, http.StatusUnsupportedMediaType, post("/json", "text/plain", "hi").Code)
	require.Equal(t, http.StatusUnprocessableEntity, post("/json", "application/json", "{").Code)

	require.Equal(t, `{"body":"hi"}`, post("/text", "text/plain", "hi").Body.String())
	require.Equal(t, http.StatusUnsupportedMediaType, post("/text", "application/json", "{}").Code)
}
