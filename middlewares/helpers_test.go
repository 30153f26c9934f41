package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/internal"
)

// serve builds an app from opts and sends req through it.
func serve(t *testing.T, req *http.Request, opts ...internal.Option) *httptest.ResponseRecorder {
	t.Helper()

	app := internal.New(opts...)
	_, err := app.Build(context.Background())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func route(pattern string, h internal.HandlerFunc) internal.Option {
	return internal.WithRoutes(internal.Route{Pattern: pattern, Handler: h})
}

func ok(internal.Context) (any, error) {
	return "ok", nil
}
