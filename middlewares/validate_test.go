package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/middlewares"
)

type signup struct {
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func checkSignup(in signup) []internal.FieldError {
	var fields []internal.FieldError
	if in.Email == "" {
		fields = append(fields, internal.FieldError{Field: "email", Rule: "required", Message: "is required"})
	}
	if in.Age < 18 {
		fields = append(fields, internal.FieldError{Field: "age", Rule: "min", Message: "must be at least 18"})
	}
	return fields
}

func TestValidateBody(t *testing.T) {
	t.Parallel()

	opt := internal.WithRoutes(internal.Route{
		Pattern:    "POST /signup",
		Middleware: []internal.Middleware{middlewares.ValidateBody(checkSignup)},
		Handler: func(c internal.Context) (any, error) {
			return middlewares.Body[signup](c), nil
		},
	})

	post := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("valid body reaches the handler typed", func(t *testing.T) {
		t.Parallel()

		w := serve(t, post(`{"email":"a@b.c","age":30}`), opt)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"email":"a@b.c","age":30}`, w.Body.String())
	})

	t.Run("field failures are a 400", func(t *testing.T) {
		t.Parallel()

		w := serve(t, post(`{"age":12}`), opt)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var body struct {
			Code   string                `json:"code"`
			Errors []internal.FieldError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "validation_failed", body.Code)
		require.Len(t, body.Errors, 2)
		require.Equal(t, "email", body.Errors[0].Field)
	})

	t.Run("wrong shape is a 422", func(t *testing.T) {
		t.Parallel()

		w := serve(t, post(`{"email":"a@b.c","age":"old"}`), opt)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), "invalid_body")
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	requireQuery := func(name string) func(internal.Context) []internal.FieldError {
		return func(c internal.Context) []internal.FieldError {
			if c.Query(name) == "" {
				return []internal.FieldError{{Field: name, Rule: "required", Message: "is required"}}
			}
			return nil
		}
	}

	opt := internal.WithRoutes(internal.Route{
		Pattern:    "GET /search",
		Middleware: []internal.Middleware{middlewares.Validate(requireQuery("q"))},
		Handler:    func(c internal.Context) (any, error) { return c.Query("q"), nil },
	})

	w := serve(t, httptest.NewRequest(http.MethodGet, "/search?q=go", nil), opt)
	require.Equal(t, "go", w.Body.String())

	w = serve(t, httptest.NewRequest(http.MethodGet, "/search", nil), opt)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
