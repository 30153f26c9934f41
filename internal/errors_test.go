package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/internal"
)

func TestHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("constructors set status", func(t *testing.T) {
		t.Parallel()

		for code, err := range map[int]*internal.HTTPError{
			http.StatusBadRequest:           internal.ErrBadRequest("x"),
			http.StatusUnauthorized:         internal.ErrUnauthorized("x"),
			http.StatusForbidden:            internal.ErrForbidden("x"),
			http.StatusNotFound:             internal.ErrNotFound("x"),
			http.StatusConflict:             internal.ErrConflict("x"),
			http.StatusUnsupportedMediaType: internal.ErrUnsupportedMediaType("x"),
			http.StatusUnprocessableEntity:  internal.ErrUnprocessable("x"),
			http.StatusInternalServerError:  internal.ErrInternal("x"),
			http.StatusServiceUnavailable:   internal.ErrServiceUnavailable("x"),
		} {
			require.Equal(t, code, err.StatusCode())
		}
	})

	t.Run("empty message uses status text", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "Not Found", internal.ErrNotFound("").Error())
	})

	t.Run("options and payload", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("db down")
		err := internal.ErrServiceUnavailable("try later",
			internal.WithErrorCode("db_unavailable"),
			internal.WithDetail("primary unreachable"),
			internal.WithError(cause),
		)
		require.ErrorIs(t, err, cause)
		require.Equal(t, map[string]any{"code": "db_unavailable", "detail": "primary unreachable"}, err.Payload())
	})

	t.Run("AsHTTPError finds wrapped errors", func(t *testing.T) {
		t.Parallel()

		wrapped := fmt.Errorf("outer: %w", internal.ErrConflict("taken"))
		got := internal.AsHTTPError(wrapped)
		require.NotNil(t, got)
		require.Equal(t, http.StatusConflict, got.Code)
		require.Nil(t, internal.AsHTTPError(errors.New("plain")))
		require.Nil(t, internal.AsHTTPError(nil))
	})
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := &internal.NotFoundError{Method: http.MethodGet, Path: "/nope"}
	require.Equal(t, "Cannot GET /nope", err.Error())
	require.Equal(t, http.StatusNotFound, err.StatusCode())

	versioned := &internal.NotFoundError{Method: http.MethodGet, Path: "/x", Version: "^9"}
	require.Contains(t, versioned.Error(), "^9")
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := &internal.ValidationError{}
	require.True(t, err.Empty())

	err.Add("email", "required", "is required").Add("age", "min", "must be at least 18")
	require.False(t, err.Empty())
	require.Equal(t, http.StatusBadRequest, err.StatusCode())
	require.Equal(t, "validation failed: email: is required; age: must be at least 18", err.Error())

	payload := err.Payload()
	require.Equal(t, "validation_failed", payload["code"])
	require.Len(t, payload["errors"], 2)
}

func TestPanicError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	require.ErrorIs(t, &internal.PanicError{Value: cause}, cause)
	require.Equal(t, "panic: oops", (&internal.PanicError{Value: "oops"}).Error())
}
