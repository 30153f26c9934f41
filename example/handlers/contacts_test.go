package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo"
	"github.com/dmitrymomot/servo/pkg/logger"
)

func TestValidateCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     CreateContact
		fields []string
	}{
		{"valid", CreateContact{Name: "Ada", Email: "ada@example.com"}, nil},
		{"blank name", CreateContact{Name: "  ", Email: "ada@example.com"}, []string{"name"}},
		{"long name", CreateContact{Name: strings.Repeat("a", 101), Email: "ada@example.com"}, []string{"name"}},
		{"bad email", CreateContact{Name: "Ada", Email: "nope"}, []string{"email"}},
		{"empty", CreateContact{}, []string{"name", "email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, f := range validateCreate(tt.in) {
				got = append(got, f.Field)
			}
			require.Equal(t, tt.fields, got)
		})
	}
}

func TestContactsCreateRejectsInvalidBody(t *testing.T) {
	t.Parallel()

	app := servo.New(
		servo.WithLogger(logger.NewNope()),
		servo.WithHandlers(NewContacts(), Account{}),
	)
	_, err := app.Build(context.Background())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(`{"name":"","email":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Code   string `json:"code"`
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "validation_failed", body.Code)
	require.Len(t, body.Errors, 2)
}

func TestRouteTables(t *testing.T) {
	t.Parallel()

	app := servo.New(servo.WithHandlers(NewContacts(), Account{}))
	_, err := app.Build(context.Background())
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, r := range app.Routes() {
		names[r.Name] = true
	}
	require.True(t, names["contacts.show.v2"])
	require.True(t, names["account.rotate"])
	require.Len(t, app.Routes(), 7)
}
