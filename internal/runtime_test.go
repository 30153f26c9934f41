package internal_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/internal"
)

func TestRun(t *testing.T) {
	t.Parallel()

	for _, dev := range []bool{false, true} {
		t.Run(map[bool]string{false: "graceful", true: "development"}[dev], func(t *testing.T) {
			t.Parallel()

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			hookErr := errors.New("hook failed")
			var hookCalled bool
			app := internal.New(
				internal.WithDevelopment(dev),
				internal.WithRoutes(internal.Route{Pattern: "/ping", Handler: text("pong")}),
			)

			done := make(chan error, 1)
			go func() {
				done <- app.Run(
					internal.Listener(ln),
					internal.WithContext(ctx),
					internal.ShutdownTimeout(time.Second),
					internal.ShutdownHook(func(context.Context) error {
						hookCalled = true
						return hookErr
					}),
				)
			}()

			var resp *http.Response
			require.Eventually(t, func() bool {
				resp, err = http.Get("http://" + ln.Addr().String() + "/ping")
				return err == nil
			}, 2*time.Second, 10*time.Millisecond)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.NoError(t, resp.Body.Close())
			require.Equal(t, "pong", string(body))

			cancel()
			select {
			case err := <-done:
				require.ErrorIs(t, err, hookErr)
				require.True(t, hookCalled)
			case <-time.After(3 * time.Second):
				t.Fatal("server did not stop")
			}
		})
	}
}

func TestRunBuildFailure(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithRoutes(internal.Route{Pattern: "bad", Handler: text("x")}))
	err := app.Run(internal.Address("127.0.0.1:0"))
	require.ErrorIs(t, err, internal.ErrInvalidRoute)
}
