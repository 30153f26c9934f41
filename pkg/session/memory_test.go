package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/pkg/session"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("load of unknown key returns nil", func(t *testing.T) {
		t.Parallel()

		s := session.NewMemoryStore(session.WithCleanupInterval(0))
		t.Cleanup(func() { _ = s.Close() })

		data, err := s.Load(ctx, "nope")
		require.NoError(t, err)
		require.Nil(t, data)
	})

	t.Run("save and load copy data", func(t *testing.T) {
		t.Parallel()

		s := session.NewMemoryStore(session.WithCleanupInterval(0))
		t.Cleanup(func() { _ = s.Close() })

		in := map[string]any{"user": "ada"}
		require.NoError(t, s.Save(ctx, "k", in, time.Minute))
		in["user"] = "mutated"

		out, err := s.Load(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "ada", out["user"])
	})

	t.Run("nested values are not shared between loads", func(t *testing.T) {
		t.Parallel()

		s := session.NewMemoryStore(session.WithCleanupInterval(0))
		t.Cleanup(func() { _ = s.Close() })

		in := map[string]any{"cart": map[string]any{"n": 1}, "tags": []any{"a"}}
		require.NoError(t, s.Save(ctx, "k", in, time.Minute))
		in["cart"].(map[string]any)["n"] = 2

		first, err := s.Load(ctx, "k")
		require.NoError(t, err)
		first["cart"].(map[string]any)["n"] = 99
		first["tags"].([]any)[0] = "z"

		second, err := s.Load(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, map[string]any{"n": float64(1)}, second["cart"])
		require.Equal(t, []any{"a"}, second["tags"])
	})

	t.Run("expired rows disappear", func(t *testing.T) {
		t.Parallel()

		s := session.NewMemoryStore(session.WithCleanupInterval(0))
		t.Cleanup(func() { _ = s.Close() })

		require.NoError(t, s.Save(ctx, "k", map[string]any{"a": 1}, 10*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		out, err := s.Load(ctx, "k")
		require.NoError(t, err)
		require.Nil(t, out)
		require.Equal(t, 0, s.Len())
	})

	t.Run("janitor purges expired rows", func(t *testing.T) {
		t.Parallel()

		s := session.NewMemoryStore(session.WithCleanupInterval(5 * time.Millisecond))
		t.Cleanup(func() { _ = s.Close() })

		require.NoError(t, s.Save(ctx, "k", map[string]any{"a": 1}, time.Millisecond))
		require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("max entries evicts least recently used", func(t *testing.T) {
		t.Parallel()

		s := session.NewMemoryStore(session.WithCleanupInterval(0), session.WithMaxEntries(2))
		t.Cleanup(func() { _ = s.Close() })

		require.NoError(t, s.Save(ctx, "a", map[string]any{}, time.Minute))
		require.NoError(t, s.Save(ctx, "b", map[string]any{}, time.Minute))
		_, _ = s.Load(ctx, "a")
		require.NoError(t, s.Save(ctx, "c", map[string]any{}, time.Minute))

		b, err := s.Load(ctx, "b")
		require.NoError(t, err)
		require.Nil(t, b)

		a, err := s.Load(ctx, "a")
		require.NoError(t, err)
		require.NotNil(t, a)
	})

	t.Run("delete and close", func(t *testing.T) {
		t.Parallel()

		s := session.NewMemoryStore(session.WithCleanupInterval(0))
		require.NoError(t, s.Save(ctx, "k", map[string]any{}, time.Minute))
		require.NoError(t, s.Delete(ctx, "k"))
		require.Equal(t, 0, s.Len())

		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
		require.ErrorIs(t, s.Save(ctx, "k", nil, time.Minute), session.ErrStoreClosed)
	})
}
