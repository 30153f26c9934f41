package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/pkg/session"
)

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("new session is clean and has no id", func(t *testing.T) {
		t.Parallel()

		s := session.New()
		require.True(t, s.IsNew())
		require.False(t, s.Dirty())
		require.Empty(t, s.ID())
	})

	t.Run("set marks dirty only on change", func(t *testing.T) {
		t.Parallel()

		s := session.Restore("id", "key", map[string]any{"a": "x"})
		s.Set("a", "x")
		require.False(t, s.Dirty())

		s.Set("a", "y")
		require.True(t, s.Dirty())

		v, ok := s.Get("a")
		require.True(t, ok)
		require.Equal(t, "y", v)
	})

	t.Run("delete marks dirty only when the key existed", func(t *testing.T) {
		t.Parallel()

		s := session.New()
		s.Delete("missing")
		require.False(t, s.Dirty())

		s.Set("k", 1)
		s.MarkSaved("id", "key")
		require.False(t, s.Dirty())

		s.Delete("k")
		require.True(t, s.Dirty())
	})

	t.Run("reissue marks dirty and is cleared by MarkSaved", func(t *testing.T) {
		t.Parallel()

		s := session.Restore("old", "oldkey", nil)
		s.Reissue()
		require.True(t, s.ReissueRequested())
		require.True(t, s.Dirty())

		s.MarkSaved("new", "newkey")
		require.False(t, s.ReissueRequested())
		require.False(t, s.Dirty())
		require.Equal(t, "new", s.ID())
		require.Equal(t, "newkey", s.Key())
	})

	t.Run("values returns a copy", func(t *testing.T) {
		t.Parallel()

		s := session.New()
		s.Set("a", 1)
		v := s.Values()
		v["a"] = 2

		got, _ := s.Get("a")
		require.Equal(t, 1, got)
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()

		s := session.Restore("id", "key", map[string]any{"a": 1})
		s.Clear()
		require.True(t, s.Dirty())
		require.Empty(t, s.Values())
	})
}

func TestValue(t *testing.T) {
	t.Parallel()

	s := session.New()
	s.Set("name", "ada")

	name, err := session.Value[string](s, "name")
	require.NoError(t, err)
	require.Equal(t, "ada", name)

	_, err = session.Value[int](s, "name")
	require.ErrorIs(t, err, session.ErrTypeMismatch)

	_, err = session.Value[string](s, "missing")
	require.ErrorIs(t, err, session.ErrNotFound)

	_, err = session.Value[string](nil, "name")
	require.ErrorIs(t, err, session.ErrNotFound)

	require.Equal(t, "fallback", session.ValueOr(s, "missing", "fallback"))
}
