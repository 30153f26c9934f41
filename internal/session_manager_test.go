package internal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/pkg/cookie"
	"github.com/dmitrymomot/servo/pkg/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type countingStore struct {
	mu      sync.Mutex
	rows    map[string]map[string]any
	loads   int
	saves   int
	deletes []string
	ttl     time.Duration
}

func newCountingStore() *countingStore {
	return &countingStore{rows: make(map[string]map[string]any)}
}

func (s *countingStore) Load(_ context.Context, key string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.rows[key], nil
}

func (s *countingStore) Save(_ context.Context, key string, data map[string]any, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.ttl = ttl
	s.rows[key] = data
	return nil
}

func (s *countingStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, key)
	delete(s.rows, key)
	return nil
}

func newManager(t *testing.T, store session.Store) *internal.SessionManager {
	t.Helper()
	sm, err := internal.NewSessionManager(store, internal.SessionConfig{
		Secret: testSecret,
		Salt:   "pepper",
		TTL:    time.Hour,
	})
	require.NoError(t, err)
	return sm
}

// sealedCookie seals id the same way the manager does.
func sealedCookie(t *testing.T, id string) *http.Cookie {
	t.Helper()
	sealer, err := cookie.NewSealer(testSecret)
	require.NoError(t, err)
	v, err := sealer.Seal(id)
	require.NoError(t, err)
	return &http.Cookie{Name: internal.DefaultSessionCookieName, Value: v}
}

func contextWith(t *testing.T, sm *internal.SessionManager, cookies ...*http.Cookie) internal.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	c := internal.NewContext(req, internal.ContextConfig{})
	c.InstallSession(sm.Load)
	return c
}

func TestNewSessionManager(t *testing.T) {
	t.Parallel()

	_, err := internal.NewSessionManager(nil, internal.SessionConfig{Secret: testSecret, Salt: "s"})
	require.ErrorIs(t, err, internal.ErrSessionNoStore)

	_, err = internal.NewSessionManager(newCountingStore(), internal.SessionConfig{Secret: testSecret})
	require.ErrorIs(t, err, internal.ErrSessionNoSalt)

	_, err = internal.NewSessionManager(newCountingStore(), internal.SessionConfig{Secret: "short", Salt: "s"})
	require.Error(t, err)
}

func TestSessionManagerLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("unmodified session is not saved", func(t *testing.T) {
		t.Parallel()

		store := newCountingStore()
		sm := newManager(t, store)
		c := contextWith(t, sm)

		s, err := c.Session()
		require.NoError(t, err)
		_, _ = s.Get("anything")

		require.NoError(t, sm.Commit(c, s))
		require.Equal(t, 0, store.saves)
		require.Empty(t, c.Cookies().Collect())
	})

	t.Run("one mutation saves once and sets one cookie", func(t *testing.T) {
		t.Parallel()

		store := newCountingStore()
		sm := newManager(t, store)
		c := contextWith(t, sm)

		s, err := c.Session()
		require.NoError(t, err)
		s.Set("user", "ann")

		require.NoError(t, sm.Commit(c, s))
		require.Equal(t, 1, store.saves)
		require.Equal(t, time.Hour, store.ttl)
		require.False(t, s.Dirty())
		require.True(t, session.ValidClientID(s.ID()))

		saved := store.rows[s.Key()]
		require.Equal(t, "ann", saved["user"])
		require.Contains(t, saved, session.ModifiedKey)

		cookies := c.Cookies().Collect()
		require.Len(t, cookies, 1)
		require.True(t, strings.HasPrefix(cookies[0], internal.DefaultSessionCookieName+"="))
		require.Contains(t, cookies[0], "Max-Age=3600")

		// committing again without changes is a no-op
		require.NoError(t, sm.Commit(c, s))
		require.Equal(t, 1, store.saves)
	})

	t.Run("existing session round trip", func(t *testing.T) {
		t.Parallel()

		store := newCountingStore()
		sm := newManager(t, store)
		id := session.NewClientID(time.Now())
		store.rows[session.StorageKey("pepper", id)] = map[string]any{"user": "bob"}

		c := contextWith(t, sm, sealedCookie(t, id))
		s, err := c.Session()
		require.NoError(t, err)
		require.Equal(t, id, s.ID())
		v, ok := s.Get("user")
		require.True(t, ok)
		require.Equal(t, "bob", v)

		s.Set("seen", true)
		require.NoError(t, sm.Commit(c, s))
		require.Equal(t, id, s.ID())
		require.Empty(t, c.Cookies().Collect(), "id is unchanged so the cookie is not rewritten")
	})

	t.Run("reissue mints a new id and drops the old row", func(t *testing.T) {
		t.Parallel()

		store := newCountingStore()
		sm := newManager(t, store)
		id := session.NewClientID(time.Now())
		oldKey := session.StorageKey("pepper", id)
		store.rows[oldKey] = map[string]any{"user": "bob"}

		c := contextWith(t, sm, sealedCookie(t, id))
		s, err := c.Session()
		require.NoError(t, err)
		s.Reissue()

		require.NoError(t, sm.Commit(c, s))
		require.NotEqual(t, id, s.ID())
		require.Equal(t, []string{oldKey}, store.deletes)
		require.Equal(t, "bob", store.rows[s.Key()]["user"])
		require.Len(t, c.Cookies().Collect(), 1)
	})

	t.Run("undecryptable cookie starts fresh", func(t *testing.T) {
		t.Parallel()

		store := newCountingStore()
		sm := newManager(t, store)
		c := contextWith(t, sm, &http.Cookie{Name: internal.DefaultSessionCookieName, Value: "garbage"})

		s, err := c.Session()
		require.NoError(t, err)
		require.True(t, s.IsNew())
		require.Equal(t, 0, store.loads)
	})

	t.Run("malformed id is a bad session", func(t *testing.T) {
		t.Parallel()

		sm := newManager(t, newCountingStore())
		c := contextWith(t, sm, sealedCookie(t, "not-a-session-id"))

		_, err := c.Session()
		require.ErrorIs(t, err, session.ErrBadSession)
		require.True(t, session.IsBadSession(err))
	})

	t.Run("nil session commit", func(t *testing.T) {
		t.Parallel()

		sm := newManager(t, newCountingStore())
		require.NoError(t, sm.Commit(contextWith(t, sm), nil))
	})
}
