package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/servo/pkg/cookie"
	"github.com/dmitrymomot/servo/pkg/session"
)

// Default session configuration.
const (
	DefaultSessionCookieName = "session"
	DefaultSessionTTL        = 14 * 24 * time.Hour
)

var (
	ErrSessionNoStore = errors.New("session: store is required")
	ErrSessionNoSalt  = errors.New("session: salt is required")
)

// SessionConfig configures the session cookie and key derivation.
type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE" envDefault:"session" yaml:"cookie_name"`
	Secret     string        `env:"SESSION_SECRET" yaml:"secret"`
	Salt       string        `env:"SESSION_SALT" yaml:"salt"`
	Domain     string        `env:"SESSION_DOMAIN" yaml:"domain"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"336h" yaml:"ttl"`

	// SameSite overrides the jar default (Strict).
	SameSite http.SameSite `env:"-" yaml:"-"`
}

// SessionManager loads sessions from sealed client ids and commits them
// back to a Store.
type SessionManager struct {
	store  session.Store
	sealer *cookie.Sealer
	cfg    SessionConfig
}

// NewSessionManager validates cfg and derives the sealing key.
func NewSessionManager(store session.Store, cfg SessionConfig) (*SessionManager, error) {
	if store == nil {
		return nil, ErrSessionNoStore
	}
	if cfg.Salt == "" {
		return nil, ErrSessionNoSalt
	}
	sealer, err := cookie.NewSealer(cfg.Secret)
	if err != nil {
		return nil, err
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	return &SessionManager{store: store, sealer: sealer, cfg: cfg}, nil
}

// Load resolves the session for c. A missing or undecryptable cookie
// yields a fresh session; a decrypted but malformed id is a
// *session.BadSessionError.
func (sm *SessionManager) Load(c Context) (*session.Session, error) {
	sealed, ok := c.Cookies().Get(sm.cfg.CookieName)
	if !ok || sealed == "" {
		return session.New(), nil
	}

	id, err := sm.sealer.Open(sealed)
	if err != nil {
		c.Logger().WarnContext(c, "discarding undecryptable session cookie",
			slog.String("cookie", sm.cfg.CookieName),
			slog.String("error", err.Error()),
		)
		return session.New(), nil
	}

	if !session.ValidClientID(id) {
		return nil, &session.BadSessionError{ID: id}
	}

	key := session.StorageKey(sm.cfg.Salt, id)
	data, err := sm.store.Load(c, key)
	if err != nil {
		return nil, err
	}
	return session.Restore(id, key, data), nil
}

// Commit persists a mutated session. Clean or nil sessions are left alone.
func (sm *SessionManager) Commit(c Context, s *session.Session) error {
	if s == nil || !s.Dirty() {
		return nil
	}

	now := time.Now()
	data := s.Values()
	data[session.ModifiedKey] = now.UnixMilli()

	oldKey := s.Key()
	id, key := s.ID(), oldKey
	rotate := s.IsNew() || s.ReissueRequested()
	if rotate {
		id = session.NewClientID(now)
		key = session.StorageKey(sm.cfg.Salt, id)
	}

	if err := sm.store.Save(c, key, data, sm.cfg.TTL); err != nil {
		return err
	}

	if rotate && oldKey != "" && oldKey != key {
		if d, ok := sm.store.(session.Deleter); ok {
			if err := d.Delete(c, oldKey); err != nil {
				c.Logger().WarnContext(c, "failed to delete reissued session",
					slog.String("error", err.Error()),
				)
			}
		}
	}

	if rotate {
		sealed, err := sm.sealer.Seal(id)
		if err != nil {
			return err
		}
		opts := []cookie.Option{cookie.WithMaxAge(sm.cfg.TTL)}
		if sm.cfg.Domain != "" {
			opts = append(opts, cookie.WithDomain(sm.cfg.Domain))
		}
		if sm.cfg.SameSite != 0 {
			opts = append(opts, cookie.WithSameSite(sm.cfg.SameSite))
		}
		c.Cookies().Set(sm.cfg.CookieName, sealed, opts...)
	}

	s.MarkSaved(id, key)
	return nil
}

