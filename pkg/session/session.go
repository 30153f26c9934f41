package session

import (
	"maps"
	"reflect"
	"sync"
)

// ModifiedKey holds the unix-millis timestamp stamped on every save.
const ModifiedKey = "modified"

// Session is the per-request view of a client's session data.
// Values must be JSON-serializable; after a round trip through a store,
// numbers come back as float64.
type Session struct {
	values  map[string]any
	id      string
	key     string
	mu      sync.Mutex
	dirty   bool
	reissue bool
}

// New returns an empty session without a client id.
func New() *Session {
	return &Session{values: make(map[string]any)}
}

// Restore rebuilds a session loaded from a store.
func Restore(id, key string, data map[string]any) *Session {
	if data == nil {
		data = make(map[string]any)
	}
	return &Session{id: id, key: key, values: data}
}

// ID returns the client id, or "" if none was issued yet.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Key returns the storage key derived from the client id.
func (s *Session) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// IsNew reports whether the session has no client id yet.
func (s *Session) IsNew() bool {
	return s.ID() == ""
}

// Get returns a value by key.
func (s *Session) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value. The session becomes dirty only if the value changed.
func (s *Session) Set(key string, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.values[key]; ok && reflect.DeepEqual(old, val) {
		return
	}
	s.values[key] = val
	s.dirty = true
}

// Delete removes a value. The session becomes dirty only if the key existed.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// Clear removes every value.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) > 0 {
		s.values = make(map[string]any)
		s.dirty = true
	}
}

// Values returns a copy of the session data.
func (s *Session) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values)
}

// Reissue requests a new client id at the end of the request.
// Call it whenever the authentication state changes.
func (s *Session) Reissue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reissue = true
	s.dirty = true
}

// ReissueRequested reports whether Reissue was called.
func (s *Session) ReissueRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reissue
}

// Dirty reports whether the session has unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkSaved records the id and key the session was persisted under.
func (s *Session) MarkSaved(id, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.key = key
	s.dirty = false
	s.reissue = false
}

// Value returns a typed session value.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.Get(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, ErrTypeMismatch
	}
	return typed, nil
}

// ValueOr returns a typed session value or def when missing or of another type.
func ValueOr[T any](s *Session, key string, def T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return def
	}
	return val
}
