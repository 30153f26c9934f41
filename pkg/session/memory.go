package session

import (
	"container/list"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// memoryEntry is one stored session row, JSON-encoded like the other
// stores so loaded maps never alias stored ones.
type memoryEntry struct {
	expiresAt time.Time
	key       string
	raw       []byte
}

// MemoryStore keeps sessions in a process-wide map with TTL expiry and
// optional LRU eviction. It is a local-development default: rows are not
// shared between processes and are lost on restart.
type MemoryStore struct {
	items map[string]*list.Element
	order *list.List
	opts  *memoryOptions
	done  chan struct{}
	mu    sync.Mutex

	closed bool
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

// WithDefaultTTL sets the TTL used when Save is called with a non-positive ttl.
// Default: 24 hours.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval sets how often expired rows are purged.
// Zero disables the janitor. Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries caps the number of rows; the least recently used row is evicted first.
// Zero means unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// NewMemoryStore creates an in-memory store. Call Close to stop the janitor.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	o := &memoryOptions{
		defaultTTL:      24 * time.Hour,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}

	m := &MemoryStore{
		items: make(map[string]*list.Element),
		order: list.New(),
		opts:  o,
		done:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Load decodes a fresh copy of the row stored under key.
func (m *MemoryStore) Load(_ context.Context, key string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	elem, ok := m.items[key]
	if !ok {
		return nil, nil
	}

	e := elem.Value.(*memoryEntry)
	if time.Now().After(e.expiresAt) {
		m.remove(elem)
		return nil, nil
	}

	m.order.MoveToFront(elem)

	var data map[string]any
	if err := json.Unmarshal(e.raw, &data); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return data, nil
}

// Save stores an encoded copy of data under key.
func (m *MemoryStore) Save(_ context.Context, key string, data map[string]any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if ttl <= 0 {
		ttl = m.opts.defaultTTL
	}
	expiresAt := time.Now().Add(ttl)

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*memoryEntry)
		e.raw = raw
		e.expiresAt = expiresAt
		m.order.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if oldest := m.order.Back(); oldest != nil {
			m.remove(oldest)
		}
	}

	m.items[key] = m.order.PushFront(&memoryEntry{
		key:       key,
		raw:       raw,
		expiresAt: expiresAt,
	})
	return nil
}

// Delete removes a row.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

// Len returns the number of stored rows, expired ones included until purged.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the janitor. Close is idempotent.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *MemoryStore) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.purgeExpired()
		}
	}
}

func (m *MemoryStore) purgeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*memoryEntry).expiresAt) {
			m.remove(elem)
		}
		elem = prev
	}
}

// remove drops an element. Caller must hold the mutex.
func (m *MemoryStore) remove(elem *list.Element) {
	m.order.Remove(elem)
	delete(m.items, elem.Value.(*memoryEntry).key)
}

var (
	_ Store   = (*MemoryStore)(nil)
	_ Deleter = (*MemoryStore)(nil)
)
