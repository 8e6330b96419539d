package tracking

import (
	"sync"
	"time"
)

const defaultTTL = 30 * time.Minute

type entry struct {
	ctx       Context
	expiresAt time.Time
}

// Store keeps one first-touch Context per session id, in memory. Entries
// expire after the configured TTL; expired entries are pruned lazily on
// capture.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewStore creates a session-scoped attribution store. ttl <= 0 uses the
// default of 30 minutes.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Capture records ctx for the session if no context exists yet. An already
// captured context is never overwritten, preserving first-touch
// attribution across page views. Returns the context that is now stored.
func (s *Store) Capture(sessionID string, ctx Context) Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()

	if existing, ok := s.entries[sessionID]; ok && s.now().Before(existing.expiresAt) {
		return existing.ctx
	}
	s.entries[sessionID] = entry{ctx: ctx, expiresAt: s.now().Add(s.ttl)}
	return ctx
}

// Get returns the stored context for the session, if any.
func (s *Store) Get(sessionID string) (Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[sessionID]
	if !ok || !s.now().Before(e.expiresAt) {
		return Context{}, false
	}
	return e.ctx, true
}

// prune removes expired entries. Caller must hold the write lock.
func (s *Store) prune() {
	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
