package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-access-gate/internal/domain"
)

type entry struct {
	mu      sync.Mutex
	session domain.Session
	// removed is set under mu when the sweeper drops the entry from the map.
	removed bool
}

// SessionStore keeps one verification session per identity in memory.
// Operations on different identities run in parallel; operations on the same
// identity are serialized by that entry's lock.
type SessionStore struct {
	mu      sync.Mutex
	entries map[domain.Identity]*entry
}

func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[domain.Identity]*entry)}
}

// Reset creates a fresh AwaitingEmail session for id, discarding any prior one.
func (s *SessionStore) Reset(id domain.Identity, now time.Time) domain.Session {
	for {
		s.mu.Lock()
		e, ok := s.entries[id]
		if !ok {
			e = &entry{}
			s.entries[id] = e
		}
		s.mu.Unlock()

		e.mu.Lock()
		if e.removed {
			e.mu.Unlock()
			continue
		}
		e.session = domain.NewSession(id, now)
		out := e.session
		e.mu.Unlock()
		return out
	}
}

// Update runs fn on the session for id while holding its lock. Changes made by
// fn are kept even when fn returns an error. Returns domain.ErrNotFound when
// no session exists.
func (s *SessionStore) Update(id domain.Identity, fn func(*domain.Session) error) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return fn(&e.session)
}

// Get returns a copy of the session for id.
func (s *SessionStore) Get(id domain.Identity) (domain.Session, bool) {
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return domain.Session{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return domain.Session{}, false
	}
	return e.session, true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes unverified sessions not updated within idleTTL of now.
// Verified sessions are kept so their owners keep getting the "already
// verified" answer. Entries that are busy are skipped until the next sweep.
func (s *SessionStore) Sweep(now time.Time, idleTTL time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if !e.mu.TryLock() {
			continue
		}
		if !e.session.Verified() && now.Sub(e.session.UpdatedAt) > idleTTL {
			e.removed = true
			delete(s.entries, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SessionStore) RunSweeper(ctx context.Context, interval, idleTTL time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now, idleTTL); n > 0 {
				slog.Info("evicted idle sessions", "count", n, "remaining", s.Len())
			}
		}
	}
}
