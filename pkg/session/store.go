package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	session   *Session
	expiresAt time.Time
}

// Store keeps sessions in memory. Nothing survives a restart.
type Store struct {
	sessions map[string]*entry
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store whose sessions expire ttl after their last use.
// A ttl of zero keeps sessions until the process exits.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) expiry() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.ttl)
}

func (s *Store) expired(e *entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

// Create starts a new empty session
func (s *Store) Create() *Session {
	sess := New(uuid.NewString())

	s.mu.Lock()
	s.sessions[sess.ID] = &entry{session: sess, expiresAt: s.expiry()}
	s.mu.Unlock()

	return sess
}

// Get returns a live session and extends its lifetime
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if s.expired(e) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	e.expiresAt = s.expiry()
	return e.session, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				log.Printf("Removed %d expired sessions", removed)
			}
		}
	}
}
