package memory

import (
	"context"
	"sync"
	"time"

	"github.com/verdantleaf/storefront/internal/domain"
	apperrors "github.com/verdantleaf/storefront/pkg/errors"
)

// SessionStore is an in-memory checkout session store. Checkout sessions
// are deliberately ephemeral, so a process restart losing them is the
// intended behavior, not a durability gap.
//
// Sessions are copied on the way in and out, so a session read by one
// request is never mutated by another; concurrent updates to the same
// session resolve last-write-wins at Put.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.CheckoutSession
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.CheckoutSession),
	}
}

// Get retrieves a session by ID. Expired sessions are dropped and reported
// as not found.
func (s *SessionStore) Get(_ context.Context, sessionID string) (*domain.CheckoutSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFound("checkout session", sessionID)
	}
	if session.IsExpired() {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, apperrors.Gone("checkout session has expired")
	}
	return session.Clone(), nil
}

// Put stores or replaces a session.
func (s *SessionStore) Put(_ context.Context, session *domain.CheckoutSession) error {
	s.mu.Lock()
	s.sessions[session.ID] = session.Clone()
	s.mu.Unlock()
	return nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Sweep removes all expired sessions and returns how many were dropped.
// Run periodically so abandoned sessions do not accumulate.
func (s *SessionStore) Sweep() int {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions, expired included until swept.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
