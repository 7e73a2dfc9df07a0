package memory

import (
	"context"
	"sync"

	"awsprep-assessment-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(_ context.Context, session *app.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	return nil
}

func (s *SessionStore) Get(_ context.Context, assessmentID string) (*app.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[assessmentID]
	return session, ok, nil
}

func (s *SessionStore) Delete(_ context.Context, assessmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, assessmentID)
	return nil
}
