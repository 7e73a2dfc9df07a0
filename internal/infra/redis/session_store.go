package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"awsprep-assessment-service/internal/app"
	"awsprep-assessment-service/internal/domain"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Live sessions stay in a local map for lock-free answer recording; every
// Put also persists a JSON snapshot so another instance (or a restart) can
// restore the session from Redis on a local miss.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(ctx context.Context, session *app.Session) error {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	snapshot := session.Snapshot()
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(snapshot.AssessmentID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, assessmentID string) (*app.Session, bool, error) {
	s.mu.RLock()
	session, ok := s.sessions[assessmentID]
	s.mu.RUnlock()
	if ok {
		return session, true, nil
	}

	data, err := s.client.Get(ctx, s.key(assessmentID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}

	var snapshot domain.AssessmentSession
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, false, fmt.Errorf("unmarshal session: %w", err)
	}
	restored := app.RestoreSession(snapshot)

	s.mu.Lock()
	// Another goroutine may have restored it first; keep the existing one.
	if existing, ok := s.sessions[assessmentID]; ok {
		restored = existing
	} else {
		s.sessions[assessmentID] = restored
	}
	s.mu.Unlock()
	return restored, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, assessmentID string) error {
	s.mu.Lock()
	delete(s.sessions, assessmentID)
	s.mu.Unlock()
	return s.client.Del(ctx, s.key(assessmentID)).Err()
}

func (s *SessionStore) key(assessmentID string) string {
	return "assessment:session:" + assessmentID
}
