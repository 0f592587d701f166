package memory

import (
	"context"
	"sync"

	"quizshow-scoreboard/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	newSession app.SessionFactory

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(factory app.SessionFactory) *SessionStore {
	return &SessionStore{
		newSession: factory,
		sessions:   make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(_ context.Context, showID string) (*app.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[showID]; ok {
		return session, nil
	}
	session := s.newSession(showID)
	s.sessions[showID] = session
	return session, nil
}

func (s *SessionStore) Get(_ context.Context, showID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[showID]
	return session, ok
}

func (s *SessionStore) Delete(_ context.Context, showID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, showID)
}
