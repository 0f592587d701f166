package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quizshow-scoreboard/internal/app"

	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions themselves stay in process; Redis carries a liveness marker per
// open show so other tooling can see which shows are on air.
type SessionStore struct {
	client     *redis.Client
	ttl        time.Duration
	newSession app.SessionFactory

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration, factory app.SessionFactory) *SessionStore {
	return &SessionStore{
		client:     client,
		ttl:        ttl,
		newSession: factory,
		sessions:   make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(ctx context.Context, showID string) (*app.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[showID]; ok {
		return session, nil
	}
	if err := s.client.Set(ctx, s.key(showID), time.Now().UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("mark show %q live: %w", showID, err)
	}
	session := s.newSession(showID)
	s.sessions[showID] = session
	return session, nil
}

func (s *SessionStore) Get(ctx context.Context, showID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[showID]
	s.mu.RUnlock()
	if ok && s.ttl > 0 {
		// best-effort liveness refresh
		_ = s.client.Expire(ctx, s.key(showID), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore) Delete(ctx context.Context, showID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, showID)
	_ = s.client.Del(ctx, s.key(showID)).Err()
}

// LiveShows lists the shows currently marked live in Redis.
func (s *SessionStore) LiveShows(ctx context.Context) ([]string, error) {
	var (
		shows  []string
		cursor uint64
	)
	prefix := s.key("")
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan live shows: %w", err)
		}
		for _, k := range keys {
			shows = append(shows, k[len(prefix):])
		}
		if next == 0 {
			return shows, nil
		}
		cursor = next
	}
}

func (s *SessionStore) key(showID string) string {
	return "scoreboard:show:" + showID
}
