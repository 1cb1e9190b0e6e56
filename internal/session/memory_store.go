package session

import (
	"context"
	"sync"
	"time"

	"github.com/memberbase/member-registry/internal/observability"
)

// MemoryStore is the single-process session store. Expired entries are
// pruned opportunistically on writes, so long-idle processes don't leak.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	cleanup  time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		cleanup:  time.Now().Add(time.Minute),
	}
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if now.After(m.cleanup) {
		for token, existing := range m.sessions {
			if existing.expired(now) {
				delete(m.sessions, token)
			}
		}
		m.cleanup = now.Add(time.Minute)
	}
	m.sessions[s.Token] = *s
	observability.RecordSessionEvent(context.Background(), "memory", "save")
	return nil
}

func (m *MemoryStore) Find(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.expired(time.Now()) {
		delete(m.sessions, token)
		observability.RecordSessionEvent(context.Background(), "memory", "expired")
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	observability.RecordSessionEvent(context.Background(), "memory", "delete")
	return nil
}
