package authn

import (
	"context"
	"sync"
	"time"

	"github.com/roster-hub/student-roster-hub/internal/domain/account"
)

// MemorySessionStore keeps sessions in process memory. Used when Redis is
// disabled and in tests; sessions do not survive a restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]account.Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]account.Session),
	}
}

// Save stores the session. ttl is enforced lazily on lookup via ExpiresAt.
func (m *MemorySessionStore) Save(ctx context.Context, s account.Session, ttl time.Duration) error {
	if s.ExpiresAt.IsZero() && ttl > 0 {
		s.ExpiresAt = time.Now().UTC().Add(ttl)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return nil
}

// IsActive reports whether the session exists and has not expired.
func (m *MemorySessionStore) IsActive(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// Revoke removes the session. Revoking an unknown ID is a no-op.
func (m *MemorySessionStore) Revoke(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
