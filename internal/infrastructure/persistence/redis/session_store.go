package redis

import (
	"context"
	"errors"
	"time"

	"github.com/roster-hub/student-roster-hub/internal/domain/account"
)

// SessionStore implements account.SessionStore using the generic Redis Cache.
// Sessions expire via Redis TTL; revocation deletes the key early.
type SessionStore struct {
	cache *Cache
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{cache: cache}
}

// SessionKey builds the Redis key for a session ID.
func SessionKey(id string) string {
	return PrefixSession + id
}

// Save stores the session with the given TTL.
func (s *SessionStore) Save(ctx context.Context, session account.Session, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = TTLSession
	}
	return s.cache.Set(ctx, SessionKey(session.ID), session, ttl)
}

// IsActive reports whether the session key still exists.
func (s *SessionStore) IsActive(ctx context.Context, id string) (bool, error) {
	ok, err := s.cache.Exists(ctx, SessionKey(id))
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		return false, err
	}
	return ok, nil
}

// Revoke removes the session.
func (s *SessionStore) Revoke(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, SessionKey(id))
}
