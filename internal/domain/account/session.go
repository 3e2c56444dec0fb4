package account

import (
	"context"
	"time"
)

// Session is an active sign-in. A session is referenced from the access
// token by its ID; revoking the session invalidates the token before its
// expiry.
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore defines session persistence operations. Implementations
// live in infrastructure/persistence.
type SessionStore interface {
	// Save stores the session for at most ttl.
	Save(ctx context.Context, s Session, ttl time.Duration) error

	// IsActive reports whether the session exists and has not been revoked.
	IsActive(ctx context.Context, id string) (bool, error)

	// Revoke removes the session.
	Revoke(ctx context.Context, id string) error
}
