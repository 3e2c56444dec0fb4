package account

import (
	"context"
)

// Repository defines account persistence operations.
type Repository interface {
	// Create persists a new account. Returns an error satisfying
	// errors.Is(err, shared.ErrAccountAlreadyExists) when the email is taken.
	Create(ctx context.Context, a *Account) error

	// GetByEmail returns the account with the given (normalized) email.
	// Returns an error satisfying errors.Is(err, shared.ErrAccountNotFound)
	// when no such account exists.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByID returns the account with the given ID.
	GetByID(ctx context.Context, id string) (*Account, error)
}
