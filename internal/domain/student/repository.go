package student

import (
	"context"
)

// ═══════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The contract for the remote record store facade. The implementation in
// infrastructure/persistence is the only component permitted to talk to
// the store; it owns the wire-format to domain-format translation.
// ═══════════════════════════════════════════════════

// Repository defines the roster operations against the record store.
// Every operation is a single attempt: failures are wrapped as
// shared.ErrRemote with the store's diagnostic and never retried here.
type Repository interface {
	// List returns all students ordered by creation time, descending.
	List(ctx context.Context) ([]*Student, error)

	// Create submits a new record and returns the stored row including the
	// store-assigned ID and timestamps.
	Create(ctx context.Context, form FormData) (*Student, error)

	// Update submits a full-record replacement for the given ID.
	// Returns an error satisfying errors.Is(err, shared.ErrStudentNotFound)
	// when the ID does not exist.
	Update(ctx context.Context, id string, form FormData) (*Student, error)

	// Delete removes the record. Returns an error satisfying
	// errors.Is(err, shared.ErrStudentNotFound) when the ID does not exist.
	Delete(ctx context.Context, id string) error
}
