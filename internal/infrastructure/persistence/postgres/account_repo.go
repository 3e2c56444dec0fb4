package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/roster-hub/student-roster-hub/internal/domain/account"
	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// AccountRepository implements account.Repository for PostgreSQL.
type AccountRepository struct {
	conn *Connection
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(conn *Connection) *AccountRepository {
	return &AccountRepository{conn: conn}
}

const accountColumns = `id, email, password_hash, full_name, created_at, updated_at`

// Create persists a new account; the store assigns the ID and timestamps.
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (email, password_hash, full_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.conn.QueryRow(ctx, query, a.Email, a.PasswordHash, a.FullName).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return shared.WrapError("account", "Create", shared.ErrAlreadyExists, "email already registered", shared.ErrAccountAlreadyExists)
		}
		return shared.WrapError("account", "Create", shared.ErrRemote, "failed to create account", err)
	}

	return nil
}

// GetByEmail returns the account with the given email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(r.conn.QueryRow(ctx, query, account.NormalizeEmail(email)))
}

// GetByID returns the account with the given ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.conn.QueryRow(ctx, query, id))
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*account.Account, error) {
	var a account.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrAccountNotFound
		}
		return nil, shared.WrapError("account", "Find", shared.ErrRemote, "failed to fetch account", err)
	}
	return &a, nil
}
