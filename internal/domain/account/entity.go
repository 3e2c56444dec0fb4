// Package account contains the authentication account model. Accounts exist
// only to gate access to the roster: there is no per-account ownership of
// student records.
package account

import (
	"strings"
	"time"
)

// Account is a sign-in identity. The password is stored only as a bcrypt
// hash; the plaintext never leaves the authn service.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail returns the canonical form used for lookups and the
// uniqueness constraint.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
