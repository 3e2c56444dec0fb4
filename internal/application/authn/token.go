package authn

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roster-hub/student-roster-hub/internal/domain/account"
	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
)

// TokenIssuer signs and parses access tokens. Tokens are HS256 JWTs whose
// jti is the session ID, so a token is only valid while its session is
// still active in the session store.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer. ttl bounds how long a token is
// accepted even if the session is never revoked.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for the session.
func (t *TokenIssuer) Issue(s account.Session) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   s.AccountID,
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", shared.WrapError("account", "IssueToken", shared.ErrUnauthorized, "failed to sign token", err)
	}
	return signed, nil
}

// Parse validates the token signature and expiry and returns its claims.
func (t *TokenIssuer) Parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, shared.WrapError("account", "ParseToken", shared.ErrUnauthorized, "invalid token", err)
	}
	return claims, nil
}
