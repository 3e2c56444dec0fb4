// Package authn implements sign-up, sign-in, and session verification.
// Authentication gates access to the roster; it does not scope records to
// accounts.
package authn

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/roster-hub/student-roster-hub/internal/domain/account"
	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
	"github.com/roster-hub/student-roster-hub/pkg/logger"
)

const minPasswordLength = 8

// EventPublisher publishes auth domain events.
type EventPublisher interface {
	Publish(event shared.Event) error
}

// Service handles account lifecycle and session verification.
type Service struct {
	accounts account.Repository
	sessions account.SessionStore
	tokens   *TokenIssuer
	bus      EventPublisher
	log      *logger.Logger
}

// NewService creates the authn service. The bus is optional.
func NewService(accounts account.Repository, sessions account.SessionStore, tokens *TokenIssuer, bus EventPublisher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	if sessions == nil {
		sessions = NewMemorySessionStore()
	}
	return &Service{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		bus:      bus,
		log:      log.With(logger.Component("authn")),
	}
}

// AuthResult is returned by SignUp and SignIn.
type AuthResult struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignUp registers a new account and opens a session for it.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	email = account.NormalizeEmail(email)
	if fields := validateCredentials(email, password); len(fields) > 0 {
		return nil, shared.NewValidationError("account", "SignUp", fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.WrapError("account", "SignUp", shared.ErrUnauthorized, "failed to hash password", err)
	}

	acc := &account.Account{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
	}

	// The store assigns the ID and timestamps on insert.
	if err := s.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}

	s.log.Info("account created", logger.AccountID(acc.ID), logger.Email(acc.Email))
	s.publish(shared.NewAccountSignedUpEvent(acc.ID, acc.Email))

	return s.openSession(ctx, acc)
}

// SignIn verifies the credentials and opens a session. Wrong email and
// wrong password produce the same error so the endpoint does not leak
// which accounts exist.
func (s *Service) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = account.NormalizeEmail(email)

	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("account", "SignIn", shared.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, shared.NewDomainError("account", "SignIn", shared.ErrInvalidCredentials, "invalid email or password")
	}

	s.log.Info("account signed in", logger.AccountID(acc.ID))
	s.publish(shared.NewAccountSignedInEvent(acc.ID, acc.Email))

	return s.openSession(ctx, acc)
}

// SignOut revokes the session behind the token. An already-revoked token
// signs out cleanly.
func (s *Service) SignOut(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return err
	}
	return s.sessions.Revoke(ctx, claims.ID)
}

// Identity is the verified caller attached to authenticated requests.
type Identity struct {
	AccountID string
	SessionID string
}

// Verify checks the token signature, expiry, and that its session is
// still active.
func (s *Service) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	active, err := s.sessions.IsActive(ctx, claims.ID)
	if err != nil {
		return nil, shared.WrapError("account", "Verify", shared.ErrUnauthorized, "session lookup failed", err)
	}
	if !active {
		return nil, shared.NewDomainError("account", "Verify", shared.ErrUnauthorized, "session revoked or expired")
	}

	return &Identity{AccountID: claims.Subject, SessionID: claims.ID}, nil
}

func (s *Service) openSession(ctx context.Context, acc *account.Account) (*AuthResult, error) {
	now := time.Now().UTC()
	sess := account.Session{
		ID:        uuid.New().String(),
		AccountID: acc.ID,
		Email:     acc.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}

	if err := s.sessions.Save(ctx, sess, s.tokens.TTL()); err != nil {
		return nil, shared.WrapError("account", "OpenSession", shared.ErrUnauthorized, "failed to save session", err)
	}

	token, err := s.tokens.Issue(sess)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccountID: acc.ID,
		Email:     acc.Email,
		FullName:  acc.FullName,
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func (s *Service) publish(event shared.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event); err != nil {
		s.log.Warn("failed to publish event", logger.String("event", string(event.EventType())), logger.Err(err))
	}
}

func validateCredentials(email, password string) map[string]string {
	fields := make(map[string]string)
	if email == "" {
		fields["email"] = "Email is required"
	} else if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		fields["email"] = "Invalid email address"
	}
	if len(password) < minPasswordLength {
		fields["password"] = "Password must be at least 8 characters"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
