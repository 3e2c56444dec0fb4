package authn

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roster-hub/student-roster-hub/internal/domain/account"
	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
)

// fakeAccountRepo is an in-memory account.Repository. Like the real store,
// it assigns the ID and timestamps on insert.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*account.Account // keyed by email
	seq      int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*account.Account)}
}

func (r *fakeAccountRepo) Create(ctx context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.Email]; ok {
		return shared.ErrAccountAlreadyExists
	}
	r.seq++
	a.ID = fmt.Sprintf("acct-%d", r.seq)
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	r.accounts[a.Email] = a
	return nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[account.NormalizeEmail(email)]
	if !ok {
		return nil, shared.ErrAccountNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, shared.ErrAccountNotFound
}

func newTestService() (*Service, *fakeAccountRepo) {
	repo := newFakeAccountRepo()
	tokens := NewTokenIssuer("test-secret", "roster-test", time.Hour)
	svc := NewService(repo, NewMemorySessionStore(), tokens, nil, nil)
	return svc, repo
}

func TestSignUp_CreatesAccountAndSession(t *testing.T) {
	svc, repo := newTestService()

	result, err := svc.SignUp(context.Background(), "Alice@Example.com", "correct horse", "Alice Johnson")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", result.Email)
	assert.Equal(t, "Alice Johnson", result.FullName)
	assert.NotEmpty(t, result.Token)

	// The password is stored only as a hash.
	stored, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	// The issued token verifies immediately.
	identity, err := svc.Verify(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.AccountID, identity.AccountID)
}

func TestSignUp_StoreAssignsAccountID(t *testing.T) {
	svc, repo := newTestService()

	result, err := svc.SignUp(context.Background(), "alice@example.com", "correct horse", "Alice")
	require.NoError(t, err)

	// The session and token carry the store-generated ID, not a
	// client-side one.
	assert.Equal(t, "acct-1", result.AccountID)

	stored, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())

	claims, err := svc.tokens.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.Subject)
}

func TestSignUp_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SignUp(context.Background(), "", "short", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	fields := shared.FieldErrors(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SignUp(context.Background(), "alice@example.com", "correct horse", "Alice")
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), "ALICE@example.com", "battery staple", "Other Alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
}

func TestSignIn(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SignUp(context.Background(), "alice@example.com", "correct horse", "Alice")
	require.NoError(t, err)

	result, err := svc.SignIn(context.Background(), "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestSignIn_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SignUp(context.Background(), "alice@example.com", "correct horse", "Alice")
	require.NoError(t, err)

	_, wrongPass := svc.SignIn(context.Background(), "alice@example.com", "wrong")
	require.Error(t, wrongPass)
	assert.True(t, errors.Is(wrongPass, shared.ErrInvalidCredentials))

	_, unknown := svc.SignIn(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, unknown)
	assert.True(t, errors.Is(unknown, shared.ErrInvalidCredentials))
}

func TestSignOut_RevokesSession(t *testing.T) {
	svc, _ := newTestService()

	result, err := svc.SignUp(context.Background(), "alice@example.com", "correct horse", "Alice")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(context.Background(), result.Token))

	// The token is still well-formed but its session is gone.
	_, err = svc.Verify(context.Background(), result.Token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestVerify_RejectsGarbageAndForeignTokens(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Verify(context.Background(), "not.a.token")
	assert.Error(t, err)

	// A token signed with a different secret fails verification.
	other := NewTokenIssuer("other-secret", "roster-test", time.Hour)
	foreign, err := other.Issue(account.Session{ID: "sess", AccountID: "acc"})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), foreign)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	expired := account.Session{
		ID:        "old",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, store.Save(ctx, expired, 0))

	active, err := store.IsActive(ctx, "old")
	require.NoError(t, err)
	assert.False(t, active)

	live := account.Session{ID: "live"}
	require.NoError(t, store.Save(ctx, live, time.Hour))

	active, err = store.IsActive(ctx, "live")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, store.Revoke(ctx, "live"))
	active, err = store.IsActive(ctx, "live")
	require.NoError(t, err)
	assert.False(t, active)
}
