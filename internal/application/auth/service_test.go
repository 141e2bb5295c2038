package auth_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/application/auth"
	"github.com/gatehouse/gatehouse/internal/application/ports"
	"github.com/gatehouse/gatehouse/internal/domain"
	domerrors "github.com/gatehouse/gatehouse/internal/domain/errors"
	"github.com/gatehouse/gatehouse/internal/infrastructure/persistence/memory"
	"github.com/gatehouse/gatehouse/internal/infrastructure/security"
)

func newTestService() (*auth.Service, *memory.Store) {
	store := memory.NewStore()
	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	return auth.NewService(store, hasher, security.NewRandTokenSource()), store
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, user.HashedPassword)
	assert.NotEqual(t, "pw1", user.HashedPassword)
	assert.Nil(t, user.SessionID)
	assert.Nil(t, user.ResetToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "pw2")
	assert.ErrorIs(t, err, domerrors.ErrAlreadyRegistered)

	// The failed attempt must not have touched the stored credential.
	valid, err := svc.VerifyLogin(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.True(t, valid)
	valid, err = svc.VerifyLogin(ctx, "a@x.com", "pw2")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	valid, err := svc.VerifyLogin(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = svc.VerifyLogin(ctx, "a@x.com", "wrong")
	require.NoError(t, err)
	assert.False(t, valid)

	// Unknown email is a quiet false, never an error.
	valid, err = svc.VerifyLogin(ctx, "nobody@x.com", "pw1")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestCreateAndResolveSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	token, err := svc.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := svc.ResolveSession(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)

	none, err := svc.ResolveSession(ctx, "garbage")
	require.NoError(t, err)
	assert.Nil(t, none)

	none, err = svc.ResolveSession(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCreateSession_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	token, err := svc.CreateSession(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestCreateSession_OverwritesPriorToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	first, err := svc.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := svc.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	stale, err := svc.ResolveSession(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, stale, "overwritten token must no longer resolve")

	live, err := svc.ResolveSession(ctx, second)
	require.NoError(t, err)
	assert.NotNil(t, live)
}

func TestDestroySession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	// Destroying a session that was never created is a no-op.
	require.NoError(t, svc.DestroySession(ctx, user.ID))

	token, err := svc.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	require.NoError(t, svc.DestroySession(ctx, user.ID))

	none, err := svc.ResolveSession(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, none)

	// Idempotent: a second destroy still succeeds.
	require.NoError(t, svc.DestroySession(ctx, user.ID))
}

func TestDestroySession_UnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	err := svc.DestroySession(ctx, domain.UserID{})
	assert.ErrorIs(t, err, domerrors.ErrUnknownUser)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RequestPasswordReset(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domerrors.ErrUnknownUser)
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "a@x.com", "old-pw")
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.CompletePasswordReset(ctx, token, "new-pw"))

	valid, err := svc.VerifyLogin(ctx, "a@x.com", "new-pw")
	require.NoError(t, err)
	assert.True(t, valid)
	valid, err = svc.VerifyLogin(ctx, "a@x.com", "old-pw")
	require.NoError(t, err)
	assert.False(t, valid)

	// The token is single-use.
	err = svc.CompletePasswordReset(ctx, token, "another-pw")
	assert.ErrorIs(t, err, domerrors.ErrInvalidResetToken)
}

func TestCompletePasswordReset_InvalidToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	assert.ErrorIs(t, svc.CompletePasswordReset(ctx, "", "pw"), domerrors.ErrInvalidResetToken)
	assert.ErrorIs(t, svc.CompletePasswordReset(ctx, "never-issued", "pw"), domerrors.ErrInvalidResetToken)
}

func TestRequestPasswordReset_OverwritesPendingToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	first, err := svc.RequestPasswordReset(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := svc.RequestPasswordReset(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Only the most recently issued token completes.
	assert.ErrorIs(t, svc.CompletePasswordReset(ctx, first, "pw2"), domerrors.ErrInvalidResetToken)
	assert.NoError(t, svc.CompletePasswordReset(ctx, second, "pw2"))
}

// TestFullLifecycle walks register through reset end to end. A completed
// password reset leaves the active session untouched, matching the existing
// behavior this service replaces.
func TestFullLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	valid, err := svc.VerifyLogin(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.True(t, valid)

	session, err := svc.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	resolved, err := svc.ResolveSession(ctx, session)
	require.NoError(t, err)
	require.NotNil(t, resolved)

	resetToken, err := svc.RequestPasswordReset(ctx, "a@x.com")
	require.NoError(t, err)
	require.NoError(t, svc.CompletePasswordReset(ctx, resetToken, "pw2"))

	valid, err = svc.VerifyLogin(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.False(t, valid)
	valid, err = svc.VerifyLogin(ctx, "a@x.com", "pw2")
	require.NoError(t, err)
	assert.True(t, valid)

	stillThere, err := svc.ResolveSession(ctx, session)
	require.NoError(t, err)
	assert.NotNil(t, stillThere, "reset does not implicitly log out")
}

// failingStore simulates an unreachable backend for every operation.
type failingStore struct{}

func (failingStore) FindUser(context.Context, ports.Criterion) (*domain.User, error) {
	return nil, fmt.Errorf("%w: connection refused", domerrors.ErrStoreUnavailable)
}

func (failingStore) AddUser(context.Context, string, string) (*domain.User, error) {
	return nil, fmt.Errorf("%w: connection refused", domerrors.ErrStoreUnavailable)
}

func (failingStore) UpdateUser(context.Context, domain.UserID, ports.Updates) error {
	return fmt.Errorf("%w: connection refused", domerrors.ErrStoreUnavailable)
}

// racingStore lets the pre-check pass and then reports the uniqueness guard
// firing, as a concurrent registration would.
type racingStore struct {
	failingStore
}

func (racingStore) FindUser(context.Context, ports.Criterion) (*domain.User, error) {
	return nil, nil
}

func (racingStore) AddUser(context.Context, string, string) (*domain.User, error) {
	return nil, domerrors.ErrDuplicateEmail
}

func TestStoreUnavailablePropagates(t *testing.T) {
	ctx := context.Background()
	svc := auth.NewService(failingStore{}, security.NewArgon2Hasher(security.DefaultArgon2Params()), security.NewRandTokenSource())

	_, err := svc.Register(ctx, "a@x.com", "pw1")
	assert.ErrorIs(t, err, domerrors.ErrStoreUnavailable)

	_, err = svc.VerifyLogin(ctx, "a@x.com", "pw1")
	assert.ErrorIs(t, err, domerrors.ErrStoreUnavailable)

	_, err = svc.CreateSession(ctx, "a@x.com")
	assert.ErrorIs(t, err, domerrors.ErrStoreUnavailable)

	_, err = svc.ResolveSession(ctx, "token")
	assert.ErrorIs(t, err, domerrors.ErrStoreUnavailable)

	assert.ErrorIs(t, svc.DestroySession(ctx, domain.UserID{}), domerrors.ErrStoreUnavailable)

	_, err = svc.RequestPasswordReset(ctx, "a@x.com")
	assert.ErrorIs(t, err, domerrors.ErrStoreUnavailable)
}

func TestRegister_ConcurrentDuplicateHitsFinalGuard(t *testing.T) {
	ctx := context.Background()
	svc := auth.NewService(racingStore{}, security.NewArgon2Hasher(security.DefaultArgon2Params()), security.NewRandTokenSource())

	_, err := svc.Register(ctx, "a@x.com", "pw1")
	assert.ErrorIs(t, err, domerrors.ErrAlreadyRegistered)
}
