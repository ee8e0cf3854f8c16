package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikemtdev/career-lift/internal/shared/auth"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	tokens, err := auth.NewJWTService("test-secret", time.Hour, false)
	require.NoError(t, err)
	hasher, err := auth.NewPasswordHasher(auth.MinBcryptCost)
	require.NoError(t, err)
	return NewService(NewMemoryRepo(), NewMemorySessionRepo(), tokens, hasher, func(email string) bool {
		return email == "admin@example.com"
	})
}

func TestSignupIssuesVerifiableToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Signup(ctx, SignupRequest{Email: " Ada@Example.com ", Password: "secret1", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, "Ada", res.User.Name)
	assert.False(t, res.User.IsAdmin)
	require.NotEmpty(t, res.Token)

	id, err := svc.Verify(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.UserID)
	assert.Equal(t, "ada@example.com", id.Email)
}

func TestSignupRejectsDuplicateAndInvalid(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, SignupRequest{Email: "ADA@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.Signup(ctx, SignupRequest{Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Signup(ctx, SignupRequest{Email: "b@example.com", Password: "12345"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSignupFlagsAdminEmails(t *testing.T) {
	svc := newTestService(t)
	res, err := svc.Signup(context.Background(), SignupRequest{Email: "admin@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Signup(ctx, SignupRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	res, err := svc.Signup(ctx, SignupRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.Token))
	_, err = svc.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyRejectsExpiredSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	res, err := svc.Signup(ctx, SignupRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	removed, err := svc.PruneSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := newTestService(t).Verify(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginExternalCreatesOnceAndCannotUsePassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.LoginExternal(ctx, "Grace@Example.com", "Grace")
	require.NoError(t, err)
	second, err := svc.LoginExternal(ctx, "grace@example.com", "Grace H")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Grace", second.User.Name)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.Login(ctx, LoginRequest{Email: "grace@example.com", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Login(ctx, LoginRequest{Email: "grace@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
