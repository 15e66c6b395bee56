package database

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nfrund/passauth/internal/domain"
	"github.com/nfrund/passauth/internal/password"
	"github.com/nfrund/passauth/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHasher() *password.Hasher {
	return password.NewHasher(password.Params{Memory: 1024, Time: 1, Parallelism: 1})
}

func testTokens(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager(token.Config{Secret: []byte("0123456789abcdef0123456789abcdef"), TTL: time.Hour})
	require.NoError(t, err)
	return m
}

// runRepositoryContract exercises behaviour every store must share. email
// must not exist in the store yet.
func runRepositoryContract(t *testing.T, repo domain.UserRepository, email string) {
	ctx := context.Background()

	t.Run("sign up", func(t *testing.T) {
		u := &domain.User{Email: email}
		tok, err := repo.SignUp(ctx, u, "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, tok)
		assert.NotEmpty(t, u.ID)
		assert.Empty(t, u.PasswordHash)
	})

	t.Run("duplicate sign up is rejected case-insensitively", func(t *testing.T) {
		_, err := repo.SignUp(ctx, &domain.User{Email: "  " + strings.ToUpper(email)}, "secret1")
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("sign in and authenticate", func(t *testing.T) {
		u := &domain.User{Email: email}
		tok, err := repo.SignIn(ctx, u, "secret1")
		require.NoError(t, err)

		authed, err := repo.Authenticate(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, u.ID, authed.ID)
		assert.Equal(t, email, authed.Email)
	})

	t.Run("sign in failures", func(t *testing.T) {
		_, err := repo.SignIn(ctx, &domain.User{Email: email}, "wrong-password")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

		_, err = repo.SignIn(ctx, &domain.User{Email: "nobody-" + email}, "secret1")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("authenticate rejects garbage", func(t *testing.T) {
		_, err := repo.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("find by email", func(t *testing.T) {
		u, err := repo.FindUserByEmail(ctx, strings.ToUpper(email))
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, email, u.Email)

		missing, err := repo.FindUserByEmail(ctx, "nobody-"+email)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("reset password", func(t *testing.T) {
		_, err := repo.GenerateResetToken(ctx, "nobody-"+email)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		tok, err := repo.GenerateResetToken(ctx, email)
		require.NoError(t, err)
		assert.Len(t, tok, 64)

		u, err := repo.ResetPassword(ctx, tok, "new-secret")
		require.NoError(t, err)
		assert.Equal(t, email, u.Email)

		_, err = repo.ResetPassword(ctx, tok, "again-secret")
		assert.ErrorIs(t, err, domain.ErrInvalidResetToken, "a token is single use")

		_, err = repo.SignIn(ctx, &domain.User{Email: email}, "new-secret")
		assert.NoError(t, err)
	})
}
