package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamstay/marketplace/services/auth/internal/models"
)

func pendingResetToken(t *testing.T, env *testEnv, email string) *models.PasswordResetToken {
	t.Helper()

	entry, err := env.svc.Repo.FindResetToken(context.Background(), email)
	require.NoError(t, err)
	return entry
}

func TestAuthService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	err := env.svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUnknownEmail)
	assert.Empty(t, env.mail.sent)
}

func TestAuthService_RequestPasswordReset_StoresTokenAndMailsIt(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	env.registerGuest(t, "alice@example.com", "secret1", "")
	env.mail.sent = nil

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))

	entry := pendingResetToken(t, env, "alice@example.com")
	assert.Len(t, entry.Token, 64)

	require.Len(t, env.mail.sent, 1)
	assert.Equal(t, "alice@example.com", env.mail.sent[0].To)
	assert.Contains(t, env.mail.sent[0].Body, entry.Token)
}

func TestAuthService_RequestPasswordReset_SecondRequestOverwritesFirst(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	env.registerGuest(t, "alice@example.com", "secret1", "")

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))
	first := pendingResetToken(t, env, "alice@example.com").Token

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))
	second := pendingResetToken(t, env, "alice@example.com").Token

	assert.NotEqual(t, first, second)

	// The overwritten token is dead.
	err := env.svc.ResetPassword(ctx, "alice@example.com", first, "newpassword")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	env.registerGuest(t, "alice@example.com", "secret1", "")
	require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))
	token := pendingResetToken(t, env, "alice@example.com").Token

	require.NoError(t, env.svc.ResetPassword(ctx, "alice@example.com", token, "brandnewpw"))

	// Entry consumed.
	err := env.svc.ResetPassword(ctx, "alice@example.com", token, "brandnewpw")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)

	// Old password out, new password in.
	_, err = env.svc.Login(ctx, "alice@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	pair, err := env.svc.Login(ctx, "alice@example.com", "brandnewpw")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestAuthService_ResetPassword_WrongToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	env.registerGuest(t, "alice@example.com", "secret1", "")
	require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))

	err := env.svc.ResetPassword(ctx, "alice@example.com", "0000000000", "newpassword")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestAuthService_ResetPassword_ExpiredTokenDeletedOnDetection(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	env.registerGuest(t, "alice@example.com", "secret1", "")
	require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))
	token := pendingResetToken(t, env, "alice@example.com").Token

	// Age the entry past the 60-minute window.
	require.NoError(t, env.db.Model(&models.PasswordResetToken{}).
		Where("email = ?", "alice@example.com").
		Update("created_at", time.Now().UTC().Add(-2*time.Hour)).Error)

	err := env.svc.ResetPassword(ctx, "alice@example.com", token, "newpassword")
	assert.ErrorIs(t, err, ErrResetTokenExpired)

	// The stale entry was removed: a retry reports invalid, not expired.
	err = env.svc.ResetPassword(ctx, "alice@example.com", token, "newpassword")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
