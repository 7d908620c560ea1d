package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamstay/marketplace/services/auth/internal/models"
)

func TestAuthService_Refresh_RotatesPair(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.registerGuest(t, "alice@example.com", "secret1", "")

	pair, err := env.svc.Refresh(ctx, res.Pair.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEqual(t, res.Pair.RefreshToken, pair.RefreshToken)
	assert.NotEqual(t, res.Pair.AccessToken, pair.AccessToken)

	claims, err := env.svc.Codec.Parse(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.Subject)

	// The consumed refresh token no longer validates.
	_, err = env.svc.Codec.Parse(ctx, res.Pair.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_Refresh_ReplayFails(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.registerGuest(t, "alice@example.com", "secret1", "")

	_, err := env.svc.Refresh(ctx, res.Pair.RefreshToken)
	require.NoError(t, err)

	pair, err := env.svc.Refresh(ctx, res.Pair.RefreshToken)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.registerGuest(t, "alice@example.com", "secret1", "")

	// Validly signed, not expired, wrong token_type.
	pair, err := env.svc.Refresh(ctx, res.Pair.AccessToken)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	pair, err := env.svc.Refresh(context.Background(), "not-a-valid-jwt")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_DeletedUserBurnsToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.registerGuest(t, "alice@example.com", "secret1", "")
	require.NoError(t, env.db.Delete(&models.User{}, "id = ?", res.User.ID).Error)

	_, err := env.svc.Refresh(ctx, res.Pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// The token was burned before the lookup failed, so a retry cannot
	// distinguish itself from replay.
	_, err = env.svc.Refresh(ctx, res.Pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_EndToEnd_RegisterLoginRefresh(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.registerGuest(t, "alice@example.com", "secret1", "")

	loginPair, err := env.svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	refreshed, err := env.svc.Refresh(ctx, loginPair.RefreshToken)
	require.NoError(t, err)

	claims, err := env.svc.Codec.Parse(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.Subject)

	_, err = env.svc.Codec.Parse(ctx, loginPair.RefreshToken)
	assert.Error(t, err)
}
