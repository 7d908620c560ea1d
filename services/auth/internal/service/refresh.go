package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roamstay/marketplace/pkg/logging"
	"github.com/roamstay/marketplace/pkg/tokens"
)

// Refresh exchanges a valid refresh token for a new pair. The presented
// token is burned before the user lookup: even when the subject no longer
// exists, the token cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Codec.Parse(ctx, refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "token rejected", "error", err)
		return nil, ErrInvalidRefreshToken
	}

	if claims.TokenType != tokens.TypeRefresh {
		l.Warn("refresh_failed", "status", 401, "reason", "not a refresh token")
		return nil, ErrInvalidRefreshToken
	}

	s.Codec.Invalidate(ctx, refreshToken)

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "subject not a uuid")
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 404, "reason", "user no longer exists")
			return nil, ErrUserNotFound
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	pair, err := s.issuePair(user.ID.String())
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("refresh_successful", "user_id", user.ID.String())
	return &pair, nil
}
