package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	pkg_hash "github.com/roamstay/marketplace/pkg/hash"
	"github.com/roamstay/marketplace/pkg/logging"
)

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password")

	if _, err := s.Repo.FindUserByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("forgot_password_failed", "status", 422, "reason", "unknown email")
			return ErrUnknownEmail
		}
		l.Error("forgot_password_failed", "status", 500, "error", err)
		return err
	}

	token, err := randomHex(32)
	if err != nil {
		return err
	}

	if err := s.Repo.UpsertResetToken(ctx, email, token, time.Now().UTC()); err != nil {
		l.Error("forgot_password_failed", "status", 500, "error", err)
		return err
	}

	body := fmt.Sprintf("We received a request to reset your Roamstay password.\n\nYour reset token:\n%s\n\nIt expires in 60 minutes. If you did not request this, ignore this email.", token)
	if err := s.Mail.SendEmail(ctx, email, "Reset your Roamstay password", body); err != nil {
		l.Error("forgot_password_failed", "status", 500, "reason", "mail dispatch failed", "error", err)
		return err
	}

	l.Info("forgot_password_successful")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	entry, err := s.Repo.FindResetToken(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("reset_password_failed", "status", 400, "reason", "no pending reset")
			return ErrResetTokenInvalid
		}
		return err
	}

	if entry.Token != token {
		l.Warn("reset_password_failed", "status", 400, "reason", "token mismatch")
		return ErrResetTokenInvalid
	}

	if time.Since(entry.CreatedAt) > resetTokenTTL {
		// A stale entry is deleted on detection, so a retry with the same
		// token reports it as invalid rather than expired.
		if err := s.Repo.DeleteResetToken(ctx, email); err != nil {
			l.Error("reset_token_delete_failed", "error", err)
		}
		l.Warn("reset_password_failed", "status", 400, "reason", "token expired")
		return ErrResetTokenExpired
	}

	pwHash, err := pkg_hash.HashPassword(newPassword)
	if err != nil {
		l.Error("reset_password_failed", "status", 500, "error", err)
		return err
	}

	if err := s.Repo.UpdatePasswordHash(ctx, email, pwHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		l.Error("reset_password_failed", "status", 500, "error", err)
		return err
	}

	if err := s.Repo.DeleteResetToken(ctx, email); err != nil {
		l.Error("reset_token_delete_failed", "error", err)
	}

	l.Info("reset_password_successful")
	return nil
}
