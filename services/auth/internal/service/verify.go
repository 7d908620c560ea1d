package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roamstay/marketplace/pkg/kvstore"
	"github.com/roamstay/marketplace/pkg/logging"
	"github.com/roamstay/marketplace/services/auth/internal/models"
)

const (
	phoneCodeKeyPrefix  = "verify_"
	emailTokenKeyPrefix = "email_verify_"
)

// ownPhone loads the authenticated user and enforces that the submitted
// phone is the user's own.
func (s *AuthService) ownPhone(ctx context.Context, userID, phone string) (*models.User, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if user.Phone == "" || user.Phone != phone {
		return nil, ErrForbidden
	}
	return user, nil
}

func (s *AuthService) SendPhoneCode(ctx context.Context, userID, phone string) error {
	l := logging.FromContext(ctx).With("svc", "auth.send_code")

	if _, err := s.ownPhone(ctx, userID, phone); err != nil {
		return err
	}

	code, err := randomCode()
	if err != nil {
		l.Error("send_code_failed", "status", 500, "error", err)
		return err
	}

	if err := s.Codes.Put(ctx, phoneCodeKeyPrefix+phone, code, phoneCodeTTL); err != nil {
		l.Error("send_code_failed", "status", 500, "reason", "cannot store code", "error", err)
		return err
	}

	message := fmt.Sprintf("Your Roamstay verification code is %s. It expires in 5 minutes.", code)
	if err := s.SMS.SendSMS(ctx, phone, message); err != nil {
		// The one dispatch failure that is surfaced: without the message
		// the user has no path to complete verification.
		l.Error("send_code_failed", "status", 500, "reason", "sms dispatch failed", "error", err)
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	l.Info("send_code_successful")
	return nil
}

func (s *AuthService) VerifyPhoneCode(ctx context.Context, userID, phone, code string) error {
	l := logging.FromContext(ctx).With("svc", "auth.verify_phone")

	user, err := s.ownPhone(ctx, userID, phone)
	if err != nil {
		return err
	}

	stored, err := s.Codes.Get(ctx, phoneCodeKeyPrefix+phone)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			l.Warn("verify_phone_failed", "status", 400, "reason", "no live code")
			return ErrCodeInvalid
		}
		return err
	}
	if stored != code {
		l.Warn("verify_phone_failed", "status", 400, "reason", "code mismatch")
		return ErrCodeInvalid
	}

	if err := s.Repo.StampPhoneVerified(ctx, user.ID, time.Now().UTC()); err != nil {
		l.Error("verify_phone_failed", "status", 500, "error", err)
		return err
	}

	// Single-use: the entry is gone the moment the code matches.
	if err := s.Codes.Forget(ctx, phoneCodeKeyPrefix+phone); err != nil {
		l.Error("verify_phone_forget_failed", "error", err)
	}

	s.publish(ctx, "phone_verified", user.ID.String(), nil)
	l.Info("verify_phone_successful")
	return nil
}

func (s *AuthService) sendEmailVerification(ctx context.Context, user *models.User) error {
	token, err := randomHex(32)
	if err != nil {
		return err
	}

	if err := s.Codes.Put(ctx, emailTokenKeyPrefix+token, user.ID.String(), emailTokenTTL); err != nil {
		return err
	}

	link := s.BaseURL + "/api/v1/auth/verify-email/" + token
	body := fmt.Sprintf("Hi %s,\n\nPlease confirm your email address by visiting:\n%s\n\nThe link expires in 24 hours.", user.FirstName, link)
	return s.Mail.SendEmail(ctx, user.Email, "Confirm your Roamstay email", body)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	l := logging.FromContext(ctx).With("svc", "auth.verify_email")

	stored, err := s.Codes.Get(ctx, emailTokenKeyPrefix+token)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			l.Warn("verify_email_failed", "status", 400, "reason", "unknown or expired token")
			return ErrCodeInvalid
		}
		return err
	}

	userID, err := uuid.Parse(stored)
	if err != nil {
		return ErrCodeInvalid
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeInvalid
		}
		return err
	}

	if err := s.Repo.StampEmailVerified(ctx, user.ID, time.Now().UTC()); err != nil {
		l.Error("verify_email_failed", "status", 500, "error", err)
		return err
	}

	if user.Role == models.RoleHostUnverified {
		if err := s.Repo.UpdateUserRole(ctx, user.ID, models.RoleHost); err != nil {
			l.Error("host_promote_failed", "user_id", user.ID.String(), "error", err)
		}
	}

	if err := s.Codes.Forget(ctx, emailTokenKeyPrefix+token); err != nil {
		l.Error("verify_email_forget_failed", "error", err)
	}

	s.publish(ctx, "email_verified", user.ID.String(), nil)
	l.Info("verify_email_successful", "user_id", user.ID.String())
	return nil
}
