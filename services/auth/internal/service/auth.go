package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	pkg_hash "github.com/roamstay/marketplace/pkg/hash"
	"github.com/roamstay/marketplace/pkg/events"
	"github.com/roamstay/marketplace/pkg/kvstore"
	"github.com/roamstay/marketplace/pkg/logging"
	"github.com/roamstay/marketplace/pkg/tokens"
	"github.com/roamstay/marketplace/services/auth/internal/models"
	"github.com/roamstay/marketplace/services/auth/internal/notify"
	"github.com/roamstay/marketplace/services/auth/internal/repo"
)

const (
	refreshTTL    = 30 * 24 * time.Hour
	phoneCodeTTL  = 5 * time.Minute
	emailTokenTTL = 24 * time.Hour
	resetTokenTTL = 60 * time.Minute

	userEventsTopic = "user_events"
)

type AuthService struct {
	Repo      repo.GormRepo
	Codec     *tokens.Codec
	Codes     kvstore.Store
	SMS       notify.SMSSender
	Mail      notify.EmailSender
	Producer  *events.Producer
	AccessTTL time.Duration
	BaseURL   string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Phone       string
	CompanyName string
	About       string
}

type RegisterResult struct {
	User *models.User
	Pair TokenPair
}

func (s *AuthService) issuePair(subject string) (TokenPair, error) {
	access, _, err := s.Codec.Issue(subject, s.AccessTTL, "")
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, _, err := s.Codec.Issue(subject, refreshTTL, tokens.TypeRefresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType, userID string, extra map[string]any) {
	l := logging.FromContext(ctx)

	event := map[string]any{
		"type":    eventType,
		"user_id": userID,
	}
	for k, v := range extra {
		event[k] = v
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, userEventsTopic, userID, event); err != nil {
		l.Error("event_publish_failed", "type", eventType, "error", err)
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.ID.String())
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, "user_logged_in", user.ID.String(), nil)
	l.Info("login_successful")
	return &pair, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	return s.register(ctx, in, models.RoleGuest, nil)
}

// RegisterHost provisions the linked host profile and leaves the account in
// the host_unverified role until the email verification link is visited.
func (s *AuthService) RegisterHost(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	profile := &models.HostProfile{
		CompanyName: in.CompanyName,
		About:       in.About,
	}
	return s.register(ctx, in, models.RoleHostUnverified, profile)
}

func (s *AuthService) register(ctx context.Context, in RegisterInput, role string, profile *models.HostProfile) (*RegisterResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if in.Email == "" || in.Password == "" {
		return nil, ErrValidation
	}

	pwHash, err := pkg_hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        in.Email,
		PasswordHash: pwHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         role,
	}

	if profile != nil {
		err = s.Repo.CreateHostUser(ctx, &user, profile)
	} else {
		err = s.Repo.CreateUser(ctx, &user)
	}
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) || errors.Is(err, repo.ErrPhoneTaken) {
			l.Warn("register_failed", "status", 422, "error", err)
			return nil, err
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	// Best-effort: a lost verification mail must never fail registration.
	if err := s.sendEmailVerification(ctx, &user); err != nil {
		l.Error("verification_email_failed", "user_id", user.ID.String(), "error", err)
	}

	pair, err := s.issuePair(user.ID.String())
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, "user_registered", user.ID.String(), map[string]any{"role": role})
	l.Info("register_successful", "user_id", user.ID.String())

	return &RegisterResult{User: &user, Pair: pair}, nil
}

// LogOut burns the presented tokens. Both invalidations are best-effort:
// an already-revoked or garbage token changes nothing and the call still
// succeeds, so repeated logouts are harmless.
func (s *AuthService) LogOut(ctx context.Context, accessToken, refreshToken string) {
	if accessToken != "" {
		s.Codec.Invalidate(ctx, accessToken)
	}
	if refreshToken != "" {
		s.Codec.Invalidate(ctx, refreshToken)
	}
	logging.FromContext(ctx).Info("logout_successful")
}
