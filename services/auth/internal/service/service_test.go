package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/roamstay/marketplace/pkg/kvstore"
	"github.com/roamstay/marketplace/pkg/tokens"
	"github.com/roamstay/marketplace/services/auth/internal/models"
	"github.com/roamstay/marketplace/services/auth/internal/repo"
)

type sentSMS struct {
	Phone   string
	Message string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentSMS
	fail bool
}

func (f *fakeSMS) SendSMS(_ context.Context, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("provider unreachable")
	}
	f.sent = append(f.sent, sentSMS{Phone: phone, Message: message})
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMail struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (f *fakeMail) SendEmail(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("provider unreachable")
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type testEnv struct {
	svc   *AuthService
	db    *gorm.DB
	store *kvstore.Memory
	sms   *fakeSMS
	mail  *fakeMail
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.HostProfile{}, &models.PasswordResetToken{}))

	store := kvstore.NewMemory()
	sms := &fakeSMS{}
	mail := &fakeMail{}

	svc := &AuthService{
		Repo:  repo.GormRepo{DB: db},
		Codec: &tokens.Codec{Secret: []byte("test-jwt-secret"), Denylist: store},
		Codes: store,
		SMS:   sms,
		Mail:  mail,

		AccessTTL: 15 * time.Minute,
		BaseURL:   "http://localhost:8080",
	}

	return &testEnv{svc: svc, db: db, store: store, sms: sms, mail: mail}
}

func (e *testEnv) registerGuest(t *testing.T, email, password, phone string) *RegisterResult {
	t.Helper()

	res, err := e.svc.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Alice",
		LastName:  "Miller",
		Phone:     phone,
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}
