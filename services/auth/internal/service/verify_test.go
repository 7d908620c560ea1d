package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamstay/marketplace/services/auth/internal/models"
)

const testPhone = "+15551234567"

func storedPhoneCode(t *testing.T, env *testEnv, phone string) string {
	t.Helper()

	code, err := env.store.Get(context.Background(), phoneCodeKeyPrefix+phone)
	require.NoError(t, err)
	return code
}

func TestAuthService_SendPhoneCode_StoresSixDigitCodeAndDispatches(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.registerGuest(t, "alice@example.com", "secret1", testPhone)

	require.NoError(t, env.svc.SendPhoneCode(ctx, res.User.ID.String(), testPhone))

	code := storedPhoneCode(t, env, testPhone)
	assert.Regexp(t, regexp.MustCompile(`^[1-9][0-9]{5}$`), code)

	require.Len(t, env.sms.sent, 1)
	assert.Equal(t, testPhone, env.sms.sent[0].Phone)
	assert.Contains(t, env.sms.sent[0].Message, code)
}

func TestAuthService_SendPhoneCode_ForeignPhoneForbidden(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	res := env.registerGuest(t, "alice@example.com", "secret1", testPhone)

	err := env.svc.SendPhoneCode(context.Background(), res.User.ID.String(), "+15557654321")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, env.sms.sent)
}

func TestAuthService_SendPhoneCode_Unauthenticated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	err := env.svc.SendPhoneCode(context.Background(), "", testPhone)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_SendPhoneCode_DispatchFailureSurfaced(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.sms.fail = true
	res := env.registerGuest(t, "alice@example.com", "secret1", testPhone)

	err := env.svc.SendPhoneCode(context.Background(), res.User.ID.String(), testPhone)
	assert.ErrorIs(t, err, ErrDispatchFailed)
}

func TestAuthService_VerifyPhoneCode_SingleUse(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.registerGuest(t, "alice@example.com", "secret1", testPhone)
	require.NoError(t, env.svc.SendPhoneCode(ctx, res.User.ID.String(), testPhone))
	code := storedPhoneCode(t, env, testPhone)

	require.NoError(t, env.svc.VerifyPhoneCode(ctx, res.User.ID.String(), testPhone, code))

	user, err := env.svc.Repo.FindUserByID(ctx, res.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user.PhoneVerifiedAt)

	// Same code a second time: the entry is gone.
	err = env.svc.VerifyPhoneCode(ctx, res.User.ID.String(), testPhone, code)
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestAuthService_VerifyPhoneCode_WrongCode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.registerGuest(t, "alice@example.com", "secret1", testPhone)
	require.NoError(t, env.svc.SendPhoneCode(ctx, res.User.ID.String(), testPhone))

	err := env.svc.VerifyPhoneCode(ctx, res.User.ID.String(), testPhone, "000000")
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestAuthService_VerifyPhoneCode_ForeignPhoneForbiddenEvenWithCorrectCode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerGuest(t, "alice@example.com", "secret1", testPhone)
	require.NoError(t, env.svc.SendPhoneCode(ctx, alice.User.ID.String(), testPhone))
	code := storedPhoneCode(t, env, testPhone)

	bob, err := env.svc.Register(ctx, RegisterInput{
		Email:     "bob@example.com",
		Password:  "secret2",
		FirstName: "Bob",
		LastName:  "Stone",
		Phone:     "+15550001111",
	})
	require.NoError(t, err)

	err = env.svc.VerifyPhoneCode(ctx, bob.User.ID.String(), testPhone, code)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthService_VerifyPhoneCode_ExpiredCode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.registerGuest(t, "alice@example.com", "secret1", testPhone)
	require.NoError(t, env.svc.SendPhoneCode(ctx, res.User.ID.String(), testPhone))
	code := storedPhoneCode(t, env, testPhone)

	// Simulate TTL expiry by replacing the entry with an already-expired one.
	require.NoError(t, env.store.Put(ctx, phoneCodeKeyPrefix+testPhone, code, -time.Second))

	err := env.svc.VerifyPhoneCode(ctx, res.User.ID.String(), testPhone, code)
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func emailTokenFromMail(t *testing.T, env *testEnv) string {
	t.Helper()

	require.NotEmpty(t, env.mail.sent)
	body := env.mail.sent[len(env.mail.sent)-1].Body
	idx := strings.LastIndex(body, "/verify-email/")
	require.Positive(t, idx)
	rest := body[idx+len("/verify-email/"):]
	if end := strings.IndexAny(rest, "\n \t"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func TestAuthService_VerifyEmail_StampsTimestampOnce(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.registerGuest(t, "alice@example.com", "secret1", "")
	token := emailTokenFromMail(t, env)

	require.NoError(t, env.svc.VerifyEmail(ctx, token))

	user, err := env.svc.Repo.FindUserByID(ctx, res.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user.EmailVerifiedAt)

	// The entry is single-use.
	err = env.svc.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestAuthService_VerifyEmail_PromotesUnverifiedHost(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.RegisterHost(ctx, RegisterInput{
		Email:       "host@example.com",
		Password:    "secret1",
		FirstName:   "Hanna",
		LastName:    "Berg",
		CompanyName: "Berg Stays",
	})
	require.NoError(t, err)
	token := emailTokenFromMail(t, env)

	require.NoError(t, env.svc.VerifyEmail(ctx, token))

	user, err := env.svc.Repo.FindUserByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleHost, user.Role)
}

func TestAuthService_VerifyEmail_UnknownToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	err := env.svc.VerifyEmail(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrCodeInvalid)
}
