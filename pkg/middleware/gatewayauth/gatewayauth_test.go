package gatewayauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamstay/marketplace/pkg/kvstore"
	"github.com/roamstay/marketplace/pkg/tokens"
)

func newTestMiddleware() (*Middleware, *tokens.Codec) {
	codec := &tokens.Codec{
		Secret:   []byte("test-jwt-secret"),
		Denylist: kvstore.NewMemory(),
	}
	return New(codec), codec
}

func doRequest(t *testing.T, m *Middleware, mutate func(*http.Request)) (*httptest.ResponseRecorder, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	mutate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID string
	handler := m.RequireAuth(func(c echo.Context) error {
		gotUserID = UserID(c)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	return rec, gotUserID
}

func TestRequireAuth_TrustedGatewayHeaders(t *testing.T) {
	t.Parallel()

	m, _ := newTestMiddleware()
	rec, uid := doRequest(t, m, func(req *http.Request) {
		req.Header.Set(HeaderGatewayService, "gateway")
		req.Header.Set(HeaderUserID, "user-77")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-77", uid)
}

func TestRequireAuth_GatewayMarkerWithoutUserIDFallsThrough(t *testing.T) {
	t.Parallel()

	m, _ := newTestMiddleware()
	rec, _ := doRequest(t, m, func(req *http.Request) {
		req.Header.Set(HeaderGatewayService, "gateway")
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ValidBearerToken(t *testing.T) {
	t.Parallel()

	m, codec := newTestMiddleware()
	signed, _, err := codec.Issue("user-42", time.Hour, "")
	require.NoError(t, err)

	rec, uid := doRequest(t, m, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", uid)
}

func TestRequireAuth_ExpiredBearerToken(t *testing.T) {
	t.Parallel()

	m, codec := newTestMiddleware()
	signed, _, err := codec.Issue("user-42", -time.Minute, "")
	require.NoError(t, err)

	rec, _ := doRequest(t, m, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "access token expired", body["message"])
}

func TestRequireAuth_RefreshTokenRejectedAsAccess(t *testing.T) {
	t.Parallel()

	m, codec := newTestMiddleware()
	signed, _, err := codec.Issue("user-42", time.Hour, tokens.TypeRefresh)
	require.NoError(t, err)

	rec, _ := doRequest(t, m, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_MissingCredentials(t *testing.T) {
	t.Parallel()

	m, _ := newTestMiddleware()
	rec, _ := doRequest(t, m, func(req *http.Request) {})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user id or access token required", body["message"])
}

func TestRequireAuth_RevokedBearerToken(t *testing.T) {
	t.Parallel()

	m, codec := newTestMiddleware()
	signed, _, err := codec.Issue("user-42", time.Hour, "")
	require.NoError(t, err)

	codec.Invalidate(httptest.NewRequest(http.MethodGet, "/", nil).Context(), signed)

	rec, _ := doRequest(t, m, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
