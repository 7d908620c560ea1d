package gatewayauth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/marketplace/pkg/respond"
	"github.com/roamstay/marketplace/pkg/tokens"
)

// Header pair asserting a pre-validated identity. The gateway sets both
// after it has done full JWT validation; downstream services trust them
// without re-checking a signature. Must only be honored on the private
// gateway-to-service network path, never on a public listener.
const (
	HeaderGatewayService = "X-Gateway-Service"
	HeaderUserID         = "X-User-ID"
)

const ctxUserID = "user_id"

type Middleware struct {
	Codec *tokens.Codec
}

func New(codec *tokens.Codec) *Middleware {
	return &Middleware{Codec: codec}
}

// RequireAuth accepts exactly one of two authentication modes: a trusted
// gateway assertion, or a bearer access token the service validates itself.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		if req.Header.Get(HeaderGatewayService) != "" {
			if uid := req.Header.Get(HeaderUserID); uid != "" {
				c.Set(ctxUserID, uid)
				return next(c)
			}
		}

		raw := bearerToken(req)
		if raw == "" {
			return respond.Error(c, http.StatusUnauthorized, "user id or access token required")
		}

		claims, err := m.Codec.Parse(req.Context(), raw)
		if err != nil {
			if errors.Is(err, tokens.ErrTokenExpired) {
				return respond.Error(c, http.StatusUnauthorized, "access token expired")
			}
			return respond.Error(c, http.StatusUnauthorized, "access token invalid")
		}
		if claims.TokenType == tokens.TypeRefresh {
			return respond.Error(c, http.StatusUnauthorized, "access token invalid")
		}
		if claims.Subject == "" {
			return respond.Error(c, http.StatusUnauthorized, "access token invalid")
		}

		c.Set(ctxUserID, claims.Subject)
		return next(c)
	}
}

// UserID returns the authenticated subject attached by RequireAuth, or ""
// for unauthenticated requests.
func UserID(c echo.Context) string {
	uid, _ := c.Get(ctxUserID).(string)
	return uid
}

func bearerToken(req *http.Request) string {
	auth := req.Header.Get(echo.HeaderAuthorization)
	if auth == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
}
