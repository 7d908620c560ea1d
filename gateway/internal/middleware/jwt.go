package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/marketplace/pkg/middleware/gatewayauth"
	"github.com/roamstay/marketplace/pkg/tokens"
)

const (
	CtxUserID = "user_id"

	gatewayName = "gateway"
)

// JWT validates the bearer access token and stamps the verified identity
// onto the request before it is proxied downstream.
func JWT(codec *tokens.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims, err := codec.Parse(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, tokens.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "access token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
			if claims.TokenType == tokens.TypeRefresh {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			c.Set(CtxUserID, claims.Subject)
			c.Request().Header.Set(gatewayauth.HeaderUserID, claims.Subject)
			c.Request().Header.Set(gatewayauth.HeaderGatewayService, gatewayName)

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
