package middleware

import (
	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/roamstay/marketplace/pkg/middleware/gatewayauth"
)

func Common() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		ecM.Logger(),
		ecM.Secure(),
		stripTrustHeaders,
	}
}

// Identity headers are only ever set by the gateway itself after token
// validation. Anything the client sent is dropped before routing.
func stripTrustHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Request().Header.Del(gatewayauth.HeaderUserID)
		c.Request().Header.Del(gatewayauth.HeaderGatewayService)
		return next(c)
	}
}
