package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/marketplace/pkg/middleware/gatewayauth"
	"github.com/roamstay/marketplace/pkg/tokens"
)

type Deps struct {
	AuthHandler *AuthHTTP
	Codec       *tokens.Codec
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/register/host", d.AuthHandler.RegisterHost)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/refresh", d.AuthHandler.Refresh)
	e.GET("/verify-email/:token", d.AuthHandler.VerifyEmail)
	e.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	e.POST("/reset-password", d.AuthHandler.ResetPassword)

	// Logout stays outside the auth gate: the handler burns whatever
	// tokens it is handed best-effort, so a second logout with an
	// already-denylisted access token must still answer 200 instead of
	// dying on the middleware's revocation check.
	e.POST("/logout", d.AuthHandler.LogOut)

	authMw := gatewayauth.New(d.Codec)

	private := e.Group("")
	private.Use(authMw.RequireAuth)

	private.POST("/send-code", d.AuthHandler.SendCode)
	private.POST("/verify-phone", d.AuthHandler.VerifyPhone)
}
