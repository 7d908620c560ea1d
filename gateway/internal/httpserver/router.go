package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/marketplace/gateway/internal/middleware"
	"github.com/roamstay/marketplace/pkg/tokens"
)

type Deps struct {
	AuthURL  string
	StaysURL string

	Codec *tokens.Codec
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, m := range middleware.Common() {
		e.Use(m)
	}

	authProxy, err := newProxy(d.AuthURL, "/api/v1/auth")
	if err != nil {
		return err
	}

	staysProxy, err := newProxy(d.StaysURL, "/api/v1")
	if err != nil {
		return err
	}

	jwt := middleware.JWT(d.Codec)

	// Auth endpoints that operate on the caller's own account require a
	// validated identity. Logout is deliberately not among them: its token
	// may already be denylisted from a previous logout, and the auth
	// service treats invalidation as a best-effort no-op either way.
	authPriv := e.Group("/api/v1/auth", jwt)
	authPriv.POST("/send-code", authProxy)
	authPriv.POST("/verify-phone", authProxy)

	e.Any("/api/v1/auth/*", authProxy)

	// Listings are world-readable, mutations belong to hosts.
	e.Match([]string{http.MethodGet}, "/api/v1/stays", staysProxy)
	e.Match([]string{http.MethodGet}, "/api/v1/stays/*", staysProxy)

	api := e.Group("/api/v1", jwt)
	api.Match([]string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}, "/stays", staysProxy)
	api.Match([]string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}, "/stays/*", staysProxy)

	return nil
}
