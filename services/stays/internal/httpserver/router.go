package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/marketplace/pkg/middleware/gatewayauth"
	"github.com/roamstay/marketplace/pkg/tokens"
)

type Deps struct {
	StaysHandler *StaysHTTP
	Codec        *tokens.Codec
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.GET("/stays", d.StaysHandler.ListStays)
	e.GET("/stays/:id", d.StaysHandler.GetStay)

	authMw := gatewayauth.New(d.Codec)

	private := e.Group("/stays")
	private.Use(authMw.RequireAuth)

	private.POST("", d.StaysHandler.CreateStay)
	private.PATCH("/:id", d.StaysHandler.PatchStay)
	private.DELETE("/:id", d.StaysHandler.DeleteStay)
}
