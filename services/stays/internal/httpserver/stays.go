package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/roamstay/marketplace/pkg/logging"
	"github.com/roamstay/marketplace/pkg/middleware/gatewayauth"
	"github.com/roamstay/marketplace/pkg/respond"
	"github.com/roamstay/marketplace/services/stays/internal/service"
	"github.com/roamstay/marketplace/services/stays/internal/transport"
	"github.com/roamstay/marketplace/services/stays/internal/util"
)

type StaysHTTP struct {
	Svc *service.StaysService
}

func (h *StaysHTTP) GetStay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stays.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Error(c, http.StatusBadRequest, "invalid stay id")
	}

	stay, err := h.Svc.GetStay(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Error(c, http.StatusNotFound, "stay not found")
		}
		l.Error("get_failed", "status", 500, "error", err)
		return respond.Error(c, http.StatusInternalServerError, err.Error())
	}

	return respond.Success(c, http.StatusOK, echo.Map{"stay": stay})
}

func (h *StaysHTTP) ListStays(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stays.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	if q := c.QueryParam("q"); q != "" {
		total, items, err := h.Svc.SearchStays(ctx, q, offset, limit)
		if err != nil {
			l.Error("search_failed", "status", 500, "error", err)
			return respond.Error(c, http.StatusInternalServerError, err.Error())
		}
		return respond.Success(c, http.StatusOK, echo.Map{"total": total, "stays": items})
	}

	total, items, err := h.Svc.ListStays(ctx, offset, limit)
	if err != nil {
		l.Error("list_failed", "status", 500, "error", err)
		return respond.Error(c, http.StatusInternalServerError, err.Error())
	}

	return respond.Success(c, http.StatusOK, echo.Map{
		"total": total,
		"stays": items,
		"meta": echo.Map{
			"page":     page,
			"size":     limit,
			"has_next": int64(offset+limit) < total,
		},
	})
}

func (h *StaysHTTP) CreateStay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stays.create")

	var req transport.CreateStayRequest
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}

	stay, err := h.Svc.CreateStay(ctx, gatewayauth.UserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return respond.Error(c, http.StatusUnauthorized, "authentication required")
		case errors.Is(err, service.ErrValidation):
			return respond.Error(c, http.StatusUnprocessableEntity, "title and a positive price are required")
		default:
			l.Error("create_failed", "status", 500, "error", err)
			return respond.Error(c, http.StatusInternalServerError, err.Error())
		}
	}

	return respond.Success(c, http.StatusCreated, echo.Map{"stay": stay})
}

func (h *StaysHTTP) PatchStay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stays.patch")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Error(c, http.StatusBadRequest, "invalid stay id")
	}

	var req transport.PatchStayRequest
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}

	stay, err := h.Svc.PatchStay(ctx, gatewayauth.UserID(c), id, req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return respond.Error(c, http.StatusNotFound, "stay not found")
		case errors.Is(err, service.ErrForbidden):
			return respond.Error(c, http.StatusForbidden, "stay belongs to another host")
		case errors.Is(err, service.ErrValidation):
			return respond.Error(c, http.StatusUnprocessableEntity, "price must be positive")
		default:
			l.Error("patch_failed", "status", 500, "error", err)
			return respond.Error(c, http.StatusInternalServerError, err.Error())
		}
	}

	return respond.Success(c, http.StatusOK, echo.Map{"stay": stay})
}

func (h *StaysHTTP) DeleteStay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stays.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Error(c, http.StatusBadRequest, "invalid stay id")
	}

	if err := h.Svc.DeleteStay(ctx, gatewayauth.UserID(c), id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return respond.Error(c, http.StatusNotFound, "stay not found")
		case errors.Is(err, service.ErrForbidden):
			return respond.Error(c, http.StatusForbidden, "stay belongs to another host")
		default:
			l.Error("delete_failed", "status", 500, "error", err)
			return respond.Error(c, http.StatusInternalServerError, err.Error())
		}
	}

	return respond.Message(c, http.StatusOK, "stay deleted")
}
