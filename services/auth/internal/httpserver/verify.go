package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/marketplace/pkg/logging"
	"github.com/roamstay/marketplace/pkg/respond"
	"github.com/roamstay/marketplace/pkg/validate"
	"github.com/roamstay/marketplace/services/auth/internal/service"
	"github.com/roamstay/marketplace/services/auth/internal/transport"
)

func (h *AuthHTTP) SendCode(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_send_code")

	var req transport.SendCodeRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("send_code_error", "status", 400, "error", err)
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}

	v := validate.New()
	v.Required("phone", req.Phone).Phone("phone", req.Phone)
	if v.Failed() {
		return respond.FieldErrors(c, http.StatusUnprocessableEntity, v.Errors())
	}

	if err := h.Svc.SendPhoneCode(ctx, authedUserID(c), req.Phone); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return respond.Error(c, http.StatusUnauthorized, "unauthenticated")
		case errors.Is(err, service.ErrForbidden):
			return respond.Error(c, http.StatusForbidden, "phone does not belong to the authenticated user")
		case errors.Is(err, service.ErrDispatchFailed):
			return respond.Error(c, http.StatusInternalServerError, "could not send verification code")
		default:
			return respond.Error(c, http.StatusInternalServerError, err.Error())
		}
	}

	return respond.Message(c, http.StatusOK, "verification code sent")
}

func (h *AuthHTTP) VerifyPhone(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_verify_phone")

	var req transport.VerifyPhoneRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("verify_phone_error", "status", 400, "error", err)
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}

	v := validate.New()
	v.Required("phone", req.Phone).Phone("phone", req.Phone)
	v.Required("code", req.Code)
	if v.Failed() {
		return respond.FieldErrors(c, http.StatusUnprocessableEntity, v.Errors())
	}

	if err := h.Svc.VerifyPhoneCode(ctx, authedUserID(c), req.Phone, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return respond.Error(c, http.StatusUnauthorized, "unauthenticated")
		case errors.Is(err, service.ErrForbidden):
			return respond.Error(c, http.StatusForbidden, "phone does not belong to the authenticated user")
		case errors.Is(err, service.ErrCodeInvalid):
			return respond.Error(c, http.StatusBadRequest, "invalid or expired code")
		default:
			return respond.Error(c, http.StatusInternalServerError, err.Error())
		}
	}

	return respond.Message(c, http.StatusOK, "phone verified")
}

func (h *AuthHTTP) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.Param("token")
	if token == "" {
		return respond.Error(c, http.StatusBadRequest, "token is required")
	}

	if err := h.Svc.VerifyEmail(ctx, token); err != nil {
		if errors.Is(err, service.ErrCodeInvalid) {
			return respond.Error(c, http.StatusBadRequest, "invalid or expired token")
		}
		return respond.Error(c, http.StatusInternalServerError, err.Error())
	}

	return respond.Message(c, http.StatusOK, "email verified")
}
