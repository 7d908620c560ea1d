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

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_forgot_password")

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("forgot_password_error", "status", 400, "error", err)
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}

	v := validate.New()
	v.Required("email", req.Email).Email("email", req.Email)
	if v.Failed() {
		return respond.FieldErrors(c, http.StatusUnprocessableEntity, v.Errors())
	}

	if err := h.Svc.RequestPasswordReset(ctx, req.Email); err != nil {
		if errors.Is(err, service.ErrUnknownEmail) {
			return respond.FieldErrors(c, http.StatusUnprocessableEntity, map[string]string{
				"email": "No user found with this email address",
			})
		}
		return respond.Error(c, http.StatusInternalServerError, err.Error())
	}

	return respond.Message(c, http.StatusOK, "reset instructions sent")
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_reset_password")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("reset_password_error", "status", 400, "error", err)
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}

	v := validate.New()
	v.Required("email", req.Email).Email("email", req.Email)
	v.Required("token", req.Token)
	v.Required("password", req.Password).MinLen("password", req.Password, 6)
	if v.Failed() {
		return respond.FieldErrors(c, http.StatusUnprocessableEntity, v.Errors())
	}

	if err := h.Svc.ResetPassword(ctx, req.Email, req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrResetTokenExpired):
			return respond.Error(c, http.StatusBadRequest, "reset token expired")
		case errors.Is(err, service.ErrResetTokenInvalid):
			return respond.Error(c, http.StatusBadRequest, "invalid reset token")
		default:
			return respond.Error(c, http.StatusInternalServerError, err.Error())
		}
	}

	return respond.Message(c, http.StatusOK, "password updated")
}
