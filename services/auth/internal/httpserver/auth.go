package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/marketplace/pkg/logging"
	"github.com/roamstay/marketplace/pkg/middleware/gatewayauth"
	"github.com/roamstay/marketplace/pkg/respond"
	"github.com/roamstay/marketplace/pkg/validate"
	"github.com/roamstay/marketplace/services/auth/internal/repo"
	"github.com/roamstay/marketplace/services/auth/internal/service"
	"github.com/roamstay/marketplace/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func validateRegister(req *transport.RegisterRequest) *validate.Validator {
	v := validate.New()
	v.Required("email", req.Email).Email("email", req.Email).MaxLen("email", req.Email, 255)
	v.Required("password", req.Password).MinLen("password", req.Password, 6)
	v.Required("first_name", req.FirstName).MaxLen("first_name", req.FirstName, 100)
	v.Required("last_name", req.LastName).MaxLen("last_name", req.LastName, 100)
	v.Phone("phone", req.Phone)
	return v
}

func (h *AuthHTTP) Register(c echo.Context) error {
	return h.register(c, false)
}

func (h *AuthHTTP) RegisterHost(c echo.Context) error {
	return h.register(c, true)
}

func (h *AuthHTTP) register(c echo.Context, host bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}

	v := validateRegister(&req)
	if host {
		v.Required("company_name", req.CompanyName)
	}
	if v.Failed() {
		l.Warn("register_error", "status", 422, "reason", "validation failed")
		return respond.FieldErrors(c, http.StatusUnprocessableEntity, v.Errors())
	}

	in := service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		About:       req.About,
	}

	var (
		res *service.RegisterResult
		err error
	)
	if host {
		res, err = h.Svc.RegisterHost(ctx, in)
	} else {
		res, err = h.Svc.Register(ctx, in)
	}
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return respond.FieldErrors(c, http.StatusUnprocessableEntity, map[string]string{"email": "already taken"})
		}
		if errors.Is(err, repo.ErrPhoneTaken) {
			return respond.FieldErrors(c, http.StatusUnprocessableEntity, map[string]string{"phone": "already taken"})
		}
		if errors.Is(err, service.ErrValidation) {
			return respond.Error(c, http.StatusUnprocessableEntity, "validation failed")
		}
		return respond.Error(c, http.StatusInternalServerError, err.Error())
	}

	return respond.Success(c, http.StatusCreated, echo.Map{
		"user":          res.User,
		"access_token":  res.Pair.AccessToken,
		"refresh_token": res.Pair.RefreshToken,
		"expires_in":    res.Pair.ExpiresIn,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrValidation) {
			return respond.Error(c, http.StatusUnauthorized, "invalid email or password")
		}
		return respond.Error(c, http.StatusInternalServerError, err.Error())
	}

	return respond.Success(c, http.StatusOK, echo.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return respond.Error(c, http.StatusNotFound, "user not found")
		}
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return respond.Error(c, http.StatusUnauthorized, "invalid refresh token")
		}
		return respond.Error(c, http.StatusInternalServerError, err.Error())
	}

	return respond.Success(c, http.StatusOK, echo.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.LogoutRequest
	_ = c.Bind(&req)

	h.Svc.LogOut(ctx, bearerToken(c), req.RefreshToken)

	return respond.Message(c, http.StatusOK, "logged out")
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

func authedUserID(c echo.Context) string {
	return gatewayauth.UserID(c)
}
