package service

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrCodeInvalid         = errors.New("invalid or expired code")
	ErrDispatchFailed      = errors.New("could not send verification code")
	ErrUnknownEmail        = errors.New("no user found with this email address")
	ErrResetTokenInvalid   = errors.New("invalid reset token")
	ErrResetTokenExpired   = errors.New("reset token expired")
)
