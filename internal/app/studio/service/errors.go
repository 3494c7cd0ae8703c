package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrInvalidSecretToken  = errors.New("invalid or expired token")
	ErrAccountDeactivated  = errors.New("account is deactivated")
	ErrAccountBanned       = errors.New("account is banned")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidRole         = errors.New("unknown role")
	ErrGenerationFailed    = errors.New("photo generation failed")
)
