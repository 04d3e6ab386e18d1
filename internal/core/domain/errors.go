package domain

import "errors"

var (
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountInactive      = errors.New("account is not active")
	ErrActivationKeyInvalid = errors.New("activation key is invalid or has expired")
	ErrForbidden            = errors.New("access forbidden")
)
