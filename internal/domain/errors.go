package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrAlreadyExists      = errors.New("user already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrExpired            = errors.New("OTP expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")

	// ErrConflict is returned by the user directory when a write would break
	// email or phone uniqueness.
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad request")
)
