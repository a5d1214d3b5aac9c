// Package common defines shared constants and sentinel errors used across
// client and server layers of Uncovr. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration / profile errors.
	ErrorEmailTaken   = errors.New("email already taken")
	ErrorWeakPassword = errors.New("password is too weak")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid, revoked or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
