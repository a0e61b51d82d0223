package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// Signup and activation outcomes.
	ErrDuplicateEmail = errors.New("email already registered")
	ErrCodeMismatch   = errors.New("invalid activation code")

	// Covers both "no such user" and "wrong password" so login responses
	// don't reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token verification outcomes.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)
