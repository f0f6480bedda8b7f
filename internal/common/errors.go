// Package common defines shared constants and sentinel errors used across
// the client layers of mailcal. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Transport-level errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("backend unavailable")

	// Payload / input errors.
	ErrValidation   = errors.New("validation error")
	ErrInvalidRange = errors.New("start must be before end")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
