// Package common defines shared constants and sentinel errors used across
// the CICLONE server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors (missing or malformed request fields).
	ErrorValidation = errors.New("validation error")

	// ErrNoEligibleRecipient means no account currently has
	// recebendo_creditos=true with limite_atingido=false, so the credit
	// rotation is stalled until someone registers or an operator
	// re-activates an account.
	ErrNoEligibleRecipient = errors.New("no eligible credit recipient")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
