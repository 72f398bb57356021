package auth

import "errors"

// Token errors, mapped to 401 responses by the api package.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")
)

// ErrInvalidClientKey means an X-Client-Key matched none of the configured hashes.
var ErrInvalidClientKey = errors.New("invalid client key")

// ErrAuthNotConfigured is returned when a token is requested but no signing
// secret is set.
var ErrAuthNotConfigured = errors.New("jwt authentication is not configured")
