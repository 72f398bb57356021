package auth

import (
	"context"
	"time"
)

// JWTService issues and validates the bearer tokens API clients present to
// the proxy. These tokens authenticate callers of the proxy itself; they are
// never forwarded upstream.
type JWTService interface {
	// GenerateToken creates a signed access token for clientID.
	GenerateToken(ctx context.Context, clientID string) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated contents of an access token.
type Claims struct {
	// ClientID identifies the API client the token was issued for.
	ClientID string `json:"cid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
