package auth

import (
	"time"

	"github.com/phrazzld/anyapi/internal/config"
)

const testSecret = "test-jwt-secret-that-is-32-chars-long"

// defaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func defaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	}
}

// newTestJWTService builds the HMAC service with an injected clock.
func newTestJWTService(secret string, lifetime time.Duration, now func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      now,
		clockSkew:     2 * time.Minute,
	}
}
