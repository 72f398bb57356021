package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/anyapi/internal/api/shared"
	"github.com/phrazzld/anyapi/internal/service/auth"
)

// ClientKeyHeader carries a static client key as an alternative to a bearer token.
const ClientKeyHeader = "X-Client-Key"

// ClientKeyClientID is the client ID recorded for requests authenticated by client key.
const ClientKeyClientID = "client_key"

// AuthMiddleware authenticates callers of the proxy with either a JWT bearer
// token or a static client key.
type AuthMiddleware struct {
	jwtService auth.JWTService
	clientKeys *auth.ClientKeyVerifier
}

// NewAuthMiddleware creates a new AuthMiddleware. Either dependency may be nil
// to disable that method of authentication.
func NewAuthMiddleware(jwtService auth.JWTService, clientKeys *auth.ClientKeyVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		clientKeys: clientKeys,
	}
}

// Authenticate validates the caller's credentials and adds the client ID to
// the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get(ClientKeyHeader); key != "" && m.clientKeys != nil && m.clientKeys.Enabled() {
			if err := m.clientKeys.Verify(key); err != nil {
				m.reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.SetClientID(r.Context(), ClientKeyClientID)))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || m.jwtService == nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				"Authorization header required", auth.ErrMissingToken, shared.WithElevatedLogLevel())
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			m.reject(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.SetClientID(r.Context(), claims.ClientID)))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Token expired", err, shared.WithElevatedLogLevel())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err, shared.WithElevatedLogLevel())
	case errors.Is(err, auth.ErrInvalidClientKey), errors.Is(err, auth.ErrMissingToken):
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid client key", err, shared.WithElevatedLogLevel())
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
	}
}

// GetClientID extracts the authenticated client ID from the request context.
func GetClientID(r *http.Request) (string, bool) {
	return shared.GetClientID(r.Context())
}
