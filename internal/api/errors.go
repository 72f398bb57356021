package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/anyapi/internal/api/shared"
	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/redact"
	"github.com/phrazzld/anyapi/internal/service"
	"github.com/phrazzld/anyapi/internal/service/auth"
)

// genericErrorMessage is sent for errors outside the known taxonomy.
const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type.
func MapErrorToStatusCode(err error) int {
	var netErr *domain.NetworkError

	switch {
	// Authentication of the proxy caller
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidClientKey):
		return http.StatusUnauthorized

	// Upstream credential absent from the call intent
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, domain.ErrUnknownAPI),
		errors.Is(err, domain.ErrUnknownEndpoint),
		errors.Is(err, service.ErrUnknownTool):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMissingParameter):
		return http.StatusBadRequest

	// Upstream failures
	case errors.As(err, &netErr) && netErr.Timeout():
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrNetwork),
		errors.Is(err, domain.ErrUpstreamHTTP):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the envelope error string for err. Errors from the
// proxy taxonomy are self-describing and returned as-is; transport errors
// are redacted because they may echo the outbound URL. Anything else gets a
// generic message.
func ErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"
	case errors.Is(err, auth.ErrInvalidClientKey):
		return "Invalid client key"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, domain.ErrNetwork):
		return redact.Error(err)

	case errors.Is(err, domain.ErrUnknownAPI),
		errors.Is(err, domain.ErrUnknownEndpoint),
		errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrMissingParameter),
		errors.Is(err, domain.ErrUpstreamHTTP),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrUnknownTool):
		return err.Error()

	default:
		return genericErrorMessage
	}
}

// HandleAPIError writes the envelope for err, logging the detailed error.
// A non-empty message overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = ErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
