package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common domain errors used across the application.
// Typed errors below match these sentinels through errors.Is.
var (
	// ErrInvalidDescription is returned when an API description fails validation
	// while the catalog is being constructed.
	ErrInvalidDescription = errors.New("invalid API description")

	// ErrUnknownAPI is returned when an API id is not present in the catalog.
	ErrUnknownAPI = errors.New("unknown API")

	// ErrUnknownEndpoint is returned when neither an endpoint name nor an
	// endpoint path matches the requested endpoint.
	ErrUnknownEndpoint = errors.New("unknown endpoint")

	// ErrMissingCredential is returned when an API requires authentication and
	// no access token was supplied.
	ErrMissingCredential = errors.New("missing credential")

	// ErrMissingParameter is returned when a required parameter is absent.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrNetwork is returned on transport-level failures (DNS, refused
	// connection, timeout, TLS). Never returned for HTTP error statuses.
	ErrNetwork = errors.New("network error")

	// ErrUpstreamHTTP is returned when the upstream answered with status >= 400.
	ErrUpstreamHTTP = errors.New("upstream HTTP error")

	// ErrValidation is returned when raw input fails schema validation at the boundary.
	ErrValidation = errors.New("validation error")
)

// UnknownAPIError reports an API id missing from the catalog together with the
// ids that are available.
type UnknownAPIError struct {
	ID        string
	Available []string
	// Hint, when set, tells the caller how to discover valid ids.
	Hint string
}

func (e *UnknownAPIError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("API '%s' not found in registry. %s Available: %s",
			e.ID, e.Hint, strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("API '%s' not found. Available APIs: %s", e.ID, strings.Join(e.Available, ", "))
}

// Is reports whether target is ErrUnknownAPI.
func (e *UnknownAPIError) Is(target error) bool { return target == ErrUnknownAPI }

// UnknownEndpointError reports an endpoint that matched neither a name nor a path.
type UnknownEndpointError struct {
	APIName   string
	Endpoint  string
	Available []string
}

func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf("Endpoint '%s' not found in API '%s'. Available endpoints: %s",
		e.Endpoint, e.APIName, strings.Join(e.Available, ", "))
}

// Is reports whether target is ErrUnknownEndpoint.
func (e *UnknownEndpointError) Is(target error) bool { return target == ErrUnknownEndpoint }

// MissingCredentialError reports an authenticated API called without a token.
type MissingCredentialError struct {
	APIName string
	Scheme  AuthScheme
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("API '%s' requires authentication. Please provide an accessToken. Auth type: %s",
		e.APIName, e.Scheme)
}

// Is reports whether target is ErrMissingCredential.
func (e *MissingCredentialError) Is(target error) bool { return target == ErrMissingCredential }

// ParameterLocation identifies where a parameter travels in a request.
type ParameterLocation string

const (
	LocationPath  ParameterLocation = "path"
	LocationQuery ParameterLocation = "query"
	LocationBody  ParameterLocation = "body"
)

// MissingParameterError reports a required parameter absent from the intent.
type MissingParameterError struct {
	Location    ParameterLocation
	Name        string
	Description string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("Required %s parameter '%s' is missing. Description: %s",
		e.Location, e.Name, e.Description)
}

// Is reports whether target is ErrMissingParameter.
func (e *MissingParameterError) Is(target error) bool { return target == ErrMissingParameter }

// NetworkError wraps a transport failure observed by the executor.
type NetworkError struct {
	Err     error
	Elapsed time.Duration
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("API request failed: %v. Response time: %dms", e.Err, e.Elapsed.Milliseconds())
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is ErrNetwork.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// Timeout reports whether the transport failure was a timeout.
func (e *NetworkError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// UpstreamHTTPError carries a completed upstream response whose status is >= 400.
// Body is the parsed upstream body so callers can inspect the underlying cause.
type UpstreamHTTPError struct {
	StatusCode int
	Body       any
	Response   *NormalizedResponse
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("API returned error status %d. Response: %s", e.StatusCode, renderBody(e.Body))
}

// Is reports whether target is ErrUpstreamHTTP.
func (e *UpstreamHTTPError) Is(target error) bool { return target == ErrUpstreamHTTP }

// FieldError describes one boundary validation failure.
type FieldError struct {
	Field   string
	Problem string
}

// ValidationError aggregates boundary validation failures on raw input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Validation error"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Problem)
			continue
		}
		parts = append(parts, f.Field+": "+f.Problem)
	}
	return "Validation error: " + strings.Join(parts, ", ")
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, problem string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Problem: problem}}}
}
