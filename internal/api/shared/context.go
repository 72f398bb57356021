package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/anyapi/internal/platform/logger"
)

// Key type for context values
type ContextKey string

const (
	// ClientIDContextKey is the context key for the authenticated API client
	ClientIDContextKey ContextKey = "clientID"

	// TraceIDLength is the length of generated trace IDs in hex characters
	TraceIDLength = 32
)

// SetTraceID adds a freshly generated trace ID to the context.
// The ID is stored where the logger package looks for it, so anything that
// logs with the request context can correlate its output with the response.
func SetTraceID(ctx context.Context) context.Context {
	return logger.WithTraceID(ctx, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	return logger.TraceID(ctx)
}

// SetClientID records the authenticated client on the context.
func SetClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ClientIDContextKey, clientID)
}

// GetClientID returns the authenticated client ID, if any.
func GetClientID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ClientIDContextKey).(string)
	return id, ok && id != ""
}

// generateTraceID returns a random UUID rendered as 32 hex characters.
func generateTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
