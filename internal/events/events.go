package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how an executed call ended.
type Outcome string

// Call outcomes.
const (
	OutcomeSuccess       Outcome = "success"
	OutcomeUpstreamError Outcome = "upstream_error"
	OutcomeNetworkError  Outcome = "network_error"
)

// CallCompletedEvent describes one upstream call after it finished.
// It never carries credentials, query values or bodies.
type CallCompletedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	APIID    string `json:"api_id"`
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`

	// StatusCode is zero when no response was received
	StatusCode int `json:"status_code,omitempty"`

	DurationMs int64   `json:"duration_ms"`
	Outcome    Outcome `json:"outcome"`

	// Error holds the redacted failure message for non-success outcomes
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewCallCompletedEvent creates an event with a fresh ID and timestamp.
func NewCallCompletedEvent(apiID, endpoint, method string, outcome Outcome) *CallCompletedEvent {
	return &CallCompletedEvent{
		ID:        uuid.New(),
		APIID:     apiID,
		Endpoint:  endpoint,
		Method:    method,
		Outcome:   outcome,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *CallCompletedEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *CallCompletedEvent) error
}
