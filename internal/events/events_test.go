package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallCompletedEvent(t *testing.T) {
	event := NewCallCompletedEvent("jsonplaceholder", "list_posts", "GET", OutcomeSuccess)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "jsonplaceholder", event.APIID)
	assert.Equal(t, "list_posts", event.Endpoint)
	assert.Equal(t, "GET", event.Method)
	assert.Equal(t, OutcomeSuccess, event.Outcome)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	other := NewCallCompletedEvent("jsonplaceholder", "list_posts", "GET", OutcomeSuccess)
	assert.NotEqual(t, event.ID, other.ID)
}

func TestCallCompletedEventJSON(t *testing.T) {
	event := NewCallCompletedEvent("github", "get_user", "GET", OutcomeNetworkError)
	event.DurationMs = 12
	event.Error = "API request failed: dial tcp: connection refused. Response time: 12ms"

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "network_error", decoded["outcome"])
	assert.Equal(t, "github", decoded["api_id"])
	assert.NotContains(t, decoded, "status_code", "zero status is omitted")
	assert.Contains(t, decoded, "error")
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	mu sync.Mutex
	// The last event received by this handler
	LastEvent *CallCompletedEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *CallCompletedEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}
