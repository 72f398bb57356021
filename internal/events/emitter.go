package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// InMemoryEventEmitter fans each call event out to its handlers
// synchronously, in registration order. Handlers may be added while events
// are being emitted; an emission sees the handlers registered when it began.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter returns an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		logger: logger.With("component", "event_emitter"),
	}
}

// RegisterHandler appends handler to the delivery list.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	count := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("event handler registered",
		"handler", fmt.Sprintf("%T", handler),
		"handler_count", count)
}

// EmitEvent delivers event to every handler. A failing handler does not stop
// delivery to the others; all failures are joined into the returned error.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *CallCompletedEvent) error {
	e.mu.RLock()
	handlers := slices.Clone(e.handlers)
	e.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("event handler failed",
				"handler", fmt.Sprintf("%T", handler),
				"event_id", event.ID,
				"api_id", event.APIID,
				"outcome", event.Outcome,
				"error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
