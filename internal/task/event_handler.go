package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/anyapi/internal/events"
)

// Submitter accepts tasks for background execution.
type Submitter interface {
	Submit(task Task) error
}

// EventDeliveryHandler implements events.EventHandler by handing each event
// to a wrapped handler on a background worker, so slow handlers never delay
// the caller.
type EventDeliveryHandler struct {
	next      events.EventHandler
	submitter Submitter
	logger    *slog.Logger
}

var _ events.EventHandler = (*EventDeliveryHandler)(nil)

// NewEventDeliveryHandler creates a handler that submits deliveries to next
// through submitter.
func NewEventDeliveryHandler(next events.EventHandler, submitter Submitter, logger *slog.Logger) *EventDeliveryHandler {
	return &EventDeliveryHandler{
		next:      next,
		submitter: submitter,
		logger:    logger.With("component", "event_delivery_handler"),
	}
}

// HandleEvent queues the delivery and returns at once. The delivery keeps
// ctx's values, such as the trace id, but not its cancellation. A full or
// closed queue drops the event and returns the error.
func (h *EventDeliveryHandler) HandleEvent(ctx context.Context, event *events.CallCompletedEvent) error {
	delivery := &eventDeliveryTask{
		id:      uuid.New(),
		ctx:     context.WithoutCancel(ctx),
		event:   event,
		handler: h.next,
	}
	if err := h.submitter.Submit(delivery); err != nil {
		h.logger.Warn("dropping call event",
			"event_id", event.ID,
			"api_id", event.APIID,
			"error", err)
		return fmt.Errorf("failed to queue event %s: %w", event.ID, err)
	}
	return nil
}

// eventDeliveryTask delivers one event to one handler.
type eventDeliveryTask struct {
	id      uuid.UUID
	ctx     context.Context
	event   *events.CallCompletedEvent
	handler events.EventHandler
}

func (t *eventDeliveryTask) ID() uuid.UUID { return t.id }

func (t *eventDeliveryTask) Type() string { return TaskTypeEventDelivery }

// Execute runs the handler with the submitting context's values. It gives up
// early when the pool is being forced down.
func (t *eventDeliveryTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.handler.HandleEvent(t.ctx, t.event)
}
