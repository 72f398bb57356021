package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskTypeEventDelivery tags tasks created by EventDeliveryHandler.
const TaskTypeEventDelivery = "event_delivery"

// Task is one unit of background work run by the worker pool.
type Task interface {
	ID() uuid.UUID
	Type() string
	Execute(ctx context.Context) error
}

// TaskSource hands queued tasks to workers. The channel is closed once the
// source stops accepting work.
type TaskSource interface {
	Tasks() <-chan Task
}
