package task

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/anyapi/internal/events"
	"github.com/phrazzld/anyapi/internal/platform/logger"
)

// recordingHandler records delivered events and the trace id they carried.
type recordingHandler struct {
	mu       sync.Mutex
	events   []*events.CallCompletedEvent
	traceIDs []string
	ctxErrs  []error
	err      error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *events.CallCompletedEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	h.traceIDs = append(h.traceIDs, logger.TraceID(ctx))
	h.ctxErrs = append(h.ctxErrs, ctx.Err())
	return h.err
}

// submitFunc adapts a function to Submitter.
type submitFunc func(Task) error

func (f submitFunc) Submit(t Task) error { return f(t) }

func TestEventDeliveryHandler(t *testing.T) {
	t.Run("delivers in the background with the caller's values", func(t *testing.T) {
		runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, setupTestLogger())
		runner.Start()

		next := &recordingHandler{}
		handler := NewEventDeliveryHandler(next, runner, setupTestLogger())

		ctx, cancel := context.WithCancel(logger.WithTraceID(context.Background(), "trace-123"))
		event := events.NewCallCompletedEvent("coingecko", "ping", "GET", events.OutcomeSuccess)
		require.NoError(t, handler.HandleEvent(ctx, event))
		cancel() // the request finishing must not cancel the delivery

		require.NoError(t, runner.Stop(context.Background()))

		require.Len(t, next.events, 1)
		assert.Same(t, event, next.events[0])
		assert.Equal(t, "trace-123", next.traceIDs[0])
		assert.NoError(t, next.ctxErrs[0])
	})

	t.Run("drops the event when the queue rejects it", func(t *testing.T) {
		handler := NewEventDeliveryHandler(&recordingHandler{},
			submitFunc(func(Task) error { return ErrQueueFull }), setupTestLogger())

		err := handler.HandleEvent(context.Background(),
			events.NewCallCompletedEvent("github", "get_user", "GET", events.OutcomeNetworkError))
		assert.ErrorIs(t, err, ErrQueueFull)
	})

	t.Run("handler errors reach the pool error handler", func(t *testing.T) {
		runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, setupTestLogger())
		errs := &errorRecorder{}
		runner.pool.errorHandler = errs.handle
		runner.Start()

		handlerErr := errors.New("sink unavailable")
		handler := NewEventDeliveryHandler(&recordingHandler{err: handlerErr}, runner, setupTestLogger())
		require.NoError(t, handler.HandleEvent(context.Background(),
			events.NewCallCompletedEvent("github", "get_user", "GET", events.OutcomeSuccess)))

		require.NoError(t, runner.Stop(context.Background()))
		require.Len(t, errs.all(), 1)
		assert.ErrorIs(t, errs.all()[0], handlerErr)
	})

	t.Run("works behind the in-memory emitter", func(t *testing.T) {
		runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 2, QueueSize: 16}, setupTestLogger())
		runner.Start()

		next := &recordingHandler{}
		emitter := events.NewInMemoryEventEmitter(setupTestLogger())
		emitter.RegisterHandler(NewEventDeliveryHandler(next, runner, setupTestLogger()))

		for i := 0; i < 3; i++ {
			require.NoError(t, emitter.EmitEvent(context.Background(),
				events.NewCallCompletedEvent("jsonplaceholder", "list_posts", "GET", events.OutcomeSuccess)))
		}
		require.NoError(t, runner.Stop(context.Background()))
		assert.Len(t, next.events, 3)
	})
}
