package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource implements TaskSource for testing
type stubSource struct {
	ch chan Task
}

func newStubSource() *stubSource {
	return &stubSource{
		ch: make(chan Task, 10),
	}
}

func (m *stubSource) Tasks() <-chan Task {
	return m.ch
}

func TestNewWorkerPool(t *testing.T) {
	logger := setupTestLogger()
	source := newStubSource()

	pool := NewWorkerPool(source, WorkerPoolConfig{WorkerCount: 5}, logger)

	assert.NotNil(t, pool)
	assert.Equal(t, 5, pool.workerCount)
	assert.Equal(t, source, pool.source)
	assert.Nil(t, pool.errorHandler)

	// Invalid worker counts fall back to one worker
	for _, count := range []int{0, -5} {
		pool = NewWorkerPool(source, WorkerPoolConfig{WorkerCount: count}, logger)
		assert.Equal(t, 1, pool.workerCount)
	}
}

func TestWorkerPoolDrainsClosedQueue(t *testing.T) {
	source := newStubSource()
	pool := NewWorkerPool(source, WorkerPoolConfig{WorkerCount: 3}, setupTestLogger())
	errs := &errorRecorder{}
	pool.errorHandler = errs.handle

	var ok, failing counter
	for i := 0; i < 6; i++ {
		source.ch <- ok.task(nil)
	}
	source.ch <- failing.task(errTaskFailed)
	close(source.ch)

	pool.Start()
	require.NoError(t, pool.Stop(context.Background()))

	assert.Equal(t, int32(6), ok.n.Load())
	assert.Equal(t, int32(1), failing.n.Load())
	require.Len(t, errs.all(), 1)
	assert.ErrorIs(t, errs.all()[0], errTaskFailed)
}

func TestWorkerPoolRecoversPanics(t *testing.T) {
	source := newStubSource()
	pool := NewWorkerPool(source, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	errs := &errorRecorder{}
	pool.errorHandler = errs.handle

	var after counter
	source.ch <- newFuncTask(func(context.Context) error { panic("boom") })
	source.ch <- after.task(nil)
	close(source.ch)

	pool.Start()
	require.NoError(t, pool.Stop(context.Background()))

	assert.Equal(t, int32(1), after.n.Load(), "the worker survives a panicking task")
	require.Len(t, errs.all(), 1)
	assert.Contains(t, errs.all()[0].Error(), "task panicked: boom")
}

func TestWorkerPoolStopDeadlineCancelsTasks(t *testing.T) {
	source := newStubSource()
	pool := NewWorkerPool(source, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())

	started := make(chan struct{})
	canceled := make(chan struct{})
	source.ch <- newFuncTask(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	})

	pool.Start()
	<-started

	// The queue stays open, so only the deadline ends the wait.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pool.Stop(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	select {
	case <-canceled:
	default:
		t.Fatal("running task should observe cancellation")
	}
}
