package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// funcTask is a Task backed by a function.
type funcTask struct {
	id uuid.UUID
	fn func(ctx context.Context) error
}

func newFuncTask(fn func(ctx context.Context) error) *funcTask {
	return &funcTask{id: uuid.New(), fn: fn}
}

func (t *funcTask) ID() uuid.UUID                     { return t.id }
func (t *funcTask) Type() string                      { return "test" }
func (t *funcTask) Execute(ctx context.Context) error { return t.fn(ctx) }

// counter counts executions and can be made to fail.
type counter struct {
	n atomic.Int32
}

func (c *counter) task(err error) *funcTask {
	return newFuncTask(func(context.Context) error {
		c.n.Add(1)
		return err
	})
}

var errTaskFailed = errors.New("task failed")

// errorRecorder collects the errors passed to a pool error handler.
type errorRecorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *errorRecorder) handle(_ Task, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *errorRecorder) all() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}
