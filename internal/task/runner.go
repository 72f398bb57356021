package task

import (
	"context"
	"log/slog"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// TaskRunner pairs a TaskQueue with the WorkerPool consuming it.
type TaskRunner struct {
	queue *TaskQueue
	pool  *WorkerPool
}

// NewTaskRunner creates a runner. Call Start before submitting work.
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	queue := NewTaskQueue(config.QueueSize, logger)
	return &TaskRunner{
		queue: queue,
		pool:  NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger),
	}
}

// Start launches the workers.
func (r *TaskRunner) Start() {
	r.pool.Start()
}

// Submit enqueues task without blocking. See TaskQueue.Enqueue for errors.
func (r *TaskRunner) Submit(task Task) error {
	return r.queue.Enqueue(task)
}

// Stop rejects further submissions and waits, at most until ctx ends, for
// the queued tasks to finish.
func (r *TaskRunner) Stop(ctx context.Context) error {
	r.queue.Close()
	return r.pool.Stop(ctx)
}
