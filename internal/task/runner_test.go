package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRunner(t *testing.T) {
	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 2, QueueSize: 10}, setupTestLogger())
	errs := &errorRecorder{}
	runner.pool.errorHandler = errs.handle
	runner.Start()

	var c counter
	for i := 0; i < 5; i++ {
		require.NoError(t, runner.Submit(c.task(nil)))
	}
	require.NoError(t, runner.Submit(c.task(errTaskFailed)))

	require.NoError(t, runner.Stop(context.Background()))

	assert.Equal(t, int32(6), c.n.Load(), "queued tasks finish before Stop returns")
	assert.Len(t, errs.all(), 1)
	assert.ErrorIs(t, runner.Submit(c.task(nil)), ErrQueueClosed)
}
