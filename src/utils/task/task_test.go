package task

import (
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/atomic"

	"github.com/stretchr/testify/require"
)

func TestTaskStopsSubtaskFunc(t *testing.T) {
	task := NewTask(nil, "test")

	stopped := atomic.NewBool(false)
	task.WithSubtaskFunc(func() error {
		<-task.StopChannel
		stopped.Store(true)
		return nil
	})

	require.Nil(t, task.Start())
	require.Nil(t, task.CtxRunning.Err())

	task.StopWait()
	require.True(t, stopped.Load())
	require.True(t, task.IsStopping.Load())
	require.NotNil(t, task.CtxRunning.Err())
	require.NotNil(t, task.Ctx.Err())
}

func TestTaskRunsPeriodicSubtask(t *testing.T) {
	calls := atomic.NewInt32(0)
	task := NewTask(nil, "test").
		WithPeriodicSubtaskFunc(5*time.Millisecond, func() error {
			calls.Inc()
			return nil
		})

	require.Nil(t, task.Start())
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	task.StopWait()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, after, calls.Load())
}

func TestTaskWaitsForSubtasks(t *testing.T) {
	childStopped := atomic.NewBool(false)
	child := NewTask(nil, "child").
		WithPeriodicSubtaskFunc(time.Hour, func() error { return nil }).
		WithOnAfterStop(func() { childStopped.Store(true) })

	parentStopped := atomic.NewBool(false)
	parent := NewTask(nil, "parent").
		WithSubtask(child).
		WithOnAfterStop(func() {
			// Children finish first
			parentStopped.Store(childStopped.Load())
		})

	require.Nil(t, parent.Start())
	parent.StopWait()

	require.True(t, child.IsStopping.Load())
	require.True(t, parentStopped.Load())
}

func TestTaskBeforeStartFailure(t *testing.T) {
	expected := errors.New("not ready")
	started := atomic.NewBool(false)
	task := NewTask(nil, "test").
		WithOnBeforeStart(func() error { return expected }).
		WithSubtaskFunc(func() error {
			started.Store(true)
			return nil
		})

	require.ErrorIs(t, task.Start(), expected)
	require.False(t, started.Load())
}

func TestTaskWorkerPool(t *testing.T) {
	task := NewTask(nil, "test").
		WithWorkerPool(2).
		WithPeriodicSubtaskFunc(time.Hour, func() error { return nil })
	require.Nil(t, task.Start())

	done := make(chan struct{})
	require.True(t, task.SubmitToWorker(func() { close(done) }))
	<-done

	task.StopWait()
	require.False(t, task.SubmitToWorker(func() {}))
	require.True(t, task.Workers.Stopped())
}

func TestRetry(t *testing.T) {
	calls := 0
	err := NewRetry().
		WithMaxInterval(time.Millisecond).
		WithMaxElapsedTime(time.Second).
		Run(func() error {
			calls++
			if calls < 3 {
				return errors.New("try again")
			}
			return nil
		})
	require.Nil(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryPermanent(t *testing.T) {
	expected := errors.New("rejected")
	calls := 0
	err := NewRetry().
		WithMaxInterval(time.Millisecond).
		WithOnError(func(err error) error {
			return backoff.Permanent(err)
		}).
		Run(func() error {
			calls++
			return expected
		})
	require.ErrorIs(t, err, expected)
	require.Equal(t, 1, calls)
}
