package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPoolRunsJobs(t *testing.T) {
	q := NewQueue(8)
	pool := NewPool(q, zaptest.NewLogger(t), WithWorkers(2))

	ctx := context.Background()
	pool.Start(ctx)

	var ran atomic.Int32
	done := make(chan struct{})
	require.True(t, q.Enqueue(ctx, Job{
		Name: "count",
		Run: func(ctx context.Context) error {
			ran.Add(1)
			close(done)
			return nil
		},
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pool.Shutdown(shutdownCtx))
	assert.Equal(t, int32(1), ran.Load())
}

func TestPoolRetriesUntilSuccess(t *testing.T) {
	q := NewQueue(8)
	pool := NewPool(q, zaptest.NewLogger(t), WithWorkers(1), WithBaseDelay(5*time.Millisecond))

	ctx := context.Background()
	pool.Start(ctx)

	var attempts atomic.Int32
	done := make(chan struct{})
	require.True(t, q.Enqueue(ctx, Job{
		Name: "flaky",
		Run: func(ctx context.Context) error {
			if attempts.Add(1) < 3 {
				return errors.New("transient")
			}
			close(done)
			return nil
		},
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried to success")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pool.Shutdown(shutdownCtx))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestPoolGivesUpAfterMaxRetries(t *testing.T) {
	q := NewQueue(8)
	pool := NewPool(q, zaptest.NewLogger(t),
		WithWorkers(1), WithMaxRetries(2), WithBaseDelay(time.Millisecond))

	ctx := context.Background()
	pool.Start(ctx)

	var attempts atomic.Int32
	var once sync.Once
	exhausted := make(chan struct{})
	require.True(t, q.Enqueue(ctx, Job{
		Name: "doomed",
		Run: func(ctx context.Context) error {
			if attempts.Add(1) == 3 {
				once.Do(func() { close(exhausted) })
			}
			return errors.New("permanent")
		},
	}))

	select {
	case <-exhausted:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not reach final attempt")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pool.Shutdown(shutdownCtx))
	// Initial attempt plus two retries.
	assert.Equal(t, int32(3), attempts.Load())
}

func TestPeriodic(t *testing.T) {
	q := NewQueue(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ticks atomic.Int32
	fired := make(chan struct{})
	var once sync.Once
	Periodic(ctx, q, 5*time.Millisecond, Job{
		Name: "tick",
		Run:  func(ctx context.Context) error { return nil },
	})

	go func() {
		for range q.Dequeue() {
			if ticks.Add(1) >= 2 {
				once.Do(func() { close(fired) })
			}
		}
	}()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("periodic job never fired")
	}
	cancel()
	q.Close()
}
