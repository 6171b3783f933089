package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopJob(name string) Job {
	return Job{Name: name, Run: func(ctx context.Context) error { return nil }}
}

func TestQueueEnqueueDequeue(t *testing.T) {
	q := NewQueue(4)
	ctx := context.Background()

	require.True(t, q.Enqueue(ctx, noopJob("a")))
	require.True(t, q.Enqueue(ctx, noopJob("b")))
	assert.Equal(t, 2, q.Len())

	job := <-q.Dequeue()
	assert.Equal(t, "a", job.Name)
	job = <-q.Dequeue()
	assert.Equal(t, "b", job.Name)
	assert.Equal(t, 0, q.Len())
}

func TestQueueFull(t *testing.T) {
	q := NewQueue(1)
	ctx := context.Background()

	require.True(t, q.Enqueue(ctx, noopJob("fits")))
	assert.False(t, q.Enqueue(ctx, noopJob("dropped")))
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(4)
	ctx := context.Background()

	require.True(t, q.Enqueue(ctx, noopJob("before")))
	q.Close()
	q.Close() // second close is a no-op

	assert.True(t, q.IsClosed())
	assert.False(t, q.Enqueue(ctx, noopJob("after")))

	// Buffered jobs drain, then the channel closes.
	job, ok := <-q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "before", job.Name)
	_, ok = <-q.Dequeue()
	assert.False(t, ok)
}

func TestQueueCanceledContext(t *testing.T) {
	q := NewQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, q.Enqueue(ctx, noopJob("late")))
}
