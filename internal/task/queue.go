// Package task runs background jobs on an in-memory bounded queue with a
// small retrying worker pool.
package task

import (
	"context"
	"sync"
)

const defaultQueueCapacity = 1024

// Job is one unit of background work. Attempt counts retries already made.
type Job struct {
	Name    string
	Run     func(ctx context.Context) error
	attempt int
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue struct {
	jobs   chan Job
	mu     sync.RWMutex
	closed bool
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	return &Queue{jobs: make(chan Job, capacity)}
}

// Enqueue adds a job. It returns false when the queue is full or closed;
// callers treat a dropped job as best-effort work that was shed.
func (q *Queue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}

	select {
	case q.jobs <- j:
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// Dequeue returns the channel workers consume from. It is closed by Close.
func (q *Queue) Dequeue() <-chan Job {
	return q.jobs
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Close stops accepting jobs and closes the dequeue channel once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.jobs)
}

// IsClosed reports whether the queue has been closed.
func (q *Queue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
