package task

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultWorkers    = 4
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
)

// Pool consumes jobs from a Queue. A failed job is retried with exponential
// backoff until its retry budget is spent.
type Pool struct {
	queue      *Queue
	logger     *zap.Logger
	workers    int
	maxRetries int
	baseDelay  time.Duration

	wg sync.WaitGroup
}

type PoolOption func(*Pool)

func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithMaxRetries(n int) PoolOption {
	return func(p *Pool) {
		if n >= 0 {
			p.maxRetries = n
		}
	}
}

func WithBaseDelay(d time.Duration) PoolOption {
	return func(p *Pool) {
		if d > 0 {
			p.baseDelay = d
		}
	}
}

func NewPool(queue *Queue, logger *zap.Logger, opts ...PoolOption) *Pool {
	if queue == nil {
		panic("queue must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{
		queue:      queue,
		logger:     logger.Named("task-pool"),
		workers:    defaultWorkers,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the workers. They exit when the queue closes or the
// context is canceled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.queue.Dequeue():
			if !ok {
				return
			}
			p.process(ctx, job)
		}
	}
}

func (p *Pool) process(ctx context.Context, job Job) {
	err := job.Run(ctx)
	if err == nil {
		return
	}

	if job.attempt >= p.maxRetries {
		p.logger.Error("job failed permanently",
			zap.String("job", job.Name),
			zap.Int("attempts", job.attempt+1),
			zap.Error(err))
		return
	}

	// Exponential backoff: base * 2^attempt.
	delay := p.baseDelay << uint(job.attempt)
	job.attempt++
	p.logger.Warn("job failed, scheduling retry",
		zap.String("job", job.Name),
		zap.Int("attempt", job.attempt),
		zap.Duration("delay", delay),
		zap.Error(err))

	p.wg.Add(1)
	go func(j Job) {
		defer p.wg.Done()
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			if !p.queue.Enqueue(ctx, j) {
				p.logger.Error("retry dropped, queue unavailable", zap.String("job", j.Name))
			}
		}
	}(job)
}

// Shutdown closes the queue and waits for in-flight jobs, bounded by ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.queue.Close()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Periodic enqueues the job on every tick until the context is canceled.
func Periodic(ctx context.Context, q *Queue, interval time.Duration, job Job) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				q.Enqueue(ctx, job)
			}
		}
	}()
}
