// Package queue holds the bounded in-memory job queue between the HTTP
// layer and the analysis workers. Enqueue never blocks; a full queue is
// surfaced to callers as backpressure.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/truthfi/truthfi/internal/domain/types"
	"github.com/truthfi/truthfi/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 1000
)

// Job is one token analysis request waiting for a worker.
type Job struct {
	ID              string
	Token           string
	PostLimit       int
	IncludeComments bool
	Submitted       time.Time

	// Reply receives exactly one Result. Workers send with a buffered
	// channel so an abandoned caller never wedges the pool.
	Reply chan Result
}

// Result is the outcome of one analysis job.
type Result struct {
	Report         types.TruthScoreResult
	Recommendation types.Recommendation
	Sources        map[string]int
	Err            error
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. Returns false when the queue is full or closed.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns the channel workers consume jobs from. It is
	// closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the current number of queued jobs.
	Len(ctx context.Context) int

	// Close shuts down the queue. No jobs can be enqueued afterwards.
	Close() error

	// IsClosed reports whether Close has been called.
	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	jobs      chan Job
	capacity  int
	mu        sync.RWMutex
	closeOnce sync.Once
	closed    bool
}

// NewInMemoryQueue creates a bounded queue with the given options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a job without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.jobs <- j:
		metrics.UpdateQueueSize(len(q.jobs))
		return true
	case <-ctx.Done():
		return false
	default:
		metrics.IncQueueRejections()
		return false
	}
}

// Dequeue returns the shared job channel.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Job {
	return q.jobs
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	return size
}

// Close shuts down the queue. Queued jobs already handed to the channel
// are still delivered to workers.
func (q *InMemoryQueue) Close() error {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		close(q.jobs)
	})
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
