// Package worker runs the analysis pipeline: it drains jobs off the
// queue, collects posts, scores them, and replies to the waiting caller.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/truthfi/truthfi/internal/adapters/collector"
	"github.com/truthfi/truthfi/internal/adapters/mq/queue"
	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/types"
	"github.com/truthfi/truthfi/pkg/logger"
	"github.com/truthfi/truthfi/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Collector fetches posts for a token.
type Collector interface {
	SearchMentions(ctx context.Context, token string, limit int, includeComments bool) ([]model.Post, error)
}

// Scorer turns collected posts into a credibility report.
type Scorer interface {
	Calculate(posts []model.Post) types.TruthScoreResult
	Recommend(score float64) types.Recommendation
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes analysis jobs until stopped.
type Worker interface {
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// AnalysisWorker implements Worker over a collector and a scorer.
type AnalysisWorker struct {
	queue     Queue
	collector Collector
	scorer    Scorer
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewAnalysisWorker creates a worker with configuration options.
func NewAnalysisWorker(q Queue, c Collector, s Scorer, opts ...Option) *AnalysisWorker {
	w := &AnalysisWorker{
		queue:     q,
		collector: c,
		scorer:    s,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop.
func (w *AnalysisWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown stops the worker, waiting for an in-flight job to finish.
func (w *AnalysisWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process runs one job end to end and replies to the caller.
func (w *AnalysisWorker) process(ctx context.Context, job queue.Job) {
	start := time.Now()
	res := w.analyze(ctx, job)
	metrics.ObserveAnalysisDuration(time.Since(start).Seconds())

	if res.Err != nil {
		w.logger.Error(ctx, "analysis failed",
			logger.String("job", job.ID),
			logger.String("token", job.Token),
			logger.Error(res.Err),
		)
	} else {
		metrics.IncAnalyses()
		metrics.ObserveTruthScore(res.Report.Score)
	}

	// The reply channel is buffered, but guard against a caller that
	// vanished before the job was picked up.
	select {
	case job.Reply <- res:
	case <-ctx.Done():
	}
}

func (w *AnalysisWorker) analyze(ctx context.Context, job queue.Job) queue.Result {
	posts, err := w.collector.SearchMentions(ctx, job.Token, job.PostLimit, job.IncludeComments)
	if err != nil {
		return queue.Result{Err: fmt.Errorf("collect %s: %w", job.Token, err)}
	}
	if len(posts) == 0 {
		return queue.Result{Err: fmt.Errorf("token %s: %w", job.Token, collector.ErrNoData)}
	}

	report := w.scorer.Calculate(posts)
	sources := map[string]int{}
	for _, p := range posts {
		if p.Subreddit != "" {
			sources[p.Subreddit]++
		}
	}

	return queue.Result{
		Report:         report,
		Recommendation: w.scorer.Recommend(report.Score),
		Sources:        sources,
	}
}

// Pool manages a set of workers draining one queue.
type Pool struct {
	workers []*AnalysisWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates workerCount workers over the queue. A non-positive
// count defaults to a CPU-based size.
func NewPool(workerCount int, q Queue, c Collector, s Scorer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*AnalysisWorker, workerCount),
		queue:   q,
		logger:  logger.Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewAnalysisWorker(q, c, s, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
