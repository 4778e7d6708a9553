// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/truthfi/truthfi/internal/adapters/collector"
	jobqueue "github.com/truthfi/truthfi/internal/adapters/mq/queue"
	workerpool "github.com/truthfi/truthfi/internal/adapters/mq/worker"
	"github.com/truthfi/truthfi/internal/adapters/repository"
	"github.com/truthfi/truthfi/internal/domain/account"
	"github.com/truthfi/truthfi/internal/domain/coordination"
	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/truthscore"
	"github.com/truthfi/truthfi/internal/domain/types"
	"github.com/truthfi/truthfi/pkg/logger"
	"github.com/truthfi/truthfi/pkg/metrics"
)

const scamScoreThreshold = 70

// Source is the collector surface the service depends on.
type Source interface {
	workerpool.Collector

	Trending(ctx context.Context, limit int) ([]model.TokenMention, error)
	Sentiment(ctx context.Context, token string) (types.SentimentResult, error)
}

// Service implements the API dependencies for the truth scoring system.
type Service struct {
	mu sync.RWMutex

	// Core components
	history  *repository.MemoryStore
	queue    jobqueue.Queue
	source   Source
	scorer   *truthscore.Scorer
	accounts *account.Scorer
	patterns *coordination.Detector
	pool     *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	weights     truthscore.Weights

	// Collector configuration, ignored when a Source is injected.
	redditBaseURL string
	userAgent     string
	subreddits    []string
	httpTimeout   time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New creates a Service with defaults, before Start wires components.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   1_000,
		dedupeSize:  10_000,
		weights:     truthscore.DefaultWeights(),
		httpTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting truth scoring service...")

	s.history = repository.NewMemoryStore()
	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	if s.source == nil {
		s.source = collector.NewRedditClient(
			collector.WithBaseURL(s.redditBaseURL),
			collector.WithUserAgent(s.userAgent),
			collector.WithSubreddits(s.subreddits),
			collector.WithDedupeSize(s.dedupeSize),
			collector.WithHTTPClient(newHTTPClient(s.httpTimeout)),
		)
	}
	s.scorer = truthscore.New(
		truthscore.WithWeights(s.weights),
		truthscore.WithRecorder(s.history),
	)
	s.accounts = account.New()
	s.patterns = coordination.New()

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.source, s.scorer)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "truth scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping truth scoring service...")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "truth scoring service stopped")
}

// Analyze runs the full pipeline for one token through the job queue.
// The call blocks until a worker replies or the context is done.
func (s *Service) Analyze(ctx context.Context, token string, postLimit int, includeComments bool) (types.AnalysisOutcome, error) {
	job := jobqueue.Job{
		ID:              uuid.NewString(),
		Token:           token,
		PostLimit:       postLimit,
		IncludeComments: includeComments,
		Submitted:       time.Now().UTC(),
		Reply:           make(chan jobqueue.Result, 1),
	}

	if !s.queue.Enqueue(ctx, job) {
		return types.AnalysisOutcome{}, fmt.Errorf("analyze %s: %w", token, jobqueue.ErrFull)
	}

	select {
	case res := <-job.Reply:
		if res.Err != nil {
			return types.AnalysisOutcome{}, res.Err
		}
		metrics.UpdateHistorySize(s.history.Count())
		return types.AnalysisOutcome{
			Report:         res.Report,
			Recommendation: res.Recommendation,
			Sources:        res.Sources,
		}, nil
	case <-ctx.Done():
		return types.AnalysisOutcome{}, fmt.Errorf("analyze %s: %w", token, ctx.Err())
	}
}

// ScoreText runs the text pattern scorer on one piece of text.
func (s *Service) ScoreText(_ context.Context, text string) types.AnalysisResult {
	res := s.scorer.TextScanner().ScoreText(text)
	metrics.IncTextsAnalyzed()
	if res.ScamScore >= scamScoreThreshold {
		metrics.IncScamsDetected()
	}
	return res
}

// ScoreAccount runs the account credibility scorer.
func (s *Service) ScoreAccount(_ context.Context, acc model.Account) types.AccountResult {
	return s.accounts.Score(acc)
}

// DetectCoordination checks a set of posts for coordinated activity.
func (s *Service) DetectCoordination(_ context.Context, posts []model.Post) types.CoordinationResult {
	res := s.patterns.Detect(posts)
	if res.Coordinated {
		metrics.IncCoordinationDetections(res.Pattern)
	}
	return res
}

// Trending lists the most mentioned tokens in hot posts.
func (s *Service) Trending(ctx context.Context, limit int) ([]model.TokenMention, error) {
	return s.source.Trending(ctx, limit)
}

// Sentiment summarizes recent upvote activity for a token.
func (s *Service) Sentiment(ctx context.Context, token string) (types.SentimentResult, error) {
	return s.source.Sentiment(ctx, token)
}

// Summary aggregates the recorded analysis history.
func (s *Service) Summary(_ context.Context) types.Summary {
	metrics.UpdateHistorySize(s.history.Count())
	return s.history.Summary()
}

// Stats exposes service internals for the stats endpoint.
func (s *Service) Stats(ctx context.Context) map[string]any {
	scannerStats := s.scorer.TextScanner().Statistics()
	return map[string]any{
		"queue_size":     s.queue.Len(ctx),
		"queue_capacity": s.queueSize,
		"worker_count":   s.workerCount,
		"total_analyses": s.history.Count(),
		"texts_analyzed": scannerStats.TotalAnalyzed,
		"scams_detected": scannerStats.ScamsDetected,
		"scam_rate":      scannerStats.ScamRate,
	}
}

// Ping verifies the upstream source is reachable with a minimal fetch.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.source.Trending(ctx, 1)
	return err
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return nil
	}
	return &http.Client{Timeout: timeout}
}
