// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/types"
	"github.com/truthfi/truthfi/pkg/metrics"
)

// Request validation bounds.
const (
	minPostLimit  = 10
	maxTokenChars = 10
	minTextChars  = 10
)

var tokenRe = regexp.MustCompile(`^[A-Za-z0-9]{1,10}$`)

// AnalysisOutcome mirrors the shape returned by full token analyses.
type AnalysisOutcome = types.AnalysisOutcome

// Dependencies bundles the operations HTTP handlers call on the service.
// Using an interface keeps the handler layer loosely coupled to the app.
type Dependencies interface {
	// Analyze runs the full pipeline for one token. It returns
	// queue.ErrFull on backpressure and collector.ErrNoData when the
	// token has no discussion to score.
	Analyze(ctx context.Context, token string, postLimit int, includeComments bool) (AnalysisOutcome, error)

	// ScoreText runs the text pattern scorer on one piece of text.
	ScoreText(ctx context.Context, text string) types.AnalysisResult

	// ScoreAccount runs the account credibility scorer.
	ScoreAccount(ctx context.Context, acc model.Account) types.AccountResult

	// DetectCoordination checks a set of posts for coordinated activity.
	DetectCoordination(ctx context.Context, posts []model.Post) types.CoordinationResult

	// Trending lists the most mentioned tokens.
	Trending(ctx context.Context, limit int) ([]model.TokenMention, error)

	// Sentiment summarizes recent upvote activity for a token.
	Sentiment(ctx context.Context, token string) (types.SentimentResult, error)

	// Summary aggregates the recorded analysis history.
	Summary(ctx context.Context) types.Summary

	// Stats exposes service internals for the stats endpoint.
	Stats(ctx context.Context) map[string]any

	// Ping verifies the upstream source is reachable.
	Ping(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps Dependencies

	defaultPostLimit int
	maxPostLimit     int
	maxBatchTokens   int
	maxTrendingLimit int
	corsOrigins      []string

	started time.Time
}

// NewServer creates an API server over the given dependencies.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:             deps,
		defaultPostLimit: 100,
		maxPostLimit:     200,
		maxBatchTokens:   10,
		maxTrendingLimit: 50,
		corsOrigins:      []string{"*"},
		started:          time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(r *mux.Router) {
	r.Use(CORSMiddleware(s.corsOrigins))

	// OPTIONS is included so the CORS middleware sees preflights; gorilla
	// skips route middleware entirely when no route matches.
	r.HandleFunc("/", MetricsMiddleware(s.handleRoot, "root")).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/health", MetricsMiddleware(s.handleHealth, "health")).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/analyze", MetricsMiddleware(s.handleAnalyze, "analyze")).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/analyze/batch", MetricsMiddleware(s.handleAnalyzeBatch, "analyze_batch")).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/patterns", MetricsMiddleware(s.handlePatterns, "patterns")).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/account", MetricsMiddleware(s.handleAccount, "account")).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/coordination", MetricsMiddleware(s.handleCoordination, "coordination")).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/trending", MetricsMiddleware(s.handleTrending, "trending")).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/sentiment/{token}", MetricsMiddleware(s.handleSentiment, "sentiment")).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/summary", MetricsMiddleware(s.handleSummary, "summary")).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/stats", MetricsMiddleware(s.handleStats, "stats")).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{
		Error:     http.StatusText(status),
		Message:   msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// validToken reports whether the symbol is 1-10 alphanumeric characters.
func validToken(token string) bool {
	return tokenRe.MatchString(token)
}
