// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - External errors must be wrapped with this package's sentinel errors.
package config

import (
	"runtime"

	"github.com/truthfi/truthfi/internal/adapters/collector"
	"github.com/truthfi/truthfi/internal/domain/truthscore"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory analysis job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the collector's post dedup cache.
	DedupeSize int `koanf:"dedupe_size"`

	// DefaultPostLimit is used when an analyze request omits a limit.
	DefaultPostLimit int `koanf:"default_post_limit"`

	// MaxPostLimit caps the per-request post limit.
	MaxPostLimit int `koanf:"max_post_limit"`

	// MaxBatchTokens caps the number of tokens in one batch request.
	MaxBatchTokens int `koanf:"max_batch_tokens"`

	// Subreddits lists the communities searched for mentions.
	Subreddits []string `koanf:"subreddits"`

	// RedditBaseURL points the collector at the Reddit API.
	RedditBaseURL string `koanf:"reddit_base_url"`

	// UserAgent identifies this service to the upstream source.
	UserAgent string `koanf:"user_agent"`

	// RequestTimeoutMS bounds one upstream HTTP request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// CORSOrigins lists origins allowed to call the API; "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`

	// Weights sets the aggregator component weights. They must sum to 1.
	Weights truthscore.Weights `koanf:"weights"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8000",
		QueueSize:        1_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       10_000,
		DefaultPostLimit: 100,
		MaxPostLimit:     200,
		MaxBatchTokens:   10,
		Subreddits:       collector.DefaultSubreddits,
		RedditBaseURL:    collector.DefaultBaseURL,
		UserAgent:        collector.DefaultUserAgent,
		RequestTimeoutMS: 10_000,
		CORSOrigins:      []string{"*"},
		Weights:          truthscore.DefaultWeights(),
	}
}
