package service

import (
	"time"

	"github.com/truthfi/truthfi/internal/domain/truthscore"
	"github.com/truthfi/truthfi/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the collector dedup cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithWeights sets the aggregator component weights.
func WithWeights(w truthscore.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithSource injects a post source, replacing the default Reddit client.
func WithSource(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithRedditBaseURL points the default collector at a different endpoint.
func WithRedditBaseURL(u string) Option {
	return func(s *Service) {
		s.redditBaseURL = u
	}
}

// WithUserAgent sets the upstream User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Service) {
		s.userAgent = ua
	}
}

// WithSubreddits sets the communities searched for mentions.
func WithSubreddits(subs []string) Option {
	return func(s *Service) {
		s.subreddits = subs
	}
}

// WithRequestTimeout bounds one upstream HTTP request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.httpTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
