package worker

import (
	"github.com/truthfi/truthfi/pkg/logger"
)

// Option applies a configuration option to the AnalysisWorker.
type Option func(*AnalysisWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *AnalysisWorker) {
		if name != "" {
			w.name = name
			w.logger = logger.Named(name)
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *AnalysisWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
