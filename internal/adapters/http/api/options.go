package api

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithPostLimits sets the default and maximum per-request post limits.
func WithPostLimits(def, max int) Option {
	return func(s *Server) {
		if def > 0 {
			s.defaultPostLimit = def
		}
		if max > 0 {
			s.maxPostLimit = max
		}
	}
}

// WithMaxBatchTokens caps the number of tokens in one batch request.
func WithMaxBatchTokens(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBatchTokens = n
		}
	}
}

// WithCORSOrigins sets the origins allowed to call the API.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}
