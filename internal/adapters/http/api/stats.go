package api

import (
	"net/http"
)

// handleSummary returns aggregate statistics over the analysis history.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Summary(r.Context()))
}

// handleStats exposes service internals for debugging and dashboards.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.deps.Stats(r.Context())
	stats["uptime"] = s.uptime()
	writeJSON(w, http.StatusOK, stats)
}
