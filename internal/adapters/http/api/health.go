package api

import (
	"fmt"
	"net/http"
	"time"
)

const sourceErrorMaxChars = 50

type healthResponse struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
}

// handleRoot reports basic liveness without touching the upstream source.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "operational",
		Services: map[string]string{
			"api":          "operational",
			"collector":    "operational",
			"truth_scorer": "operational",
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    s.uptime(),
	})
}

// handleHealth probes the upstream source and reports per-service status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"api":          "operational",
		"collector":    "operational",
		"truth_scorer": "operational",
	}
	status := "operational"

	if err := s.deps.Ping(r.Context()); err != nil {
		msg := err.Error()
		if len(msg) > sourceErrorMaxChars {
			msg = msg[:sourceErrorMaxChars]
		}
		services["collector"] = fmt.Sprintf("error: %s", msg)
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    status,
		Services:  services,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    s.uptime(),
	})
}

func (s *Server) uptime() string {
	up := time.Since(s.started)
	return fmt.Sprintf("%dh %dm", int(up.Hours()), int(up.Minutes())%60)
}
