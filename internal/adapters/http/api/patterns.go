package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/types"
)

type patternsRequest struct {
	Text string `json:"text"`
}

type patternsResponse struct {
	ScamScore      int             `json:"scam_score"`
	RiskLevel      types.RiskLevel `json:"risk_level"`
	RedFlags       []string        `json:"red_flags"`
	PatternMatches int             `json:"pattern_matches"`
	Timestamp      string          `json:"timestamp"`
}

// handlePatterns scores a single piece of text for scam patterns.
func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	var req patternsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}
	if len(strings.TrimSpace(req.Text)) < minTextChars {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("%w: text must be at least %d characters", ErrBadRequest, minTextChars))
		return
	}

	res := s.deps.ScoreText(r.Context(), req.Text)
	flags := res.RedFlags
	if flags == nil {
		flags = []string{}
	}
	writeJSON(w, http.StatusOK, patternsResponse{
		ScamScore:      res.ScamScore,
		RiskLevel:      res.RiskLevel,
		RedFlags:       flags,
		PatternMatches: res.PatternMatches,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
}

// handleAccount scores one account's credibility from its metadata.
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	var acc model.Account
	if err := json.NewDecoder(r.Body).Decode(&acc); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}
	if strings.TrimSpace(acc.Username) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: username must not be empty", ErrBadRequest))
		return
	}

	writeJSON(w, http.StatusOK, s.deps.ScoreAccount(r.Context(), acc))
}

type coordinationRequest struct {
	Posts []model.Post `json:"posts"`
}

// handleCoordination checks a caller-supplied post set for coordination.
func (s *Server) handleCoordination(w http.ResponseWriter, r *http.Request) {
	var req coordinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}
	if len(req.Posts) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: posts must not be empty", ErrBadRequest))
		return
	}

	writeJSON(w, http.StatusOK, s.deps.DetectCoordination(r.Context(), req.Posts))
}
