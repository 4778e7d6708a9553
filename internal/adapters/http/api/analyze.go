package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/truthfi/truthfi/internal/adapters/collector"
	"github.com/truthfi/truthfi/internal/adapters/mq/queue"
	"github.com/truthfi/truthfi/internal/domain/types"
)

// analyzeRequest mirrors the public schema for POST /api/analyze.
type analyzeRequest struct {
	TokenSymbol     string `json:"token_symbol"`
	PostLimit       int    `json:"post_limit"`
	IncludeComments *bool  `json:"include_comments"`
}

// analyzeResponse is the full analysis payload returned to clients.
type analyzeResponse struct {
	Score          float64              `json:"score"`
	RiskLevel      types.RiskLevel      `json:"risk_level"`
	RedFlags       []string             `json:"red_flags"`
	AnalyzedPosts  int                  `json:"analyzed_posts"`
	Metrics        types.ScoreMetrics   `json:"metrics"`
	Breakdown      types.ScoreBreakdown `json:"breakdown"`
	Recommendation types.Recommendation `json:"recommendation"`
	Timestamp      string               `json:"timestamp"`
	Sources        map[string]int       `json:"sources"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}

	token, limit, includeComments, err := s.normalizeAnalyze(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	outcome, err := s.deps.Analyze(r.Context(), token, limit, includeComments)
	if err != nil {
		s.writeAnalyzeError(w, token, err)
		return
	}

	writeJSON(w, http.StatusOK, toAnalyzeResponse(outcome))
}

// batchResponse keys each per-token result or failure by symbol.
type batchResponse struct {
	Results   map[string]any `json:"results"`
	Analyzed  int            `json:"analyzed"`
	Timestamp string         `json:"timestamp"`
}

type batchFailure struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

type batchRequest struct {
	TokenSymbols []string `json:"token_symbols"`
	PostLimit    int      `json:"post_limit"`
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}
	if len(req.TokenSymbols) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: token_symbols must not be empty", ErrBadRequest))
		return
	}
	if len(req.TokenSymbols) > s.maxBatchTokens {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("%w: maximum %d tokens per batch request", ErrBadRequest, s.maxBatchTokens))
		return
	}

	limit := req.PostLimit
	if limit == 0 {
		limit = s.defaultPostLimit / 2
	}

	// Per-token failures are reported inline so one bad symbol does not
	// void the rest of the batch.
	results := make(map[string]any, len(req.TokenSymbols))
	for _, raw := range req.TokenSymbols {
		token := strings.ToUpper(strings.TrimSpace(raw))
		if !validToken(token) {
			results[token] = batchFailure{Error: "token symbol must contain only letters and numbers", Status: "failed"}
			continue
		}
		outcome, err := s.deps.Analyze(r.Context(), token, limit, true)
		if err != nil {
			results[token] = batchFailure{Error: err.Error(), Status: "failed"}
			continue
		}
		results[token] = toAnalyzeResponse(outcome)
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Results:   results,
		Analyzed:  len(results),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) normalizeAnalyze(req analyzeRequest) (token string, limit int, includeComments bool, err error) {
	token = strings.ToUpper(strings.TrimSpace(req.TokenSymbol))
	if !validToken(token) {
		return "", 0, false, fmt.Errorf("%w: token symbol must contain only letters and numbers", ErrBadRequest)
	}

	limit = req.PostLimit
	if limit == 0 {
		limit = s.defaultPostLimit
	}
	if limit < minPostLimit || limit > s.maxPostLimit {
		return "", 0, false, fmt.Errorf("%w: post_limit must be between %d and %d",
			ErrBadRequest, minPostLimit, s.maxPostLimit)
	}

	includeComments = true
	if req.IncludeComments != nil {
		includeComments = *req.IncludeComments
	}
	return token, limit, includeComments, nil
}

func (s *Server) writeAnalyzeError(w http.ResponseWriter, token string, err error) {
	switch {
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, errors.New("analysis queue is full, retry shortly"))
	case errors.Is(err, collector.ErrNoData):
		writeError(w, http.StatusNotFound, fmt.Errorf(
			"no social media data found for $%s; the token may be too new, not actively discussed, or the symbol may be incorrect", token))
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func toAnalyzeResponse(outcome AnalysisOutcome) analyzeResponse {
	report := outcome.Report
	flags := report.RedFlags
	if flags == nil {
		flags = []string{}
	}
	return analyzeResponse{
		Score:          report.Score,
		RiskLevel:      report.RiskLevel,
		RedFlags:       flags,
		AnalyzedPosts:  report.AnalyzedPosts,
		Metrics:        report.Metrics,
		Breakdown:      report.Breakdown,
		Recommendation: outcome.Recommendation,
		Timestamp:      report.Timestamp.Format(time.RFC3339),
		Sources:        outcome.Sources,
	}
}
