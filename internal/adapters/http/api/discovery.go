package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/truthfi/truthfi/internal/domain/model"
)

const defaultTrendingLimit = 20

type trendingResponse struct {
	Trending      []model.TokenMention `json:"trending"`
	Timestamp     string               `json:"timestamp"`
	TotalAnalyzed int                  `json:"total_analyzed"`
}

// handleTrending lists the most mentioned tokens in hot posts.
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	limit := defaultTrendingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		limit = parsed
	}
	if limit > s.maxTrendingLimit {
		limit = s.maxTrendingLimit
	}

	mentions, err := s.deps.Trending(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if mentions == nil {
		mentions = []model.TokenMention{}
	}

	writeJSON(w, http.StatusOK, trendingResponse{
		Trending:      mentions,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		TotalAnalyzed: len(mentions),
	})
}

type sentimentResponse struct {
	Token        string  `json:"token"`
	Sentiment    string  `json:"sentiment"`
	AvgScore     float64 `json:"avg_score"`
	PostCount    int     `json:"post_count"`
	TotalUpvotes int     `json:"total_upvotes"`
	Timestamp    string  `json:"timestamp"`
}

// handleSentiment summarizes recent upvote activity for one token.
func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	token := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["token"]))
	if !validToken(token) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid token symbol", ErrBadRequest))
		return
	}

	res, err := s.deps.Sentiment(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if res.PostCount == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("no recent posts found for $%s", token))
		return
	}

	writeJSON(w, http.StatusOK, sentimentResponse{
		Token:        token,
		Sentiment:    res.Sentiment,
		AvgScore:     res.AvgScore,
		PostCount:    res.PostCount,
		TotalUpvotes: res.TotalUpvotes,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}
