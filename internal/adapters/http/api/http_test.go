package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/truthfi/truthfi/internal/adapters/collector"
	"github.com/truthfi/truthfi/internal/adapters/http/api"
	"github.com/truthfi/truthfi/internal/adapters/mq/queue"
	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/types"
)

// mockDeps implements api.Dependencies with overridable behavior per test.
type mockDeps struct {
	analyzeFn   func(token string, limit int, includeComments bool) (api.AnalysisOutcome, error)
	trendingFn  func(limit int) ([]model.TokenMention, error)
	sentimentFn func(token string) (types.SentimentResult, error)
	pingErr     error
}

func (m *mockDeps) Analyze(_ context.Context, token string, limit int, includeComments bool) (api.AnalysisOutcome, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(token, limit, includeComments)
	}
	return api.AnalysisOutcome{}, errors.New("not configured")
}

func (m *mockDeps) ScoreText(_ context.Context, text string) types.AnalysisResult {
	return types.AnalysisResult{
		ScamScore:      85,
		RiskLevel:      types.RiskCritical,
		RedFlags:       []string{"Known scam phrase pattern detected"},
		PatternMatches: 1,
	}
}

func (m *mockDeps) ScoreAccount(_ context.Context, acc model.Account) types.AccountResult {
	return types.AccountResult{CredibilityScore: 25, RiskLevel: types.RiskHigh, IsSuspicious: true, RedFlags: []string{}}
}

func (m *mockDeps) DetectCoordination(_ context.Context, posts []model.Post) types.CoordinationResult {
	return types.CoordinationResult{
		Coordinated: true,
		Confidence:  85,
		Reason:      fmt.Sprintf("%d pairs of very similar content detected", len(posts)),
		Pattern:     "content_duplication",
	}
}

func (m *mockDeps) Trending(_ context.Context, limit int) ([]model.TokenMention, error) {
	if m.trendingFn != nil {
		return m.trendingFn(limit)
	}
	return nil, nil
}

func (m *mockDeps) Sentiment(_ context.Context, token string) (types.SentimentResult, error) {
	if m.sentimentFn != nil {
		return m.sentimentFn(token)
	}
	return types.SentimentResult{}, nil
}

func (m *mockDeps) Summary(_ context.Context) types.Summary {
	return types.Summary{TotalAnalyses: 3, AverageScore: 61.5, MedianScore: 60, RiskDistribution: map[string]int{"low": 3}}
}

func (m *mockDeps) Stats(_ context.Context) map[string]any {
	return map[string]any{"queue_size": 0, "total_analyses": 3}
}

func (m *mockDeps) Ping(_ context.Context) error {
	return m.pingErr
}

func newTestRouter(deps api.Dependencies, opts ...api.Option) *mux.Router {
	r := mux.NewRouter()
	api.NewServer(deps, opts...).Register(r)
	return r
}

func doJSON(r *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// Decode targets for response bodies.
type analyzeBody struct {
	Score          float64              `json:"score"`
	RiskLevel      types.RiskLevel      `json:"risk_level"`
	AnalyzedPosts  int                  `json:"analyzed_posts"`
	Recommendation types.Recommendation `json:"recommendation"`
	Sources        map[string]int       `json:"sources"`
	Timestamp      string               `json:"timestamp"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type failureBody struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

type patternsBody struct {
	ScamScore      int             `json:"scam_score"`
	RiskLevel      types.RiskLevel `json:"risk_level"`
	RedFlags       []string        `json:"red_flags"`
	PatternMatches int             `json:"pattern_matches"`
}

type trendingBody struct {
	Trending      []model.TokenMention `json:"trending"`
	TotalAnalyzed int                  `json:"total_analyzed"`
}

type sentimentBody struct {
	Token        string  `json:"token"`
	Sentiment    string  `json:"sentiment"`
	AvgScore     float64 `json:"avg_score"`
	PostCount    int     `json:"post_count"`
	TotalUpvotes int     `json:"total_upvotes"`
}

type healthBody struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
	Uptime   string            `json:"uptime"`
}

func TestAnalyzeEndpoint(t *testing.T) {
	Convey("Given an API over a healthy service", t, func() {
		deps := &mockDeps{
			analyzeFn: func(token string, limit int, includeComments bool) (api.AnalysisOutcome, error) {
				So(token, ShouldEqual, "BTC")
				return api.AnalysisOutcome{
					Report: types.TruthScoreResult{
						Score:         72.4,
						RiskLevel:     types.RiskMedium,
						RedFlags:      []string{"FOMO (Fear of Missing Out) language: moon"},
						AnalyzedPosts: 40,
						Timestamp:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
					},
					Recommendation: types.Recommendation{Recommendation: "EXERCISE CAUTION"},
					Sources:        map[string]int{"CryptoCurrency": 40},
				}, nil
			},
		}
		r := newTestRouter(deps)

		Convey("When a valid analyze request is posted", func() {
			rec := doJSON(r, http.MethodPost, "/api/analyze", map[string]any{"token_symbol": "btc"})

			Convey("Then the full report comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp analyzeBody
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Score, ShouldEqual, 72.4)
				So(resp.RiskLevel, ShouldEqual, types.RiskMedium)
				So(resp.AnalyzedPosts, ShouldEqual, 40)
				So(resp.Recommendation.Recommendation, ShouldEqual, "EXERCISE CAUTION")
				So(resp.Sources["CryptoCurrency"], ShouldEqual, 40)
				So(resp.Timestamp, ShouldEqual, "2026-08-01T12:00:00Z")
			})
		})

		Convey("When the token symbol is invalid", func() {
			rec := doJSON(r, http.MethodPost, "/api/analyze", map[string]any{"token_symbol": "B T C!"})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the post limit is out of range", func() {
			rec := doJSON(r, http.MethodPost, "/api/analyze", map[string]any{"token_symbol": "BTC", "post_limit": 5})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body is not JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString("not json"))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given a service under backpressure", t, func() {
		deps := &mockDeps{
			analyzeFn: func(string, int, bool) (api.AnalysisOutcome, error) {
				return api.AnalysisOutcome{}, fmt.Errorf("enqueue: %w", queue.ErrFull)
			},
		}
		r := newTestRouter(deps)

		Convey("Then analyze returns 429", func() {
			rec := doJSON(r, http.MethodPost, "/api/analyze", map[string]any{"token_symbol": "BTC"})
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
		})
	})

	Convey("Given a token nobody talks about", t, func() {
		deps := &mockDeps{
			analyzeFn: func(string, int, bool) (api.AnalysisOutcome, error) {
				return api.AnalysisOutcome{}, fmt.Errorf("token RARE: %w", collector.ErrNoData)
			},
		}
		r := newTestRouter(deps)

		Convey("Then analyze returns 404", func() {
			rec := doJSON(r, http.MethodPost, "/api/analyze", map[string]any{"token_symbol": "RARE"})
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			var resp errorBody
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Message, ShouldContainSubstring, "$RARE")
		})
	})
}

func TestBatchEndpoint(t *testing.T) {
	Convey("Given a service where one token fails", t, func() {
		deps := &mockDeps{
			analyzeFn: func(token string, _ int, _ bool) (api.AnalysisOutcome, error) {
				if token == "BAD" {
					return api.AnalysisOutcome{}, fmt.Errorf("token BAD: %w", collector.ErrNoData)
				}
				return api.AnalysisOutcome{Report: types.TruthScoreResult{Score: 55}}, nil
			},
		}
		r := newTestRouter(deps)

		Convey("When a mixed batch is posted", func() {
			rec := doJSON(r, http.MethodPost, "/api/analyze/batch", map[string]any{
				"token_symbols": []string{"BTC", "BAD"},
			})

			Convey("Then failures sit inline next to successes", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Results  map[string]json.RawMessage `json:"results"`
					Analyzed int                        `json:"analyzed"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Analyzed, ShouldEqual, 2)

				var ok analyzeBody
				So(json.Unmarshal(resp.Results["BTC"], &ok), ShouldBeNil)
				So(ok.Score, ShouldEqual, 55)

				var failed failureBody
				So(json.Unmarshal(resp.Results["BAD"], &failed), ShouldBeNil)
				So(failed.Status, ShouldEqual, "failed")
			})
		})

		Convey("When the batch is too large", func() {
			tokens := make([]string, 11)
			for i := range tokens {
				tokens[i] = fmt.Sprintf("TK%d", i)
			}
			rec := doJSON(r, http.MethodPost, "/api/analyze/batch", map[string]any{"token_symbols": tokens})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the batch is empty", func() {
			rec := doJSON(r, http.MethodPost, "/api/analyze/batch", map[string]any{"token_symbols": []string{}})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestScoringEndpoints(t *testing.T) {
	Convey("Given the API", t, func() {
		r := newTestRouter(&mockDeps{})

		Convey("When text is posted to the patterns endpoint", func() {
			rec := doJSON(r, http.MethodPost, "/api/patterns", map[string]any{
				"text": "send eth to receive guaranteed 100x profit",
			})

			Convey("Then the scam score comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp patternsBody
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.ScamScore, ShouldEqual, 85)
				So(resp.RiskLevel, ShouldEqual, types.RiskCritical)
			})
		})

		Convey("When the text is too short", func() {
			rec := doJSON(r, http.MethodPost, "/api/patterns", map[string]any{"text": "hi"})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When an account is posted", func() {
			rec := doJSON(r, http.MethodPost, "/api/account", map[string]any{
				"username": "CryptoKing2024", "karma": 5, "account_age_days": 2,
			})

			Convey("Then the credibility result comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp types.AccountResult
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.CredibilityScore, ShouldEqual, 25)
				So(resp.IsSuspicious, ShouldBeTrue)
			})
		})

		Convey("When an account without a username is posted", func() {
			rec := doJSON(r, http.MethodPost, "/api/account", map[string]any{"karma": 5})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posts are sent for coordination analysis", func() {
			rec := doJSON(r, http.MethodPost, "/api/coordination", map[string]any{
				"posts": []map[string]any{{"id": "a", "text": "same"}, {"id": "b", "text": "same"}},
			})

			Convey("Then the detection verdict comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp types.CoordinationResult
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Coordinated, ShouldBeTrue)
				So(resp.Pattern, ShouldEqual, "content_duplication")
			})
		})

		Convey("When the coordination post set is empty", func() {
			rec := doJSON(r, http.MethodPost, "/api/coordination", map[string]any{"posts": []any{}})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestDiscoveryEndpoints(t *testing.T) {
	Convey("Given trending data", t, func() {
		deps := &mockDeps{
			trendingFn: func(limit int) ([]model.TokenMention, error) {
				So(limit, ShouldEqual, 50)
				return []model.TokenMention{{Symbol: "PEPE", Mentions: 9}}, nil
			},
		}
		r := newTestRouter(deps)

		Convey("When trending is requested over the cap", func() {
			rec := doJSON(r, http.MethodGet, "/api/trending?limit=500", nil)

			Convey("Then the limit clamps and data returns", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp trendingBody
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.TotalAnalyzed, ShouldEqual, 1)
				So(resp.Trending[0].Symbol, ShouldEqual, "PEPE")
			})
		})

		Convey("When the limit is not a number", func() {
			rec := doJSON(r, http.MethodGet, "/api/trending?limit=abc", nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given sentiment data", t, func() {
		deps := &mockDeps{
			sentimentFn: func(token string) (types.SentimentResult, error) {
				if token == "GHOST" {
					return types.SentimentResult{Sentiment: "neutral"}, nil
				}
				return types.SentimentResult{Sentiment: "positive", AvgScore: 18.5, PostCount: 12, TotalUpvotes: 222}, nil
			},
		}
		r := newTestRouter(deps)

		Convey("When sentiment for an active token is requested", func() {
			rec := doJSON(r, http.MethodGet, "/api/sentiment/eth", nil)

			Convey("Then the summary comes back with the token upcased", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp sentimentBody
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Token, ShouldEqual, "ETH")
				So(resp.Sentiment, ShouldEqual, "positive")
				So(resp.TotalUpvotes, ShouldEqual, 222)
			})
		})

		Convey("When the token has no recent posts", func() {
			rec := doJSON(r, http.MethodGet, "/api/sentiment/GHOST", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given a healthy service", t, func() {
		r := newTestRouter(&mockDeps{})

		Convey("Then the root endpoint reports operational", func() {
			rec := doJSON(r, http.MethodGet, "/", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp healthBody
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Status, ShouldEqual, "operational")
			So(resp.Services["api"], ShouldEqual, "operational")
		})

		Convey("Then the summary endpoint returns history aggregates", func() {
			rec := doJSON(r, http.MethodGet, "/api/summary", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp types.Summary
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.TotalAnalyses, ShouldEqual, 3)
		})

		Convey("Then the stats endpoint includes uptime", func() {
			rec := doJSON(r, http.MethodGet, "/stats", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["uptime"], ShouldNotBeEmpty)
		})

		Convey("Then the metrics endpoint serves the registry", func() {
			rec := doJSON(r, http.MethodGet, "/metrics", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})

	Convey("Given a service whose source is down", t, func() {
		r := newTestRouter(&mockDeps{pingErr: errors.New("reddit unreachable")})

		Convey("Then the health endpoint reports degraded", func() {
			rec := doJSON(r, http.MethodGet, "/api/health", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp healthBody
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Status, ShouldEqual, "degraded")
			So(resp.Services["collector"], ShouldStartWith, "error: ")
		})
	})

	Convey("Given CORS configuration", t, func() {
		r := newTestRouter(&mockDeps{}, api.WithCORSOrigins([]string{"https://truthfi.vercel.app"}))

		Convey("When a preflight request arrives from an allowed origin", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
			req.Header.Set("Origin", "https://truthfi.vercel.app")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			Convey("Then it is acknowledged with the origin echoed", func() {
				So(rec.Code, ShouldEqual, http.StatusNoContent)
				So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://truthfi.vercel.app")
			})
		})

		Convey("When a request arrives from a different origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", "https://evil.example")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			Convey("Then no allow header is stamped", func() {
				So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
			})
		})
	})
}
