// Package types contains the result records shared across the application.
// All fields are primitives, strings, or enums so every type serializes
// directly to JSON.
package types

import "time"

// RiskLevel is a four-tier classification derived from a numeric score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
	RiskUnknown  RiskLevel = "unknown"
)

// ScamRisk classifies a suspicion-polarity score: higher score means more
// risk. Used by the text and account scorers.
func ScamRisk(score float64) RiskLevel {
	switch {
	case score >= 70:
		return RiskCritical
	case score >= 50:
		return RiskHigh
	case score >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}

// TrustRisk classifies a trust-polarity score: higher score means less
// risk. Used for the aggregate Truth Score. The inversion relative to
// ScamRisk is intentional; the two scores measure opposite things.
func TrustRisk(score float64) RiskLevel {
	switch {
	case score >= 75:
		return RiskLow
	case score >= 55:
		return RiskMedium
	case score >= 35:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// AnalysisResult is the text pattern scorer output for a single text.
type AnalysisResult struct {
	ScamScore      int       `json:"scam_score"`
	RedFlags       []string  `json:"red_flags"`
	RiskLevel      RiskLevel `json:"risk_level"`
	PatternMatches int       `json:"pattern_matches"`
}

// AccountResult is the account credibility scorer output.
type AccountResult struct {
	CredibilityScore int       `json:"credibility_score"`
	RedFlags         []string  `json:"red_flags"`
	RiskLevel        RiskLevel `json:"risk_level"`
	IsSuspicious     bool      `json:"is_suspicious"`
}

// CoordinationResult describes whether a batch of posts looks like a
// coordinated campaign and which check fired.
type CoordinationResult struct {
	Coordinated bool   `json:"coordinated"`
	Confidence  int    `json:"confidence"`
	Reason      string `json:"reason"`
	Pattern     string `json:"pattern"`
}

// EngagementMetrics counts posts per engagement tier.
type EngagementMetrics struct {
	High     int `json:"high_engagement"`
	Medium   int `json:"medium_engagement"`
	Low      int `json:"low_engagement"`
	Negative int `json:"negative_engagement"`
}

// EngagementResult is the engagement quality scorer output for a batch.
type EngagementResult struct {
	QualityScore    float64           `json:"quality_score"`
	LowQualityCount int               `json:"low_quality_count"`
	Metrics         EngagementMetrics `json:"engagement_metrics"`
}

// ScoreMetrics holds the four raw component scores plus a sentiment label.
type ScoreMetrics struct {
	ContentScamScore   float64 `json:"content_scam_score"`
	AccountCredibility float64 `json:"account_credibility"`
	CoordinationRisk   float64 `json:"coordination_risk"`
	EngagementQuality  float64 `json:"engagement_quality"`
	Sentiment          string  `json:"sentiment"`
}

// ScoreBreakdown holds quantitative counts behind a Truth Score.
type ScoreBreakdown struct {
	HighRiskPosts        int  `json:"high_risk_posts"`
	SuspiciousAccounts   int  `json:"suspicious_accounts"`
	Coordinated          bool `json:"coordinated"`
	LowQualityEngagement int  `json:"low_quality_engagement"`
}

// TruthScoreResult is the aggregator output for one analysis run.
type TruthScoreResult struct {
	Score         float64        `json:"score"`
	RiskLevel     RiskLevel      `json:"risk_level"`
	RedFlags      []string       `json:"red_flags"`
	AnalyzedPosts int            `json:"analyzed_posts"`
	Metrics       ScoreMetrics   `json:"metrics"`
	Breakdown     ScoreBreakdown `json:"breakdown"`
	Timestamp     time.Time      `json:"timestamp"`
}

// AnalysisOutcome bundles a finished analysis with its recommendation
// and the per-source post counts that fed it.
type AnalysisOutcome struct {
	Report         TruthScoreResult `json:"report"`
	Recommendation Recommendation   `json:"recommendation"`
	Sources        map[string]int   `json:"sources"`
}

// Recommendation is the actionable advice mapped from a Truth Score.
type Recommendation struct {
	Recommendation string   `json:"recommendation"`
	Message        string   `json:"message"`
	Actions        []string `json:"actions"`
}

// Summary aggregates the in-memory run history.
type Summary struct {
	TotalAnalyses    int            `json:"total_analyses"`
	AverageScore     float64        `json:"average_score"`
	MedianScore      float64        `json:"median_score"`
	RiskDistribution map[string]int `json:"risk_distribution"`
	RecentScores     []float64      `json:"recent_scores"`
}

// SentimentResult is the upvote-based sentiment summary for a token.
type SentimentResult struct {
	Sentiment    string  `json:"sentiment"`
	AvgScore     float64 `json:"avg_score"`
	PostCount    int     `json:"post_count"`
	TotalUpvotes int     `json:"total_upvotes"`
}
