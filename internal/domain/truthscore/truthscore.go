// Package truthscore orchestrates the four scoring components over a
// batch of posts and combines them into a single Truth Score with a risk
// bucket, a deduplicated red-flag list, and a recommendation.
package truthscore

import (
	"fmt"
	"math"
	"time"

	"github.com/truthfi/truthfi/internal/domain/account"
	"github.com/truthfi/truthfi/internal/domain/coordination"
	"github.com/truthfi/truthfi/internal/domain/engagement"
	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/textscan"
	"github.com/truthfi/truthfi/internal/domain/types"
)

// Aggregation constants.
const (
	minCombinedText    = 10
	highRiskThreshold  = 60
	suspiciousBelow    = 40
	lowEngagementBelow = 40
	maxFlags           = 15
	topContentFlags    = 8
	topAccountFlags    = 5
	neutralScore       = 50
	maxScore           = 100
	unknownAccountAge  = account.UnknownAgeDays
)

// Weights are the fixed component weights of the final score. They sum
// to 1.
type Weights struct {
	Content      float64 `koanf:"content"`
	Accounts     float64 `koanf:"accounts"`
	Coordination float64 `koanf:"coordination"`
	Engagement   float64 `koanf:"engagement"`
}

// DefaultWeights returns the shipped component weighting: what is being
// said counts most, then who says it, then how, then how the community
// responds.
func DefaultWeights() Weights {
	return Weights{Content: 0.40, Accounts: 0.30, Coordination: 0.20, Engagement: 0.10}
}

// RunEntry is one run-history record, appended per Calculate invocation.
type RunEntry struct {
	Score     float64
	Timestamp time.Time
	PostCount int
}

// Recorder receives one RunEntry per analysis. Implementations must be
// safe for concurrent use; the aggregator calls Record exactly once per
// successful Calculate.
type Recorder interface {
	Record(e RunEntry)
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights overrides the component weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.Content > 0 || w.Accounts > 0 || w.Coordination > 0 || w.Engagement > 0 {
			s.weights = w
		}
	}
}

// WithRecorder attaches a run-history sink.
func WithRecorder(r Recorder) Option {
	return func(s *Scorer) {
		s.recorder = r
	}
}

// WithTextScanner injects a shared text scanner so its diagnostic
// counters are visible to the rest of the service.
func WithTextScanner(sc *textscan.Scanner) Option {
	return func(s *Scorer) {
		if sc != nil {
			s.text = sc
		}
	}
}

// WithClock overrides the time source, mainly for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// Scorer combines the component scorers. Safe for concurrent use: all
// components are pure and the recorder handles its own synchronization.
type Scorer struct {
	text         *textscan.Scanner
	accounts     *account.Scorer
	coordination *coordination.Detector
	engagement   *engagement.Scorer
	weights      Weights
	recorder     Recorder
	now          func() time.Time
}

// New creates a Scorer with default components.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		text:         textscan.New(),
		accounts:     account.New(),
		coordination: coordination.New(),
		engagement:   engagement.New(),
		weights:      DefaultWeights(),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// TextScanner exposes the scanner used for per-text analysis.
func (s *Scorer) TextScanner() *textscan.Scanner {
	return s.text
}

// Calculate runs all components over a batch and combines them. Batches
// with no usable text degrade to the neutral insufficient-data result;
// nothing here ever fails.
func (s *Scorer) Calculate(posts []model.Post) types.TruthScoreResult {
	valid := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.HasUsableText() {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return s.defaultResult()
	}

	content := s.analyzeContent(valid)
	accounts := s.analyzeAccounts(valid)
	coord := s.coordination.Detect(valid)
	engage := s.engagement.Score(valid)

	coordScore := 0.0
	if coord.Coordinated {
		coordScore = float64(coord.Confidence)
	}

	final := (maxScore-content.avgScamScore)*s.weights.Content +
		accounts.avgCredibility*s.weights.Accounts +
		(maxScore-coordScore)*s.weights.Coordination +
		engage.QualityScore*s.weights.Engagement
	final = math.Max(0, math.Min(maxScore, final))

	flags := make([]string, 0, len(content.topFlags)+len(accounts.topFlags)+2)
	flags = append(flags, content.topFlags...)
	flags = append(flags, accounts.topFlags...)
	if coord.Coordinated {
		flags = append(flags, fmt.Sprintf("Coordinated activity: %s", coord.Reason))
	}
	if engage.QualityScore < lowEngagementBelow {
		flags = append(flags, fmt.Sprintf("Poor engagement quality (%d low-quality posts)", engage.LowQualityCount))
	}

	result := types.TruthScoreResult{
		Score:         round1(final),
		RiskLevel:     types.TrustRisk(final),
		RedFlags:      dedupeFlags(flags, maxFlags),
		AnalyzedPosts: len(valid),
		Metrics: types.ScoreMetrics{
			ContentScamScore:   round1(content.avgScamScore),
			AccountCredibility: round1(accounts.avgCredibility),
			CoordinationRisk:   round1(coordScore),
			EngagementQuality:  round1(engage.QualityScore),
			Sentiment:          content.sentiment,
		},
		Breakdown: types.ScoreBreakdown{
			HighRiskPosts:        content.highRiskCount,
			SuspiciousAccounts:   accounts.suspiciousCount,
			Coordinated:          coord.Coordinated,
			LowQualityEngagement: engage.LowQualityCount,
		},
		Timestamp: s.now().UTC(),
	}

	if s.recorder != nil {
		s.recorder.Record(RunEntry{Score: final, Timestamp: result.Timestamp, PostCount: len(valid)})
	}

	return result
}

type contentAnalysis struct {
	avgScamScore  float64
	highRiskCount int
	topFlags      []string
	sentiment     string
}

func (s *Scorer) analyzeContent(posts []model.Post) contentAnalysis {
	var scores []int
	counter := newFlagCounter()
	highRisk := 0

	for _, p := range posts {
		text := p.CombinedText()
		if len(text) < minCombinedText {
			continue
		}

		r := s.text.ScoreText(text)
		scores = append(scores, r.ScamScore)
		for _, f := range r.RedFlags {
			counter.Add(f)
		}
		if r.ScamScore >= highRiskThreshold {
			highRisk++
		}
	}

	avg := float64(neutralScore)
	if len(scores) > 0 {
		total := 0
		for _, v := range scores {
			total += v
		}
		avg = float64(total) / float64(len(scores))
	}

	var sentiment string
	switch {
	case avg < 25:
		sentiment = "legitimate"
	case avg < 45:
		sentiment = "questionable"
	case avg < 65:
		sentiment = "suspicious"
	default:
		sentiment = "highly_suspicious"
	}

	var top []string
	for _, fc := range counter.MostCommon(topContentFlags) {
		if fc.Count > 1 {
			top = append(top, fmt.Sprintf("%s (%dx)", fc.Flag, fc.Count))
		} else {
			top = append(top, fc.Flag)
		}
	}

	return contentAnalysis{
		avgScamScore:  avg,
		highRiskCount: highRisk,
		topFlags:      top,
		sentiment:     sentiment,
	}
}

type accountAnalysis struct {
	avgCredibility  float64
	suspiciousCount int
	topFlags        []string
}

// analyzeAccounts scores the account behind each post. True account
// history is not available from a post batch, so the post score stands in
// for karma and the post timestamp bounds the account age; the posting
// rate is unknown and defaults to zero. These proxies deliberately lean
// toward not flagging.
func (s *Scorer) analyzeAccounts(posts []model.Post) accountAnalysis {
	var scores []int
	counter := newFlagCounter()
	suspicious := 0

	for _, p := range posts {
		acc := model.Account{
			Username: p.Author,
			Karma:    p.Score,
			AgeDays:  s.accountAgeDays(p),
		}

		r := s.accounts.Score(acc)
		scores = append(scores, r.CredibilityScore)
		for _, f := range r.RedFlags {
			counter.Add(f)
		}
		if r.CredibilityScore < suspiciousBelow {
			suspicious++
		}
	}

	avg := float64(neutralScore)
	if len(scores) > 0 {
		total := 0
		for _, v := range scores {
			total += v
		}
		avg = float64(total) / float64(len(scores))
	}

	var top []string
	for _, fc := range counter.MostCommon(topAccountFlags) {
		if fc.Count > 1 {
			top = append(top, fmt.Sprintf("Account: %s (%d accounts)", fc.Flag, fc.Count))
		} else {
			top = append(top, fmt.Sprintf("Account: %s", fc.Flag))
		}
	}

	return accountAnalysis{
		avgCredibility:  avg,
		suspiciousCount: suspicious,
		topFlags:        top,
	}
}

func (s *Scorer) accountAgeDays(p model.Post) int {
	if p.CreatedAt.IsZero() {
		return unknownAccountAge
	}
	return int(s.now().Sub(p.CreatedAt).Hours() / 24)
}

func (s *Scorer) defaultResult() types.TruthScoreResult {
	return types.TruthScoreResult{
		Score:         neutralScore,
		RiskLevel:     types.RiskUnknown,
		RedFlags:      []string{"Insufficient data for comprehensive analysis"},
		AnalyzedPosts: 0,
		Metrics:       types.ScoreMetrics{Sentiment: "unknown"},
		Breakdown:     types.ScoreBreakdown{},
		Timestamp:     s.now().UTC(),
	}
}

// dedupeFlags removes exact duplicates preserving first-seen order and
// truncates to limit.
func dedupeFlags(flags []string, limit int) []string {
	seen := make(map[string]struct{}, len(flags))
	unique := make([]string, 0, len(flags))
	for _, f := range flags {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		unique = append(unique, f)
	}
	if len(unique) > limit {
		return unique[:limit]
	}
	return unique
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
