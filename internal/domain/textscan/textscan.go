// Package textscan scores a single text blob for scam-like language using
// keyword categories, phrase patterns, and behavioral heuristics. No
// machine learning involved; every check is a fixed rule.
package textscan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/truthfi/truthfi/internal/domain/types"
)

// Scoring constants.
const (
	minTextLength  = 10
	maxScore       = 100
	maxFlags       = 15
	scamThreshold  = 70
	phraseScore    = 25
	promiseScore   = 30
	promiseFloor   = 100
	domainScore    = 20
	walletScore    = 15
	trustScore     = 18
	pressureScore  = 12
	capsHighScore  = 20
	capsMidScore   = 10
	emojiHighScore = 20
	emojiMidScore  = 10
)

// Option applies a configuration option to the Scanner.
type Option func(*Scanner)

// WithCategories replaces the built-in keyword categories.
func WithCategories(categories []Category) Option {
	return func(s *Scanner) {
		if len(categories) > 0 {
			s.categories = categories
		}
	}
}

// Scanner scores texts for scam patterns. All scoring is pure; the only
// mutable state is a pair of diagnostic counters, which are atomic and
// safe under concurrent use.
type Scanner struct {
	categories []Category

	scamPhrases []*regexp.Regexp
	promises    []promisePattern
	wallets     []walletPattern
	emojiRe     *regexp.Regexp
	digitRun    *regexp.Regexp

	analyzed atomic.Int64
	scams    atomic.Int64
}

type promisePattern struct {
	re    *regexp.Regexp
	label string
}

type walletPattern struct {
	re    *regexp.Regexp
	label string
}

// New creates a Scanner with the built-in tables. Pattern tables are
// compiled once at construction.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		categories: defaultCategories(),
		emojiRe:    regexp.MustCompile(emojiPattern),
		digitRun:   regexp.MustCompile(`\d+`),
	}

	for _, p := range scamPhrasePatterns {
		s.scamPhrases = append(s.scamPhrases, regexp.MustCompile(p))
	}
	for _, p := range returnPromisePatterns {
		s.promises = append(s.promises, promisePattern{re: regexp.MustCompile(p.Pattern), label: p.Label})
	}
	for _, w := range walletPatterns {
		s.wallets = append(s.wallets, walletPattern{re: regexp.MustCompile(w.Pattern), label: w.Label})
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ScoreText analyzes a text for scam patterns and manipulation tactics.
// Texts shorter than ten characters after trimming fail soft: a zero-score
// sentinel result is returned and no counters change.
func (s *Scanner) ScoreText(text string) types.AnalysisResult {
	if len(strings.TrimSpace(text)) < minTextLength {
		return tooShortResult()
	}

	s.analyzed.Add(1)

	lower := strings.ToLower(text)
	score := 0
	var flags []string

	// Keyword categories. Each category saturates at twice its weight.
	for _, cat := range s.categories {
		var matched []string
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		contribution := len(matched) * cat.Weight
		if limit := cat.Weight * 2; contribution > limit {
			contribution = limit
		}
		score += contribution

		flag := fmt.Sprintf("%s: %s", cat.Label, strings.Join(matched[:min(3, len(matched))], ", "))
		if len(matched) > 3 {
			flag += fmt.Sprintf(" (+%d more)", len(matched)-3)
		}
		flags = append(flags, flag)
	}

	// Known scam phrases. Stop after the first matching pattern so a text
	// hitting several phrase shapes is not double-counted.
	for _, re := range s.scamPhrases {
		if re.MatchString(lower) {
			score += phraseScore
			flags = append(flags, "Known scam phrase pattern detected")
			break
		}
	}

	// Unrealistic return promises: at most one contribution per pattern
	// type, on its first qualifying match.
	for _, p := range s.promises {
		for _, m := range p.re.FindAllStringSubmatch(lower, -1) {
			value, ok := s.parseMagnitude(m[1])
			if !ok {
				continue
			}
			if value >= promiseFloor {
				score += promiseScore
				flags = append(flags, fmt.Sprintf("%s: %d", p.label, value))
				break
			}
		}
	}

	// Excessive capitalization, only meaningful for longer texts.
	runes := []rune(text)
	if len(runes) > 20 {
		caps := 0
		for _, r := range runes {
			if unicode.IsUpper(r) {
				caps++
			}
		}
		ratio := float64(caps) / float64(len(runes))
		switch {
		case ratio > 0.5:
			score += capsHighScore
			flags = append(flags, fmt.Sprintf("Excessive caps lock (%d%% of text)", int(ratio*100)))
		case ratio > 0.3:
			score += capsMidScore
			flags = append(flags, fmt.Sprintf("High caps usage (%d%%)", int(ratio*100)))
		}
	}

	// Emoji density.
	emojiCount := len(s.emojiRe.FindAllString(text, -1))
	switch {
	case emojiCount > 10:
		score += emojiHighScore
		flags = append(flags, fmt.Sprintf("Excessive emojis (%d emojis)", emojiCount))
	case emojiCount > 5:
		score += emojiMidScore
		flags = append(flags, fmt.Sprintf("Many emojis (%d emojis)", emojiCount))
	}

	// Shortened or invite links. First match only.
	for _, domain := range suspiciousDomains {
		if strings.Contains(lower, domain) {
			score += domainScore
			flags = append(flags, fmt.Sprintf("Suspicious shortened link: %s", domain))
			break
		}
	}

	// Wallet addresses, checked in priority order, first match only.
	for _, w := range s.wallets {
		if w.re.MatchString(text) {
			score += walletScore
			flags = append(flags, fmt.Sprintf("Contains %s (potential fund request)", w.label))
			break
		}
	}

	// Exclamation density.
	exclaims := strings.Count(text, "!")
	switch {
	case exclaims > 10:
		score += 15
		flags = append(flags, fmt.Sprintf("Excessive excitement (%d exclamation marks)", exclaims))
	case exclaims > 5:
		score += 8
		flags = append(flags, fmt.Sprintf("High excitement level (%d exclamation marks)", exclaims))
	}

	// Defensive, trust-seeking language.
	if matched := containedPhrases(lower, trustPhrases); len(matched) > 0 {
		score += trustScore
		flags = append(flags, fmt.Sprintf("Trust-seeking language: %s", strings.Join(matched[:min(2, len(matched))], ", ")))
	}

	// Time pressure.
	if matched := containedPhrases(lower, timePressurePhrases); len(matched) > 0 {
		score += pressureScore
		flags = append(flags, fmt.Sprintf("Time pressure: %s", strings.Join(matched[:min(2, len(matched))], ", ")))
	}

	final := min(score, maxScore)
	if final >= scamThreshold {
		s.scams.Add(1)
	}

	return types.AnalysisResult{
		ScamScore:      final,
		RedFlags:       truncateFlags(flags),
		RiskLevel:      types.ScamRisk(float64(final)),
		PatternMatches: len(flags),
	}
}

// parseMagnitude normalizes a captured number: a trailing "k" suffix means
// thousands and thousands separators are stripped. Unparseable captures
// are skipped, not fatal.
func (s *Scanner) parseMagnitude(raw string) (int, bool) {
	normalized := strings.ReplaceAll(raw, "k", "000")
	normalized = strings.ReplaceAll(normalized, ",", "")
	digits := s.digitRun.FindString(normalized)
	if digits == "" {
		return 0, false
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Stats reports the diagnostic counters.
type Stats struct {
	TotalAnalyzed int64   `json:"total_analyzed"`
	ScamsDetected int64   `json:"scams_detected"`
	ScamRate      float64 `json:"scam_rate"`
}

// Statistics returns the running counters. Counts may lag under concurrent
// use; scored results never do.
func (s *Scanner) Statistics() Stats {
	analyzed := s.analyzed.Load()
	scams := s.scams.Load()
	rate := 0.0
	if analyzed > 0 {
		rate = float64(scams) / float64(analyzed) * 100
	}
	return Stats{TotalAnalyzed: analyzed, ScamsDetected: scams, ScamRate: rate}
}

func tooShortResult() types.AnalysisResult {
	return types.AnalysisResult{
		ScamScore:      0,
		RedFlags:       []string{"Text too short for analysis"},
		RiskLevel:      types.RiskUnknown,
		PatternMatches: 0,
	}
}

func containedPhrases(lower string, phrases []string) []string {
	var matched []string
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			matched = append(matched, p)
		}
	}
	return matched
}

func truncateFlags(flags []string) []string {
	if len(flags) > maxFlags {
		return flags[:maxFlags]
	}
	return flags
}
