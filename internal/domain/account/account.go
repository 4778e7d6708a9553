// Package account scores a single account's metadata for bot or shill
// likelihood. Checks are additive and independent; nothing here blocks or
// touches external resources.
package account

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/types"
)

// UnknownAgeDays is the default when account age is unavailable. Old is
// the trusted direction: unknown data must not create suspicion.
const UnknownAgeDays = 999

const (
	maxSuspicion        = 100
	suspiciousBelow     = 50
	cryptoKeywordScore  = 12
	deletedAccountScore = 20
)

// Username shape patterns, checked in order; the first match wins. The
// word+digits shape is matched against the lowercased username, so
// CamelCase names with long digit runs resolve to it as well.
var (
	wordDigitsRe  = regexp.MustCompile(`^[a-z]+\d{4,}$`)
	camelDigitsRe = regexp.MustCompile(`^[A-Z][a-z]+([A-Z][a-z]+)+\d+$`)
	shortDigitsRe = regexp.MustCompile(`^[a-zA-Z]{1,3}\d{6,}$`)
)

var cryptoUsernameKeywords = []string{"crypto", "moon", "pump", "gem", "hodl", "whale"}

// Scorer computes account credibility. It is stateless and safe for
// concurrent use.
type Scorer struct{}

// New creates an account Scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score assesses one account. The credibility score is the inverse of an
// additive suspicion score; risk level is classified on suspicion, not
// credibility.
func (s *Scorer) Score(acc model.Account) types.AccountResult {
	suspicion := 0
	var flags []string

	// Age buckets are exclusive; the most specific wins.
	switch {
	case acc.AgeDays < 7:
		suspicion += 40
		flags = append(flags, fmt.Sprintf("Very new account (%d days old)", acc.AgeDays))
	case acc.AgeDays < 30:
		suspicion += 25
		flags = append(flags, fmt.Sprintf("New account (%d days old)", acc.AgeDays))
	case acc.AgeDays < 90:
		suspicion += 10
		flags = append(flags, fmt.Sprintf("Relatively new account (%d days old)", acc.AgeDays))
	}

	switch {
	case acc.Karma < 10:
		suspicion += 30
		flags = append(flags, fmt.Sprintf("Very low karma (%d)", acc.Karma))
	case acc.Karma < 50:
		suspicion += 20
		flags = append(flags, fmt.Sprintf("Low karma (%d)", acc.Karma))
	case acc.Karma < 100:
		suspicion += 10
		flags = append(flags, fmt.Sprintf("Minimal karma (%d)", acc.Karma))
	}

	if acc.Username != "" && acc.Username != model.DeletedAuthor {
		switch {
		case wordDigitsRe.MatchString(strings.ToLower(acc.Username)):
			suspicion += 20
			flags = append(flags, "Generic username pattern (word+numbers)")
		case camelDigitsRe.MatchString(acc.Username):
			suspicion += 18
			flags = append(flags, "Bot-like username (CamelCase+numbers)")
		case shortDigitsRe.MatchString(acc.Username):
			suspicion += 25
			flags = append(flags, "Random character username")
		}

		// Stacks with a shape match.
		lower := strings.ToLower(acc.Username)
		for _, kw := range cryptoUsernameKeywords {
			if strings.Contains(lower, kw) {
				suspicion += cryptoKeywordScore
				flags = append(flags, "Crypto-focused username (possible shill)")
				break
			}
		}
	}

	switch {
	case acc.PostsPerDay > 50:
		suspicion += 25
		flags = append(flags, fmt.Sprintf("Extremely high posting rate (%g/day)", acc.PostsPerDay))
	case acc.PostsPerDay > 30:
		suspicion += 18
		flags = append(flags, fmt.Sprintf("Very high posting rate (%g/day)", acc.PostsPerDay))
	case acc.PostsPerDay > 20:
		suspicion += 10
		flags = append(flags, fmt.Sprintf("High posting rate (%g/day)", acc.PostsPerDay))
	}

	if acc.Username == model.DeletedAuthor {
		suspicion += deletedAccountScore
		flags = append(flags, "Deleted/suspended account")
	}

	credibility := maxSuspicion - min(suspicion, maxSuspicion)

	return types.AccountResult{
		CredibilityScore: credibility,
		RedFlags:         flags,
		RiskLevel:        types.ScamRisk(float64(suspicion)),
		IsSuspicious:     credibility < suspiciousBelow,
	}
}
