// Package coordination scores a batch of posts for signs of an organized
// promotion campaign. Checks run as an ordered decision list: the first
// check that fires short-circuits the rest. Temporal clustering outranks
// content duplication, which outranks author concentration, which
// outranks emoji coordination.
package coordination

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/types"
)

// Detection constants.
const (
	minPosts             = 5
	closeGapSeconds      = 300
	temporalRatio        = 0.4
	similarityThreshold  = 0.7
	duplicationRatio     = 0.3
	minComparableTexts   = 3
	authorRatioThreshold = 0.5
	emojiSignatureRatio  = 0.6

	temporalConfidence    = 75
	duplicationConfidence = 85
	authorConfidence      = 70
	emojiConfidence       = 65
)

// PatternNone marks a result where no check fired.
const PatternNone = "none"

// Pattern tags identifying which check fired.
const (
	PatternTemporal    = "temporal_clustering"
	PatternDuplication = "content_duplication"
	PatternAuthors     = "author_concentration"
	PatternEmoji       = "emoji_coordination"
)

var jaccardStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "to": {}, "of": {},
	"in": {}, "on": {}, "at": {},
}

var emojiSignatureRe = regexp.MustCompile(`[\x{1F300}-\x{1F9FF}🚀💎]`)

// Detector checks batches of posts for coordination. Stateless and safe
// for concurrent use.
type Detector struct{}

// New creates a coordination Detector.
func New() *Detector {
	return &Detector{}
}

// Detect runs the priority-ordered checks over a batch. Fewer than five
// posts is insufficient data and yields a not-coordinated result.
func (d *Detector) Detect(posts []model.Post) types.CoordinationResult {
	if len(posts) < minPosts {
		return types.CoordinationResult{
			Coordinated: false,
			Confidence:  0,
			Reason:      "Insufficient data for analysis",
			Pattern:     PatternNone,
		}
	}

	if r, ok := d.checkTemporalClustering(posts); ok {
		return r
	}
	if r, ok := d.checkContentDuplication(posts); ok {
		return r
	}
	if r, ok := d.checkAuthorConcentration(posts); ok {
		return r
	}
	if r, ok := d.checkEmojiSignatures(posts); ok {
		return r
	}

	return types.CoordinationResult{
		Coordinated: false,
		Confidence:  0,
		Reason:      "No significant coordination detected",
		Pattern:     PatternNone,
	}
}

// checkTemporalClustering counts consecutive posting gaps under five
// minutes; a burst covering more than 40% of the batch is coordinated.
func (d *Detector) checkTemporalClustering(posts []model.Post) (types.CoordinationResult, bool) {
	var stamps []int64
	for _, p := range posts {
		if !p.CreatedAt.IsZero() {
			stamps = append(stamps, p.CreatedAt.Unix())
		}
	}
	if len(stamps) <= 3 {
		return types.CoordinationResult{}, false
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })

	closeGaps := 0
	for i := 0; i < len(stamps)-1; i++ {
		if stamps[i+1]-stamps[i] < closeGapSeconds {
			closeGaps++
		}
	}

	if float64(closeGaps) > float64(len(posts))*temporalRatio {
		return types.CoordinationResult{
			Coordinated: true,
			Confidence:  temporalConfidence,
			Reason:      fmt.Sprintf("%d posts clustered within 5 minutes", closeGaps),
			Pattern:     PatternTemporal,
		}, true
	}
	return types.CoordinationResult{}, false
}

// checkContentDuplication compares every pair of usable texts by Jaccard
// similarity; too many near-identical pairs is copy-paste coordination.
func (d *Detector) checkContentDuplication(posts []model.Post) (types.CoordinationResult, bool) {
	var texts []string
	for _, p := range posts {
		if t := p.CombinedText(); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) < minComparableTexts {
		return types.CoordinationResult{}, false
	}

	similar, total := 0, 0
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			total++
			if Similarity(texts[i], texts[j]) > similarityThreshold {
				similar++
			}
		}
	}

	if total > 0 && float64(similar)/float64(total) > duplicationRatio {
		return types.CoordinationResult{
			Coordinated: true,
			Confidence:  duplicationConfidence,
			Reason:      fmt.Sprintf("%d pairs of very similar content detected", similar),
			Pattern:     PatternDuplication,
		}, true
	}
	return types.CoordinationResult{}, false
}

// checkAuthorConcentration flags batches where fewer than half the posts
// with a known author come from distinct accounts.
func (d *Detector) checkAuthorConcentration(posts []model.Post) (types.CoordinationResult, bool) {
	var authors []string
	for _, p := range posts {
		if p.Author != "" && p.Author != model.DeletedAuthor {
			authors = append(authors, p.Author)
		}
	}
	if len(authors) == 0 {
		return types.CoordinationResult{}, false
	}

	unique := make(map[string]struct{}, len(authors))
	for _, a := range authors {
		unique[a] = struct{}{}
	}

	if float64(len(unique))/float64(len(authors)) < authorRatioThreshold {
		return types.CoordinationResult{
			Coordinated: true,
			Confidence:  authorConfidence,
			Reason:      fmt.Sprintf("Only %d authors for %d posts", len(unique), len(authors)),
			Pattern:     PatternAuthors,
		}, true
	}
	return types.CoordinationResult{}, false
}

// checkEmojiSignatures builds each post body's sorted emoji multiset; one
// signature repeated across most of the batch suggests templated posts.
func (d *Detector) checkEmojiSignatures(posts []model.Post) (types.CoordinationResult, bool) {
	var signatures []string
	for _, p := range posts {
		emojis := emojiSignatureRe.FindAllString(p.Body, -1)
		if len(emojis) == 0 {
			continue
		}
		sort.Strings(emojis)
		signatures = append(signatures, strings.Join(emojis, ""))
	}
	if len(signatures) == 0 {
		return types.CoordinationResult{}, false
	}

	// Most frequent signature; first-seen order breaks ties.
	counts := make(map[string]int, len(signatures))
	bestCount := 0
	for _, sig := range signatures {
		counts[sig]++
		if counts[sig] > bestCount {
			bestCount = counts[sig]
		}
	}

	if float64(bestCount) > float64(len(posts))*emojiSignatureRatio {
		return types.CoordinationResult{
			Coordinated: true,
			Confidence:  emojiConfidence,
			Reason:      fmt.Sprintf("Identical emoji pattern in %d posts", bestCount),
			Pattern:     PatternEmoji,
		}, true
	}
	return types.CoordinationResult{}, false
}

// Similarity computes the Jaccard similarity of two texts over their
// whitespace-tokenized, lower-cased, stop-word-filtered word sets. Either
// side collapsing to an empty set yields 0.
func Similarity(a, b string) float64 {
	wordsA := filteredWordSet(a)
	wordsB := filteredWordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func filteredWordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, stop := jaccardStopWords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}
