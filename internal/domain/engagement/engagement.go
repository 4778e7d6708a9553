// Package engagement scores a batch of posts for community-response
// quality. Quality per post is a step function of score and comment
// count, with separate thresholds for posts and comments.
package engagement

import (
	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/types"
)

// neutralQuality is returned for an empty batch: no evidence either way.
const neutralQuality = 50

// Scorer computes engagement quality. Stateless and safe for concurrent
// use.
type Scorer struct{}

// New creates an engagement Scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score rates each post's engagement and averages the batch. Posts need
// both an upvote and a comment threshold to rate high or medium; comments
// are judged on score alone. Negative engagement counts as low quality.
func (s *Scorer) Score(posts []model.Post) types.EngagementResult {
	result := types.EngagementResult{QualityScore: neutralQuality}
	if len(posts) == 0 {
		return result
	}

	total := 0
	for _, p := range posts {
		quality := 0
		if p.Kind == model.KindPost {
			switch {
			case p.Score > 20 && p.CommentCount > 10:
				quality = 90
				result.Metrics.High++
			case p.Score > 5 && p.CommentCount > 3:
				quality = 70
				result.Metrics.Medium++
			case p.Score > 0:
				quality = 50
				result.Metrics.Low++
			default:
				quality = 20
				result.Metrics.Negative++
				result.LowQualityCount++
			}
		} else {
			switch {
			case p.Score > 10:
				quality = 80
				result.Metrics.High++
			case p.Score > 3:
				quality = 65
				result.Metrics.Medium++
			case p.Score >= 0:
				quality = 45
				result.Metrics.Low++
			default:
				quality = 25
				result.Metrics.Negative++
				result.LowQualityCount++
			}
		}
		total += quality
	}

	result.QualityScore = float64(total) / float64(len(posts))
	return result
}
