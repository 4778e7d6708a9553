package engagement_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/truthfi/truthfi/internal/domain/engagement"
	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/types"
)

func TestScore(t *testing.T) {
	Convey("Given an engagement scorer", t, func() {
		s := engagement.New()

		Convey("When the batch is empty", func() {
			res := s.Score(nil)

			Convey("Then quality is neutral with no tier counts", func() {
				So(res.QualityScore, ShouldEqual, 50)
				So(res.LowQualityCount, ShouldEqual, 0)
				So(res.Metrics, ShouldResemble, types.EngagementMetrics{})
			})
		})

		Convey("When submissions span every tier", func() {
			res := s.Score([]model.Post{
				{Kind: model.KindPost, Score: 150, CommentCount: 40},
				{Kind: model.KindPost, Score: 10, CommentCount: 5},
				{Kind: model.KindPost, Score: 2, CommentCount: 0},
				{Kind: model.KindPost, Score: -3, CommentCount: 1},
			})

			Convey("Then each tier is counted once and the average follows", func() {
				So(res.Metrics, ShouldResemble, types.EngagementMetrics{High: 1, Medium: 1, Low: 1, Negative: 1})
				So(res.QualityScore, ShouldEqual, 57.5)
				So(res.LowQualityCount, ShouldEqual, 1)
			})
		})

		Convey("When a submission has upvotes but no discussion", func() {
			res := s.Score([]model.Post{
				{Kind: model.KindPost, Score: 100, CommentCount: 2},
			})

			Convey("Then it rates low despite the score", func() {
				So(res.QualityScore, ShouldEqual, 50)
				So(res.Metrics.Low, ShouldEqual, 1)
			})
		})

		Convey("When comments span every tier", func() {
			res := s.Score([]model.Post{
				{Kind: model.KindComment, Score: 25},
				{Kind: model.KindComment, Score: 7},
				{Kind: model.KindComment, Score: 0},
				{Kind: model.KindComment, Score: -5},
			})

			Convey("Then comments are judged on score alone", func() {
				So(res.Metrics, ShouldResemble, types.EngagementMetrics{High: 1, Medium: 1, Low: 1, Negative: 1})
				So(res.QualityScore, ShouldEqual, 53.75)
				So(res.LowQualityCount, ShouldEqual, 1)
			})
		})

		Convey("When the batch mixes well and poorly received posts", func() {
			res := s.Score([]model.Post{
				{Kind: model.KindPost, Score: 30, CommentCount: 15},
				{Kind: model.KindComment, Score: -2},
				{Kind: model.KindPost, Score: -1},
			})

			Convey("Then low quality posts are tallied separately", func() {
				So(res.LowQualityCount, ShouldEqual, 2)
				So(res.QualityScore, ShouldEqual, 45)
			})
		})
	})
}
