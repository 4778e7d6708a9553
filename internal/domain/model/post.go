// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// DeletedAuthor is the sentinel username for removed accounts.
const DeletedAuthor = "[deleted]"

// PostKind distinguishes submissions from comments.
type PostKind string

const (
	KindPost    PostKind = "post"
	KindComment PostKind = "comment"
)

// Post is one social-media post or comment as returned by a collector.
// Posts are immutable inputs; scorers never mutate them.
type Post struct {
	ID           string    `json:"id"`
	Kind         PostKind  `json:"type"`
	Title        string    `json:"title"`
	Body         string    `json:"text"`
	Author       string    `json:"author"`
	Subreddit    string    `json:"subreddit,omitempty"`
	Score        int       `json:"score"`
	CommentCount int       `json:"num_comments"`
	CreatedAt    time.Time `json:"created_utc"`
	URL          string    `json:"url,omitempty"`
	ParentID     string    `json:"parent_id,omitempty"`
}

// CombinedText joins title and body the way the scorers consume them.
func (p Post) CombinedText() string {
	return strings.TrimSpace(p.Title + " " + p.Body)
}

// HasUsableText reports whether either the title or the body carries more
// than ten characters after trimming. Posts failing this are excluded from
// aggregate analysis.
func (p Post) HasUsableText() bool {
	return len(strings.TrimSpace(p.Body)) > 10 || len(strings.TrimSpace(p.Title)) > 10
}

// Account is the per-author metadata fed to the credibility scorer.
type Account struct {
	Username    string  `json:"username"`
	Karma       int     `json:"karma"`
	AgeDays     int     `json:"account_age_days"`
	PostsPerDay float64 `json:"posts_per_day"`
}

// TokenMention is one trending token with its mention count.
type TokenMention struct {
	Symbol   string `json:"symbol"`
	Mentions int    `json:"mentions"`
}
