// Package collector fetches token mentions from social media sources.
// The only shipped implementation reads Reddit's public JSON listings,
// which need no credentials and tolerate modest request rates.
package collector

import (
	"context"
	"errors"

	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/types"
)

var (
	// ErrRequest indicates the upstream request could not be built or sent.
	ErrRequest = errors.New("collector request failed")

	// ErrDecode indicates the upstream response could not be parsed.
	ErrDecode = errors.New("collector response decode failed")

	// ErrNoData indicates the source returned no posts for the query.
	ErrNoData = errors.New("no posts found")
)

// Source is the contract every post source satisfies.
type Source interface {
	// SearchMentions returns recent posts and comments mentioning the
	// token symbol, up to limit entries.
	SearchMentions(ctx context.Context, token string, limit int, includeComments bool) ([]model.Post, error)

	// Trending returns the most mentioned token symbols in hot posts,
	// ordered by mention count.
	Trending(ctx context.Context, limit int) ([]model.TokenMention, error)

	// Sentiment summarizes recent upvote activity for a token.
	Sentiment(ctx context.Context, token string) (types.SentimentResult, error)
}
