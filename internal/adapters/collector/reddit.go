package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/truthfi/truthfi/internal/domain/dedupe"
	"github.com/truthfi/truthfi/internal/domain/model"
	"github.com/truthfi/truthfi/internal/domain/types"
	"github.com/truthfi/truthfi/pkg/logger"
	"github.com/truthfi/truthfi/pkg/metrics"
)

// Defaults for the Reddit client.
const (
	DefaultBaseURL   = "https://www.reddit.com"
	DefaultUserAgent = "truthfi:v1.0.0 (token credibility scanner)"

	defaultTimeout     = 10 * time.Second
	defaultDedupeSize  = 10_000
	topCommentsPerPost = 3
	minCommentLength   = 10
	trendingTopTokens  = 20
	sentimentPostLimit = 30
)

// DefaultSubreddits are the crypto communities searched by default.
var DefaultSubreddits = []string{
	"CryptoCurrency",
	"CryptoMoonShots",
	"SatoshiStreetBets",
	"CryptoMarkets",
	"altcoin",
	"Bitcoin",
	"ethereum",
}

var (
	dollarTokenRe = regexp.MustCompile(`\$([A-Z]{2,10})\b`)
	wordTokenRe   = regexp.MustCompile(`\b([A-Z]{3,10})\b`)
)

// excludedTokenWords are uppercase English words and crypto jargon that
// match the token patterns but are never token symbols.
var excludedTokenWords = map[string]struct{}{
	"THE": {}, "AND": {}, "FOR": {}, "NOT": {}, "BUT": {}, "ARE": {}, "YOU": {}, "ALL": {},
	"CAN": {}, "HER": {}, "WAS": {}, "ONE": {}, "OUR": {}, "OUT": {}, "DAY": {}, "GET": {},
	"HAS": {}, "HIM": {}, "HIS": {}, "HOW": {}, "MAN": {}, "NEW": {}, "NOW": {}, "OLD": {},
	"SEE": {}, "TWO": {}, "WAY": {}, "WHO": {}, "BOY": {}, "DID": {}, "ITS": {}, "LET": {},
	"PUT": {}, "SAY": {}, "SHE": {}, "TOO": {}, "USE": {}, "WILL": {}, "ABOUT": {}, "BEEN": {},
	"HAVE": {}, "INTO": {}, "LIKE": {}, "MORE": {}, "SOME": {}, "THAN": {}, "THAT": {},
	"THEM": {}, "THEN": {}, "THESE": {}, "THIS": {}, "WHAT": {}, "WHEN": {}, "WHERE": {},
	"WHICH": {}, "WITH": {}, "YOUR": {}, "WOULD": {}, "COULD": {}, "SHOULD": {}, "CRYPTO": {},
	"COIN": {}, "TOKEN": {}, "PRICE": {}, "REDDIT": {}, "POST": {}, "COMMENT": {},
}

// RedditClient reads Reddit's public JSON listings. It performs no
// authentication and identifies itself via the User-Agent header only.
type RedditClient struct {
	baseURL    string
	userAgent  string
	subreddits []string
	dedupeSize int
	client     *http.Client
	log        logger.Logger
}

// Option configures a RedditClient.
type Option func(*RedditClient)

// WithBaseURL overrides the Reddit API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *RedditClient) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *RedditClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithSubreddits overrides the subreddits searched for mentions.
func WithSubreddits(subs []string) Option {
	return func(c *RedditClient) {
		if len(subs) > 0 {
			c.subreddits = subs
		}
	}
}

// WithDedupeSize bounds the per-search post dedup cache.
func WithDedupeSize(n int) Option {
	return func(c *RedditClient) {
		if n > 0 {
			c.dedupeSize = n
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *RedditClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger overrides the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *RedditClient) {
		c.log = l
	}
}

// NewRedditClient creates a Reddit source with the given options.
func NewRedditClient(opts ...Option) *RedditClient {
	c := &RedditClient{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		subreddits: DefaultSubreddits,
		dedupeSize: defaultDedupeSize,
		client:     &http.Client{Timeout: defaultTimeout},
		log:        logger.Named("collector"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listing mirrors the envelope of Reddit's public JSON endpoints.
type listing struct {
	Data struct {
		Children []struct {
			Data redditThing `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditThing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Body        string  `json:"body"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	URL         string  `json:"url"`
}

// SearchMentions looks up the token under three query shapes ($T, #T and
// the bare symbol) across all configured subreddits, splitting the limit
// evenly. Posts seen under an earlier query are skipped.
func (c *RedditClient) SearchMentions(ctx context.Context, token string, limit int, includeComments bool) ([]model.Post, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	queries := []string{"$" + token, "#" + token, token}
	perQuery := limit / len(queries)
	if perQuery < 1 {
		perQuery = 1
	}

	seen := dedupe.New(dedupe.WithMaxSize(c.dedupeSize))
	var posts []model.Post
	for _, q := range queries {
		found, err := c.searchQuery(ctx, q, perQuery)
		if err != nil {
			// A single failed query shape is not fatal; the
			// remaining shapes usually surface the same posts.
			c.log.Warn(ctx, "search query failed", logger.String("query", q), logger.Error(err))
			continue
		}

		for _, thing := range found {
			if seen.SeenAndRecord(ctx, thing.ID) {
				continue
			}
			posts = append(posts, submissionPost(thing))
			metrics.IncPostsCollected()

			if !includeComments {
				continue
			}
			comments, err := c.topComments(ctx, thing.ID)
			if err != nil {
				c.log.Debug(ctx, "comment fetch failed", logger.String("post", thing.ID), logger.Error(err))
				continue
			}
			posts = append(posts, comments...)
		}
	}

	c.log.Info(ctx, "mention search finished",
		logger.String("token", token),
		logger.Int("posts", len(posts)))
	return posts, nil
}

func (c *RedditClient) searchQuery(ctx context.Context, query string, limit int) ([]redditThing, error) {
	endpoint := fmt.Sprintf("%s/r/%s/search.json", c.baseURL, strings.Join(c.subreddits, "+"))
	params := url.Values{
		"q":           {query},
		"restrict_sr": {"on"},
		"sort":        {"new"},
		"t":           {"week"},
		"limit":       {strconv.Itoa(limit)},
	}

	var list listing
	if err := c.getJSON(ctx, endpoint+"?"+params.Encode(), &list); err != nil {
		return nil, err
	}

	things := make([]redditThing, 0, len(list.Data.Children))
	for _, child := range list.Data.Children {
		things = append(things, child.Data)
	}
	return things, nil
}

// topComments fetches the first few comments of a post, skipping stubs
// too short to analyze.
func (c *RedditClient) topComments(ctx context.Context, postID string) ([]model.Post, error) {
	endpoint := fmt.Sprintf("%s/comments/%s.json?limit=%d", c.baseURL, postID, topCommentsPerPost)

	// The comments endpoint returns two listings: the post itself and
	// its comment tree.
	var lists []listing
	if err := c.getJSON(ctx, endpoint, &lists); err != nil {
		return nil, err
	}
	if len(lists) < 2 {
		return nil, nil
	}

	var comments []model.Post
	for _, child := range lists[1].Data.Children {
		if len(comments) >= topCommentsPerPost {
			break
		}
		if len(child.Data.Body) <= minCommentLength {
			continue
		}
		comments = append(comments, commentPost(child.Data, postID))
	}
	return comments, nil
}

// Trending scans hot posts of the primary subreddit for token symbols
// and returns the most mentioned ones, at most twenty.
func (c *RedditClient) Trending(ctx context.Context, limit int) ([]model.TokenMention, error) {
	endpoint := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", c.baseURL, c.subreddits[0], limit)

	var list listing
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}

	counts := map[string]int{}
	order := []string{}
	for _, child := range list.Data.Children {
		text := child.Data.Title + " " + child.Data.Selftext
		for _, match := range append(dollarTokenRe.FindAllStringSubmatch(text, -1), wordTokenRe.FindAllStringSubmatch(text, -1)...) {
			symbol := match[1]
			if _, excluded := excludedTokenWords[symbol]; excluded {
				continue
			}
			if counts[symbol] == 0 {
				order = append(order, symbol)
			}
			counts[symbol]++
		}
	}

	mentions := make([]model.TokenMention, 0, len(order))
	for _, symbol := range order {
		mentions = append(mentions, model.TokenMention{Symbol: symbol, Mentions: counts[symbol]})
	}
	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].Mentions > mentions[j].Mentions
	})
	if len(mentions) > trendingTopTokens {
		mentions = mentions[:trendingTopTokens]
	}
	return mentions, nil
}

// Sentiment averages upvote scores of recent submissions mentioning the
// token. Comments count toward post_count but not toward the average.
func (c *RedditClient) Sentiment(ctx context.Context, token string) (types.SentimentResult, error) {
	posts, err := c.SearchMentions(ctx, token, sentimentPostLimit, true)
	if err != nil {
		return types.SentimentResult{}, err
	}
	if len(posts) == 0 {
		return types.SentimentResult{Sentiment: "neutral"}, nil
	}

	total := 0
	submissions := 0
	for _, p := range posts {
		if p.Kind != model.KindPost {
			continue
		}
		total += p.Score
		submissions++
	}

	avg := 0.0
	if submissions > 0 {
		avg = float64(total) / float64(submissions)
	}

	return types.SentimentResult{
		Sentiment:    sentimentLabel(avg),
		AvgScore:     math.Round(avg*100) / 100,
		PostCount:    len(posts),
		TotalUpvotes: total,
	}, nil
}

func sentimentLabel(avg float64) string {
	switch {
	case avg > 15:
		return "positive"
	case avg > 5:
		return "moderately_positive"
	case avg > -5:
		return "neutral"
	case avg > -15:
		return "moderately_negative"
	default:
		return "negative"
	}
}

func (c *RedditClient) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.IncCollectorRequests("error")
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.IncCollectorRequests(strconv.Itoa(resp.StatusCode))
		return fmt.Errorf("%w: unexpected status %d", ErrRequest, resp.StatusCode)
	}
	metrics.IncCollectorRequests("200")

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func submissionPost(t redditThing) model.Post {
	return model.Post{
		ID:           t.ID,
		Kind:         model.KindPost,
		Title:        t.Title,
		Body:         t.Selftext,
		Author:       authorOrDeleted(t.Author),
		Subreddit:    t.Subreddit,
		Score:        t.Score,
		CommentCount: t.NumComments,
		CreatedAt:    time.Unix(int64(t.CreatedUTC), 0).UTC(),
		URL:          t.URL,
	}
}

func commentPost(t redditThing, parentID string) model.Post {
	return model.Post{
		ID:        t.ID,
		Kind:      model.KindComment,
		Body:      t.Body,
		Author:    authorOrDeleted(t.Author),
		Subreddit: t.Subreddit,
		Score:     t.Score,
		CreatedAt: time.Unix(int64(t.CreatedUTC), 0).UTC(),
		ParentID:  parentID,
	}
}

func authorOrDeleted(author string) string {
	if author == "" {
		return model.DeletedAuthor
	}
	return author
}
