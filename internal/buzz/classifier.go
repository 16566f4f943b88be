// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package buzz

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/discussion"
	"github.com/tomtom215/cinequiz/internal/logging"
	"github.com/tomtom215/cinequiz/internal/metrics"
	"github.com/tomtom215/cinequiz/internal/sentiment"
)

const (
	// DefaultTimeout bounds one proxy lookup.
	DefaultTimeout = 12 * time.Second

	// DefaultCacheTTL is how long a successful Result is reused.
	DefaultCacheTTL = 24 * time.Hour

	positiveThreshold = 0.2
	negativeThreshold = -0.2

	// minComments is the number of scored comments needed before comment
	// sentiment replaces post sentiment.
	minComments = 5

	maxTopSources = 5
)

var errEmptyResponse = errors.New("discussion search returned no result")

type levelThreshold struct {
	posts, upvotes, comments int
}

var (
	highVolume   = levelThreshold{posts: 20, upvotes: 5000, comments: 1000}
	mediumVolume = levelThreshold{posts: 8, upvotes: 1000, comments: 200}
)

// Classifier produces buzz results. It is safe for concurrent use.
type Classifier struct {
	searcher      discussion.Searcher
	store         Store
	analyzer      *sentiment.Analyzer
	timeout       time.Duration
	fetchComments bool
	now           func() time.Time
	logger        zerolog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTimeout sets the per-lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithFetchComments asks the proxy for comment trees.
func WithFetchComments(enabled bool) Option {
	return func(c *Classifier) { c.fetchComments = enabled }
}

// WithClock overrides time.Now for AnalyzedAt and the heuristic's notion
// of a recent release.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Classifier. A nil searcher makes every lookup fail, which
// leaves Categorize on its heuristic path.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(searcher discussion.Searcher, store Store, logger zerolog.Logger, opts ...Option) *Classifier {
	c := &Classifier{
		searcher: searcher,
		store:    store,
		analyzer: sentiment.New(),
		timeout:  DefaultTimeout,
		now:      time.Now,
		logger:   logger.With().Str("component", "buzz").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the buzz Result for req. It never fails: errors are
// reported through Result.Error with Level Unknown.
func (c *Classifier) Classify(ctx context.Context, req Request) Result {
	key := req.CacheKey()
	if c.store != nil {
		if cached, ok := c.store.Get(ctx, key); ok {
			metrics.RecordBuzzClassification(string(cached.Level), "cache")
			return cached
		}
	}

	if c.searcher == nil {
		return c.failure(req, discussion.ErrNotConfigured)
	}

	// The lookup runs to its own deadline even if the caller goes away.
	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := time.Now()
	res, err := c.searcher.Search(lookupCtx, req.Query(), c.fetchComments)
	metrics.BuzzLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return c.failure(req, err)
	}
	if res == nil {
		return c.failure(req, errEmptyResponse)
	}

	result := c.analyze(res)
	if c.store != nil {
		c.store.Set(ctx, key, result)
	}
	metrics.RecordBuzzClassification(string(result.Level), "discussion")

	logging.Ctx(ctx).Debug().
		Str("title", req.Title).
		Str("level", string(result.Level)).
		Str("sentiment", string(result.Sentiment)).
		Int("posts", result.PostCount).
		Msg("buzz classified")
	return result
}

func (c *Classifier) failure(req Request, err error) Result {
	metrics.RecordBuzzClassification(string(LevelUnknown), "failure")
	c.logger.Warn().Err(err).Str("title", req.Title).Int("year", req.Year).Msg("buzz lookup failed")
	return Result{
		Level:      LevelUnknown,
		Sentiment:  SentimentUnknown,
		TopSources: []SourceCount{},
		AnalyzedAt: c.now(),
		Error:      err.Error(),
	}
}

func (c *Classifier) analyze(res *discussion.SearchResult) Result {
	r := Result{
		PostCount:  len(res.Posts),
		AnalyzedAt: c.now(),
	}

	tally := make(map[string]int)
	var sum, sumAbs float64
	for i := range res.Posts {
		p := &res.Posts[i]
		r.TotalUpvotes += max(p.Upvotes, 0)
		r.TotalComments += max(p.NumComments, 0)
		if p.Source != "" {
			tally[p.Source]++
		}

		score := c.analyzer.Analyze(p.Title + " " + p.Body).Comparative
		sum += score
		sumAbs += math.Abs(score)
	}
	if r.PostCount > 0 {
		r.SentimentScore = sum / float64(r.PostCount)
		r.SentimentIntensity = sumAbs / float64(r.PostCount)
	}
	r.Sentiment = classifySentiment(r.SentimentScore)
	r.Level = classifyLevel(r.PostCount, r.TotalUpvotes, r.TotalComments)
	r.TopSources = topSources(tally, maxTopSources)

	var commentSum float64
	for _, cm := range res.FlattenComments() {
		body := strings.TrimSpace(cm.Body)
		if body == "" || body == "[deleted]" || body == "[removed]" {
			continue
		}
		commentSum += c.analyzer.Analyze(body).Comparative
		r.CommentsAnalyzed++
	}
	if r.CommentsAnalyzed > 0 {
		r.CommentSentimentScore = commentSum / float64(r.CommentsAnalyzed)
		r.CommentSentiment = classifySentiment(r.CommentSentimentScore)
	}

	return r
}

func classifySentiment(score float64) Sentiment {
	switch {
	case score >= positiveThreshold:
		return SentimentPositive
	case score <= negativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func classifyLevel(posts, upvotes, comments int) Level {
	switch {
	case posts >= highVolume.posts || upvotes >= highVolume.upvotes || comments >= highVolume.comments:
		return LevelHigh
	case posts >= mediumVolume.posts || upvotes >= mediumVolume.upvotes || comments >= mediumVolume.comments:
		return LevelMedium
	default:
		return LevelLow
	}
}

// topSources orders forums by post count, then name, and keeps the first n.
func topSources(tally map[string]int, n int) []SourceCount {
	out := make([]SourceCount, 0, len(tally))
	for name, count := range tally {
		out = append(out, SourceCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
