// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package buzz

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/cinequiz/internal/catalog"
)

// Level is the discussion volume.
type Level string

const (
	LevelHigh    Level = "High"
	LevelMedium  Level = "Medium"
	LevelLow     Level = "Low"
	LevelUnknown Level = "Unknown"
)

// Sentiment is the overall tone of the discussion.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
	SentimentUnknown  Sentiment = "Unknown"
)

// Category is the enhanced level x sentiment classification.
type Category string

const (
	CategoryTrendingPositive  Category = "Trending Positive"
	CategoryTrendingNegative  Category = "Trending Negative"
	CategoryPopularDiscussion Category = "Popular Discussion"
	CategoryControversial     Category = "Controversial"
	CategoryNicheInterest     Category = "Niche Interest"
	CategoryLowBuzz           Category = "Low Buzz"
)

// Source records which path produced a Classification.
type Source string

const (
	// SourceDiscussion means the category came from proxy data.
	SourceDiscussion Source = "discussion"
	// SourceHeuristic means the proxy failed and content properties were used.
	SourceHeuristic Source = "heuristic"
)

// SourceCount is the number of posts found in one forum.
type SourceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Result is the outcome of one discussion lookup. Cached values are shared
// between callers and must be treated as read-only.
type Result struct {
	Level          Level         `json:"level"`
	Sentiment      Sentiment     `json:"sentiment"`
	SentimentScore float64       `json:"sentimentScore"`
	PostCount      int           `json:"postCount"`
	TotalComments  int           `json:"totalComments"`
	TotalUpvotes   int           `json:"totalUpvotes"`
	TopSources     []SourceCount `json:"topSources"`

	// SentimentIntensity is the mean absolute comparative score of the
	// posts. A high intensity with a neutral mean means opinions cancel out.
	SentimentIntensity float64 `json:"sentimentIntensity"`

	// CommentsAnalyzed is the number of comment bodies scored.
	CommentsAnalyzed      int       `json:"commentsAnalyzed"`
	CommentSentiment      Sentiment `json:"commentSentiment,omitempty"`
	CommentSentimentScore float64   `json:"commentSentimentScore"`

	AnalyzedAt time.Time `json:"analyzedAt"`

	// Error is set when the lookup failed.
	Error string `json:"error,omitempty"`
}

// Request identifies a title. Year 0 and an empty MediaType mean unknown.
type Request struct {
	Title     string            `json:"title"`
	Year      int               `json:"year,omitempty"`
	MediaType catalog.MediaType `json:"mediaType,omitempty"`
}

// CacheKey returns "title|year|type" with the title trimmed and lowercased.
func (r Request) CacheKey() string {
	year := ""
	if r.Year > 0 {
		year = strconv.Itoa(r.Year)
	}
	return strings.ToLower(strings.TrimSpace(r.Title)) + "|" + year + "|" + string(r.MediaType)
}

// Query returns the search string sent to the proxy.
func (r Request) Query() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(r.Title))
	if r.Year > 0 {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(r.Year))
	}
	if r.MediaType == catalog.MediaTV {
		b.WriteString(" tv show")
	} else {
		b.WriteString(" movie")
	}
	return b.String()
}

// Hints are the content properties used by the heuristic fallback.
type Hints struct {
	// ReleaseYear is 0 when unknown.
	ReleaseYear int `json:"releaseYear,omitempty"`

	// Rating is the audience rating, 0..10.
	Rating float64 `json:"rating,omitempty"`

	// CriticScore is a 0..100 critic percentage, 0 when unknown.
	CriticScore int `json:"criticScore,omitempty"`

	GenreCodes []int `json:"genreCodes,omitempty"`
}

// Classification is the public result of Categorize.
type Classification struct {
	Result   Result   `json:"result"`
	Category Category `json:"category"`
	Source   Source   `json:"source"`
}

// Store caches results by key. cache.Cacher[Result] satisfies it.
type Store interface {
	Get(ctx context.Context, key string) (Result, bool)
	Set(ctx context.Context, key string, value Result)
}
