// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package buzz

import (
	"context"
	"time"

	"github.com/tomtom215/cinequiz/internal/metrics"
)

// highDiscussionGenres are genres whose well-reviewed titles reliably draw
// discussion: action, sci-fi, horror, thriller, fantasy, mystery and the TV
// Action & Adventure and Sci-Fi & Fantasy genres.
var highDiscussionGenres = map[int]struct{}{
	28: {}, 878: {}, 27: {}, 53: {}, 14: {}, 9648: {}, 10759: {}, 10765: {},
}

// Categorize classifies req and maps the result to an enhanced category. If
// the lookup failed, the category comes from Heuristic(hints).
func (c *Classifier) Categorize(ctx context.Context, req Request, hints Hints) Classification {
	r := c.Classify(ctx, req)

	if r.Level == LevelUnknown {
		cat := heuristicCategory(Heuristic(hints, c.now()))
		metrics.RecordBuzzCategory(string(cat), string(SourceHeuristic))
		return Classification{Result: r, Category: cat, Source: SourceHeuristic}
	}

	cat := CategoryFor(&r)
	metrics.RecordBuzzCategory(string(cat), string(SourceDiscussion))
	return Classification{Result: r, Category: cat, Source: SourceDiscussion}
}

// CategoryFor maps a successful Result to its enhanced category. Comment
// sentiment is used when at least five comments were scored; otherwise post
// sentiment is used, and only then can a neutral High result be
// Controversial.
func CategoryFor(r *Result) Category {
	s := r.Sentiment
	fromComments := r.CommentsAnalyzed >= minComments && r.CommentSentiment != ""
	if fromComments {
		s = r.CommentSentiment
	}

	switch r.Level {
	case LevelHigh:
		switch s {
		case SentimentPositive:
			return CategoryTrendingPositive
		case SentimentNegative:
			return CategoryTrendingNegative
		}
		if !fromComments && r.SentimentIntensity >= positiveThreshold {
			return CategoryControversial
		}
		return CategoryPopularDiscussion
	case LevelMedium:
		switch s {
		case SentimentPositive:
			return CategoryTrendingPositive
		case SentimentNegative:
			return CategoryTrendingNegative
		}
		return CategoryNicheInterest
	default:
		return CategoryLowBuzz
	}
}

// Heuristic estimates a buzz level from content properties alone.
func Heuristic(h Hints, now time.Time) Level {
	recent := h.ReleaseYear > 0 && now.Year()-h.ReleaseYear <= 2

	discussed := false
	for _, g := range h.GenreCodes {
		if _, ok := highDiscussionGenres[g]; ok {
			discussed = true
			break
		}
	}

	switch {
	case (recent && h.Rating >= 7.5) || (h.CriticScore >= 85 && discussed):
		return LevelHigh
	case recent || h.Rating >= 6.5:
		return LevelMedium
	default:
		return LevelLow
	}
}

func heuristicCategory(l Level) Category {
	switch l {
	case LevelHigh:
		return CategoryPopularDiscussion
	case LevelMedium:
		return CategoryNicheInterest
	default:
		return CategoryLowBuzz
	}
}
