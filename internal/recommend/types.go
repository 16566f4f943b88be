// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package recommend

import (
	"time"

	"github.com/tomtom215/cinequiz/internal/buzz"
	"github.com/tomtom215/cinequiz/internal/catalog"
	"github.com/tomtom215/cinequiz/internal/critic"
	"github.com/tomtom215/cinequiz/internal/experiment"
	"github.com/tomtom215/cinequiz/internal/preference"
)

// Candidate is a catalog item with its enrichment. A candidate that was not
// enriched has an Unknown buzz level and empty critic scores.
type Candidate struct {
	Item         catalog.Item  `json:"item"`
	Buzz         buzz.Result   `json:"buzz"`
	BuzzCategory buzz.Category `json:"buzzCategory,omitempty"`
	Critic       critic.Scores `json:"critic"`
}

// unenriched wraps item with zero enrichment.
func unenriched(item catalog.Item) Candidate {
	return Candidate{
		Item: item,
		Buzz: buzz.Result{Level: buzz.LevelUnknown, Sentiment: buzz.SentimentUnknown},
	}
}

// ScoreBreakdown shows how a final score was built.
type ScoreBreakdown struct {
	Relevance      float64 `json:"relevance"`
	Rating         float64 `json:"rating"`
	Buzz           float64 `json:"buzz"`
	RottenTomatoes float64 `json:"rottenTomatoes"`
	IMDb           float64 `json:"imdb"`
}

// Recommendation is a ranked result. Rank is 1-based and dense.
type Recommendation struct {
	Content        catalog.Item   `json:"content"`
	RelevanceScore float64        `json:"relevanceScore"`
	Rank           int            `json:"rank"`
	BuzzLevel      buzz.Level     `json:"buzzLevel"`
	BuzzCategory   buzz.Category  `json:"buzzCategory,omitempty"`
	Sentiment      buzz.Sentiment `json:"sentiment"`
	IMDbRating     *float64       `json:"imdbRating,omitempty"`
	RottenTomatoes *int           `json:"rottenTomatoes,omitempty"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
}

// Request is a recommendation request.
type Request struct {
	// SessionID identifies the A/B session. Empty creates a new session.
	SessionID string `json:"sessionId,omitempty"`

	Answers []preference.Answer `json:"answers"`

	// Strategy requests a variant for a new session. Empty rolls randomly.
	Strategy experiment.Variant `json:"strategy,omitempty"`

	// RequestID correlates logs and events. Empty generates one.
	RequestID string `json:"-"`
}

// ResponseMetadata contains request-level information.
type ResponseMetadata struct {
	RequestID   string    `json:"requestId"`
	GeneratedAt time.Time `json:"generatedAt"`
	DurationMS  int64     `json:"durationMs"`
	Enriched    int       `json:"enriched"`
}

// Response is the result of GetRecommendations.
type Response struct {
	SessionID       string             `json:"sessionId"`
	Variant         experiment.Variant `json:"variant"`
	Profile         preference.Profile `json:"profile"`
	Recommendations []Recommendation   `json:"recommendations"`
	TotalCandidates int                `json:"totalCandidates"`
	Metadata        ResponseMetadata   `json:"metadata"`
}
