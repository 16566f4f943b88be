// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

// Result is the outcome of analyzing one text.
type Result struct {
	// Comparative is the normalized compound valence in [-1, 1].
	Comparative float64 `json:"comparative"`

	// Positive, Neutral and Negative are the proportions of the text
	// falling into each polarity. They sum to 1 for non-empty text.
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// Analyzer scores text with the VADER lexicon and rules.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// New creates an Analyzer. Loading the lexicon is not free, so callers
// should build one and reuse it.
func New() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Analyze scores text. Blank text yields a zero Result.
func (a *Analyzer) Analyze(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{}
	}
	s := a.vader.PolarityScores(text)
	return Result{
		Comparative: s.Compound,
		Positive:    s.Positive,
		Neutral:     s.Neutral,
		Negative:    s.Negative,
	}
}
