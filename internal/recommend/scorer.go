// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package recommend

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/cinequiz/internal/buzz"
	"github.com/tomtom215/cinequiz/internal/catalog"
	"github.com/tomtom215/cinequiz/internal/experiment"
	"github.com/tomtom215/cinequiz/internal/preference"
)

// Scoring constants.
const (
	genreMatchPoints   = 20.0
	priorityStep       = 10.0
	maxRankedPriority  = 3
	popularityDivisor  = 10.0
	popularityCap      = 10.0
	relevanceVoteScale = 2.0
	eraPoints          = 15.0
	typePointsStandard = 15.0
	typePointsEnhanced = 10.0
	jitterRange        = 5.0

	relevanceWeight = 0.6
	finalVoteWeight = 0.5

	newEraWindow    = 2
	classicEraUntil = 2000
)

var buzzPoints = map[buzz.Level]float64{
	buzz.LevelHigh:   20,
	buzz.LevelMedium: 10,
	buzz.LevelLow:    2,
}

// Scorer ranks enriched candidates against a profile. It is safe for
// concurrent use; the jitter source is guarded by a mutex.
type Scorer struct {
	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
	topN  func(experiment.Variant) int
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithScorerClock overrides the clock used for the "new" era window.
func WithScorerClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithScorerRand replaces the jitter source. Seed is ignored.
func WithScorerRand(r *rand.Rand) ScorerOption {
	return func(s *Scorer) {
		if r != nil {
			s.rng = r
		}
	}
}

// NewScorer creates a Scorer from cfg. A zero Seed seeds from the clock.
func NewScorer(cfg *Config, opts ...ScorerOption) *Scorer {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Scorer{
		rng:  rand.New(rand.NewSource(seed)), //nolint:gosec // jitter, not security
		now:  time.Now,
		topN: cfg.Clone().TopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes final scores, sorts descending (stable on ties, so input
// order breaks them) and returns at most TopN(v) results ranked 1..N.
// The result is never nil.
func (s *Scorer) Score(candidates []Candidate, p *preference.Profile, v experiment.Variant) []Recommendation {
	if len(candidates) == 0 {
		return []Recommendation{}
	}

	year := s.now().Year()
	jitter := s.jitter(len(candidates))

	recs := make([]Recommendation, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		b := ScoreBreakdown{
			Relevance:      relevanceBase(&c.Item, p, v, year) + jitter[i],
			Rating:         c.Item.VoteAverage * finalVoteWeight,
			Buzz:           buzzPoints[c.Buzz.Level],
			RottenTomatoes: rottenTomatoesPoints(c.Critic.RottenTomatoes),
			IMDb:           imdbPoints(c.Critic.IMDb),
		}
		recs[i] = Recommendation{
			Content:        c.Item,
			RelevanceScore: b.Relevance*relevanceWeight + b.Rating + b.Buzz + b.RottenTomatoes + b.IMDb,
			BuzzLevel:      c.Buzz.Level,
			BuzzCategory:   c.BuzzCategory,
			Sentiment:      c.Buzz.Sentiment,
			IMDbRating:     c.Critic.IMDb,
			RottenTomatoes: c.Critic.RottenTomatoes,
			Breakdown:      b,
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RelevanceScore > recs[j].RelevanceScore
	})

	if n := s.topN(v); len(recs) > n {
		recs = recs[:n]
	}
	for i := range recs {
		recs[i].Rank = i + 1
	}
	return recs
}

// PreRank orders candidate indexes by relevance without jitter or
// enrichment. The engine enriches only the head of this order.
func (s *Scorer) PreRank(items []catalog.Item, p *preference.Profile, v experiment.Variant) []int {
	year := s.now().Year()
	scores := make([]float64, len(items))
	order := make([]int, len(items))
	for i := range items {
		scores[i] = relevanceBase(&items[i], p, v, year)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

func (s *Scorer) jitter(n int) []float64 {
	out := make([]float64, n)
	s.rngMu.Lock()
	for i := range out {
		out[i] = s.rng.Float64() * jitterRange
	}
	s.rngMu.Unlock()
	return out
}

// relevanceBase is the relevance score before jitter.
func relevanceBase(it *catalog.Item, p *preference.Profile, v experiment.Variant, currentYear int) float64 {
	score := 0.0

	for _, code := range it.GenreCodes {
		if !p.HasGenre(code) {
			continue
		}
		score += genreMatchPoints
		if pr, ok := p.PriorityOf(code); ok && pr >= 1 && pr <= maxRankedPriority {
			score += float64(maxRankedPriority+1-pr) * priorityStep
		}
	}

	score += math.Min(it.Popularity/popularityDivisor, popularityCap)
	score += it.VoteAverage * relevanceVoteScale

	if it.ReleaseYear != nil {
		y := *it.ReleaseYear
		switch p.Era {
		case preference.EraNew:
			if y >= currentYear-newEraWindow {
				score += eraPoints
			}
		case preference.EraClassic:
			if y < classicEraUntil {
				score += eraPoints
			}
		}
	}

	if typeMatches(p.ContentType, it.MediaType) {
		if v == experiment.VariantB {
			score += typePointsEnhanced
		} else {
			score += typePointsStandard
		}
	}
	return score
}

func typeMatches(want preference.ContentType, got catalog.MediaType) bool {
	switch want {
	case preference.ContentMovie:
		return got == catalog.MediaMovie
	case preference.ContentTV:
		return got == catalog.MediaTV
	default:
		return true
	}
}

func rottenTomatoesPoints(rt *int) float64 {
	if rt == nil {
		return 0
	}
	switch {
	case *rt >= 90:
		return 25
	case *rt >= 75:
		return 15
	case *rt >= 60:
		return 5
	}
	return 0
}

func imdbPoints(r *float64) float64 {
	if r == nil {
		return 0
	}
	switch {
	case *r >= 8.5:
		return 25
	case *r >= 7.5:
		return 15
	case *r >= 6.5:
		return 5
	}
	return 0
}
