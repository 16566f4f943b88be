// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package recommend scores and ranks catalog candidates for a quiz profile.
//
// # Pipeline
//
// Engine.GetRecommendations runs one request end to end:
//
//   - Extract a preference profile from the quiz answers
//   - Assign the session to variant A (standard) or B (enhanced)
//   - Collect candidates from the catalog through the aggregator
//   - Pre-rank by relevance and enrich the head with buzz and critic scores
//   - Score, sort and truncate to the variant's list length
//   - Publish an exposure event for the analytics pipeline
//
// # Scoring
//
// Relevance combines genre matches (with a bonus for explicitly ranked
// genres), popularity, audience rating, era fit, content-type fit and a
// small random jitter. The final score weights relevance at 0.6 and adds the
// rating plus buzz, Rotten Tomatoes and IMDb points. Sorting is stable, so
// exact ties keep their candidate order.
//
// # Determinism
//
// Jitter comes from a seeded RNG guarded by a mutex. Setting Config.Seed, or
// passing WithScorerRand, makes a Scorer reproducible.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Deps{
//	    Selector:   selector,
//	    Aggregator: aggregator,
//	    Buzz:       classifier,
//	    Critic:     omdb,
//	    Publisher:  bus,
//	}, logger)
//
//	resp, err := engine.GetRecommendations(ctx, recommend.Request{
//	    SessionID: sessionID,
//	    Answers:   answers,
//	})
package recommend
