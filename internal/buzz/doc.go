// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package buzz classifies how much, and how favourably, people are talking
about a title.

Classify searches the discussion proxy for "<title> [year] movie|tv show"
and reduces the posts to a Result:

  - Level from volume: High when posts >= 20, upvotes >= 5000 or comments
    >= 1000; Medium when posts >= 8, upvotes >= 1000 or comments >= 200;
    Low otherwise.
  - Sentiment from the mean comparative score of every post's title and
    body: Positive at >= 0.2, Negative at <= -0.2, Neutral in between.
  - Comment sentiment, when comment trees were fetched, from the same
    reduction over every comment body.

Results are cached per (title, year, media type). Failures are returned as
Level Unknown with Error set and are not cached, so the next request
retries.

Categorize turns a Result into one of the enhanced categories (Trending
Positive, Trending Negative, Popular Discussion, Controversial, Niche
Interest, Low Buzz). When the proxy failed it falls back to a heuristic over
release year, rating, critic score and genre. Neither call ever fails.
*/
package buzz
