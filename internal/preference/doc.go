// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package preference turns quiz answers into a structured viewing profile.

Extraction is a pure function over an ordered rule table. Each rule pairs a
topic predicate (does the question talk about mood, duration, era, content
type or genre?) with a value parser (does the answer say something this rule
understands?). For every answer, the first rule whose topic and value both
match sets its field. Answers are processed in order, so a later answer
overrides an earlier one for the same field.

Rule order:

 1. genre        explicit genrePriorities, otherwise genre names in the answer
 2. mood         happy, sad, excited, scared, thoughtful, relaxed, romantic
 3. duration     "90 minutes", "2 hours", short, standard, long
 4. era          new, classic, any
 5. content type movie, tvShow, both

The content type rule comes last because its topic words ("movie", "watch",
"show") appear in almost every question.

When no answer yields genres, the mood is mapped to a fixed genre set. A
profile with neither is valid; the aggregator broadens to popular titles.

Genre codes are TMDB movie genre ids.
*/
package preference
