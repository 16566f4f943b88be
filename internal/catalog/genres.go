// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package catalog

// TMDB TV-only genre ids.
const (
	TVGenreActionAdventure = 10759
	TVGenreSciFiFantasy    = 10765
	TVGenreWarPolitics     = 10768
)

// movieToTV maps movie genre ids onto the merged TV genre that contains them.
var movieToTV = map[int]int{
	28:    TVGenreActionAdventure,
	12:    TVGenreActionAdventure,
	878:   TVGenreSciFiFantasy,
	14:    TVGenreSciFiFantasy,
	10752: TVGenreWarPolitics,
}

// tvToMovie is the reverse expansion.
var tvToMovie = map[int][]int{
	TVGenreActionAdventure: {28, 12},
	TVGenreSciFiFantasy:    {878, 14},
	TVGenreWarPolitics:     {10752},
}

// toTVGenres rewrites movie genre ids for a TV discovery query, dropping
// duplicates created by the merge.
func toTVGenres(codes []int) []int {
	out := make([]int, 0, len(codes))
	seen := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		if tv, ok := movieToTV[c]; ok {
			c = tv
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// expandTVGenres keeps the TV ids and appends their movie equivalents so the
// scorer can match a TV show against a movie-coded profile.
func expandTVGenres(codes []int) []int {
	if len(codes) == 0 {
		return codes
	}
	out := make([]int, 0, len(codes)+2)
	seen := make(map[int]struct{}, len(codes)+2)
	add := func(c int) {
		if _, dup := seen[c]; !dup {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	for _, c := range codes {
		add(c)
	}
	for _, c := range codes {
		for _, m := range tvToMovie[c] {
			add(m)
		}
	}
	return out
}
