// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package preference

import "strings"

// TMDB movie genre ids.
const (
	GenreAction      = 28
	GenreAdventure   = 12
	GenreAnimation   = 16
	GenreComedy      = 35
	GenreCrime       = 80
	GenreDocumentary = 99
	GenreDrama       = 18
	GenreFamily      = 10751
	GenreFantasy     = 14
	GenreHistory     = 36
	GenreHorror      = 27
	GenreMusic       = 10402
	GenreMystery     = 9648
	GenreRomance     = 10749
	GenreSciFi       = 878
	GenreThriller    = 53
	GenreWar         = 10752
	GenreWestern     = 37
	GenreTVMovie     = 10770
)

// genreNames maps normalized genre names (and common aliases) to codes.
var genreNames = map[string]int{
	"action":          GenreAction,
	"adventure":       GenreAdventure,
	"animation":       GenreAnimation,
	"animated":        GenreAnimation,
	"anime":           GenreAnimation,
	"comedy":          GenreComedy,
	"comedies":        GenreComedy,
	"crime":           GenreCrime,
	"documentary":     GenreDocumentary,
	"documentaries":   GenreDocumentary,
	"drama":           GenreDrama,
	"dramas":          GenreDrama,
	"family":          GenreFamily,
	"fantasy":         GenreFantasy,
	"history":         GenreHistory,
	"historical":      GenreHistory,
	"horror":          GenreHorror,
	"music":           GenreMusic,
	"musical":         GenreMusic,
	"mystery":         GenreMystery,
	"romance":         GenreRomance,
	"sci-fi":          GenreSciFi,
	"scifi":           GenreSciFi,
	"science fiction": GenreSciFi,
	"thriller":        GenreThriller,
	"thrillers":       GenreThriller,
	"war":             GenreWar,
	"western":         GenreWestern,
	"westerns":        GenreWestern,
	"tv movie":        GenreTVMovie,
}

// GenreCode looks up a genre name. Matching ignores case and surrounding
// whitespace.
func GenreCode(name string) (int, bool) {
	code, ok := genreNames[normalize(name)]
	return code, ok
}

// GenreName returns the canonical name for a code, or "" if unknown.
func GenreName(code int) string {
	return canonicalNames[code]
}

var canonicalNames = map[int]string{
	GenreAction:      "Action",
	GenreAdventure:   "Adventure",
	GenreAnimation:   "Animation",
	GenreComedy:      "Comedy",
	GenreCrime:       "Crime",
	GenreDocumentary: "Documentary",
	GenreDrama:       "Drama",
	GenreFamily:      "Family",
	GenreFantasy:     "Fantasy",
	GenreHistory:     "History",
	GenreHorror:      "Horror",
	GenreMusic:       "Music",
	GenreMystery:     "Mystery",
	GenreRomance:     "Romance",
	GenreSciFi:       "Science Fiction",
	GenreThriller:    "Thriller",
	GenreWar:         "War",
	GenreWestern:     "Western",
	GenreTVMovie:     "TV Movie",
}

// moodGenres is the fallback used when the quiz yields no genres.
var moodGenres = map[string][]int{
	"happy":      {GenreComedy, GenreFamily, GenreAnimation},
	"sad":        {GenreDrama, GenreRomance},
	"excited":    {GenreAction, GenreAdventure},
	"scared":     {GenreHorror, GenreThriller},
	"thoughtful": {GenreDocumentary, GenreMystery, GenreSciFi},
	"relaxed":    {GenreComedy, GenreRomance},
	"romantic":   {GenreRomance, GenreDrama},
}

// MoodGenres returns the genre codes associated with a mood.
func MoodGenres(mood string) []int {
	codes := moodGenres[mood]
	out := make([]int, len(codes))
	copy(out, codes)
	return out
}

// moodKeywords is checked in order; the first mood with a matching word wins.
var moodKeywords = []struct {
	mood  string
	words []string
}{
	{"happy", []string{"happy", "cheerful", "upbeat", "joyful", "uplifting", "lighthearted", "light-hearted"}},
	{"sad", []string{"sad", "melancholy", "melancholic", "blue", "down", "emotional", "gloomy"}},
	{"excited", []string{"excited", "energetic", "adventurous", "pumped", "thrilled", "hyped", "adrenaline"}},
	{"scared", []string{"scared", "spooky", "frightened", "creepy", "scary", "terrified"}},
	{"thoughtful", []string{"thoughtful", "curious", "reflective", "contemplative", "intellectual", "pensive"}},
	{"relaxed", []string{"relaxed", "chill", "calm", "cozy", "laid-back", "mellow", "lazy"}},
	{"romantic", []string{"romantic", "love", "lovey", "date night", "in love"}},
}

// normalize lowercases s and collapses every run of characters other than
// letters, digits and hyphens into a single space.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range strings.ToLower(strings.ReplaceAll(s, "’", "'")) {
		isWord := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '\'' || r > 127
		if isWord {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// containsPhrase reports whether phrase occurs in text on word boundaries.
// Both arguments must already be normalized.
func containsPhrase(text, phrase string) bool {
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}
