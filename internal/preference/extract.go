// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package preference

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// rule sets one profile field from an answer. apply returns false when the
// answer holds no value the rule understands, letting the next rule try.
type rule struct {
	field string
	topic []string
	apply func(p *Profile, a *Answer) bool
}

// rules is evaluated top to bottom for every answer.
var rules = []rule{
	{field: "genre", topic: []string{"genre"}, apply: applyGenre},
	{field: "mood", topic: []string{"mood", "feel"}, apply: applyMood},
	{field: "duration", topic: []string{"long", "time", "duration", "length", "hour", "minute", "runtime"}, apply: applyDuration},
	{field: "era", topic: []string{"new", "recent", "old", "classic", "era", "release", "decade", "period", "year"}, apply: applyEra},
	{field: "contentType", topic: []string{"movie", "tv", "show", "series", "film", "watch"}, apply: applyContentType},
}

// Extract builds a Profile from quiz answers. It never fails; unanswered
// topics keep their defaults.
func Extract(answers []Answer) Profile {
	p := Profile{
		ContentType: ContentBoth,
		Genres:      []int{},
		Era:         EraAny,
		Duration:    DefaultDuration,
	}

	for i := range answers {
		a := &answers[i]
		words := strings.Fields(normalize(a.Question))
		for _, r := range rules {
			if topicMatches(words, r.topic) && r.apply(&p, a) {
				break
			}
		}
	}

	if len(p.Genres) == 0 && p.Mood != "" {
		p.Genres = sortedSet(MoodGenres(p.Mood))
	}
	return p
}

// topicMatches reports whether any question word starts with a topic word,
// so "feeling" matches "feel" and "shows" matches "show".
func topicMatches(words, topic []string) bool {
	for _, w := range words {
		for _, t := range topic {
			if strings.HasPrefix(w, t) {
				return true
			}
		}
	}
	return false
}

func applyGenre(p *Profile, a *Answer) bool {
	// Explicit priorities are authoritative for this answer.
	if len(a.GenrePriorities) > 0 {
		ranked := make([]RankedGenre, 0, len(a.GenrePriorities))
		seen := make(map[int]struct{}, len(a.GenrePriorities))
		for _, gp := range a.GenrePriorities {
			code, ok := GenreCode(gp.Genre)
			if !ok {
				continue
			}
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			ranked = append(ranked, RankedGenre{Code: code, Priority: gp.Priority})
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Priority < ranked[j].Priority })

		codes := make([]int, 0, len(ranked))
		for _, g := range ranked {
			codes = append(codes, g.Code)
		}
		p.Genres = sortedSet(codes)
		p.GenrePriorities = ranked
		return true
	}

	codes := scanGenres(normalize(strings.Join(a.Answer, " ")))
	if len(codes) == 0 {
		return false
	}
	p.Genres = sortedSet(codes)
	p.GenrePriorities = nil
	return true
}

func scanGenres(text string) []int {
	var codes []int
	for name, code := range genreNames {
		if containsPhrase(text, name) {
			codes = append(codes, code)
		}
	}
	return codes
}

func applyMood(p *Profile, a *Answer) bool {
	text := normalize(strings.Join(a.Answer, " "))
	for _, m := range moodKeywords {
		for _, w := range m.words {
			if containsPhrase(text, w) {
				p.Mood = m.mood
				return true
			}
		}
	}
	return false
}

var (
	explicitDuration = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)\b`)
	// "1h30m" becomes "1h 30m" so each unit ends on a word boundary.
	unitThenDigit = regexp.MustCompile(`([a-z])(\d)`)
	// Text allowed between the hours and minutes of one compound duration.
	durationJoiner = regexp.MustCompile(`^[\s,]*(?:and\s*)?$`)
)

// parseDuration reads an explicit running time in minutes. An hours term
// directly followed by a minutes term ("1 hour 30 minutes", "1h30m",
// "2 hours and 15 mins") is one duration; otherwise the first term wins.
func parseDuration(raw string) (int, bool) {
	text := unitThenDigit.ReplaceAllString(strings.ToLower(raw), "$1 $2")
	idx := explicitDuration.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return 0, false
	}

	term := func(m []int) (float64, bool) {
		n, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
		return n, err == nil && n > 0
	}
	isHours := func(m []int) bool { return text[m[4]] == 'h' }

	first := idx[0]
	total, ok := term(first)
	if !ok {
		return 0, false
	}
	if isHours(first) {
		total *= 60
		if len(idx) > 1 {
			next := idx[1]
			if mins, ok := term(next); ok && !isHours(next) && durationJoiner.MatchString(text[first[1]:next[0]]) {
				total += mins
			}
		}
	}
	return int(math.Round(total)), true
}

func applyDuration(p *Profile, a *Answer) bool {
	raw := a.Answer.Text()
	if minutes, ok := parseDuration(raw); ok {
		p.Duration = minutes
		return true
	}

	text := normalize(raw)
	switch {
	case anyPhrase(text, "short", "quick", "brief"):
		p.Duration = 90
	case anyPhrase(text, "standard", "average", "normal", "regular"):
		p.Duration = 120
	case anyPhrase(text, "long", "epic", "lengthy"):
		p.Duration = 180
	default:
		return false
	}
	return true
}

func applyEra(p *Profile, a *Answer) bool {
	text := normalize(strings.Join(a.Answer, " "))
	isNew := anyPhrase(text, "new", "newer", "newest", "recent", "latest", "modern")
	isClassic := anyPhrase(text, "classic", "classics", "old", "older", "oldies", "retro", "vintage")

	switch {
	case anyPhrase(text, "any", "no preference", "doesn't matter", "either", "whatever"), isNew && isClassic:
		p.Era = EraAny
	case isNew:
		p.Era = EraNew
	case isClassic:
		p.Era = EraClassic
	default:
		return false
	}
	return true
}

func applyContentType(p *Profile, a *Answer) bool {
	text := normalize(strings.Join(a.Answer, " "))
	film := anyPhrase(text, "movie", "movies", "film", "films", "cinema")
	tv := anyPhrase(text, "tv", "show", "shows", "series", "episodes", "sitcom")

	switch {
	case anyPhrase(text, "both", "either", "any", "no preference", "doesn't matter"), film && tv:
		p.ContentType = ContentBoth
	case film:
		p.ContentType = ContentMovie
	case tv:
		p.ContentType = ContentTV
	default:
		return false
	}
	return true
}

func anyPhrase(text string, phrases ...string) bool {
	for _, ph := range phrases {
		if containsPhrase(text, ph) {
			return true
		}
	}
	return false
}

func sortedSet(codes []int) []int {
	out := make([]int, 0, len(codes))
	seen := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}
