// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package preference

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// ContentType is the kind of title the user wants.
type ContentType string

const (
	ContentMovie ContentType = "movie"
	ContentTV    ContentType = "tvShow"
	ContentBoth  ContentType = "both"
)

// Era is the user's recency preference.
type Era string

const (
	EraAny     Era = "any"
	EraNew     Era = "new"
	EraClassic Era = "classic"
)

// DefaultDuration is the runtime assumed when no answer mentions one.
const DefaultDuration = 120

// Values is a quiz answer. It decodes from a JSON string or array of strings.
type Values []string

// UnmarshalJSON accepts "x", ["x", "y"] or null.
func (v *Values) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return fmt.Errorf("decode answer: %w", err)
		}
		*v = Values{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("answer must be a string or an array of strings: %w", err)
	}
	*v = many
	return nil
}

// Text joins all values with spaces, lowercased.
func (v Values) Text() string {
	return strings.ToLower(strings.Join(v, " "))
}

// GenrePriority is a user-ranked genre name. Priority 1 is most important.
type GenrePriority struct {
	Genre    string `json:"genre" validate:"required,max=64"`
	Priority int    `json:"priority" validate:"min=1,max=20"`
}

// Answer is one quiz question and the user's response.
type Answer struct {
	Question        string          `json:"question" validate:"required,max=500"`
	Answer          Values          `json:"answer" validate:"max=20,dive,max=200"`
	GenrePriorities []GenrePriority `json:"genrePriorities,omitempty" validate:"max=20,dive"`
}

// RankedGenre is a genre code with its user-assigned priority.
type RankedGenre struct {
	Code     int `json:"code"`
	Priority int `json:"priority"`
}

// Profile is the structured result of a quiz. It is never mutated after
// Extract returns it.
type Profile struct {
	// Mood is the canonical mood keyword, or empty.
	Mood string `json:"mood"`

	// ContentType restricts media type. ContentBoth means no restriction.
	ContentType ContentType `json:"contentType"`

	// Genres is the set of genre codes, ascending.
	Genres []int `json:"genres"`

	// GenrePriorities is set only when the user ranked genres explicitly,
	// ordered by ascending priority.
	GenrePriorities []RankedGenre `json:"genrePriorities,omitempty"`

	// Era is the recency preference.
	Era Era `json:"era"`

	// Duration is the preferred runtime in minutes.
	Duration int `json:"duration"`
}

// HasGenre reports whether code is in the profile's genre set.
func (p *Profile) HasGenre(code int) bool {
	i := sort.SearchInts(p.Genres, code)
	return i < len(p.Genres) && p.Genres[i] == code
}

// PriorityOf returns the explicit priority of code, if one was given.
func (p *Profile) PriorityOf(code int) (int, bool) {
	for _, g := range p.GenrePriorities {
		if g.Code == code {
			return g.Priority, true
		}
	}
	return 0, false
}

// GenresByPriority returns the genre codes with explicitly ranked genres
// first (by priority) followed by the rest ascending.
func (p *Profile) GenresByPriority() []int {
	out := make([]int, 0, len(p.Genres))
	seen := make(map[int]struct{}, len(p.Genres))
	for _, g := range p.GenrePriorities {
		if _, dup := seen[g.Code]; dup || !p.HasGenre(g.Code) {
			continue
		}
		seen[g.Code] = struct{}{}
		out = append(out, g.Code)
	}
	for _, code := range p.Genres {
		if _, dup := seen[code]; !dup {
			out = append(out, code)
		}
	}
	return out
}

// WantsMovies reports whether movies should be queried.
func (p *Profile) WantsMovies() bool { return p.ContentType != ContentTV }

// WantsTV reports whether TV shows should be queried.
func (p *Profile) WantsTV() bool { return p.ContentType != ContentMovie }
