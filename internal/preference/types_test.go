// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package preference

import (
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func TestValues_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Values
		wantErr bool
	}{
		{name: "string", input: `{"question":"q","answer":"Movies"}`, want: Values{"Movies"}},
		{name: "array", input: `{"question":"q","answer":["Action","Drama"]}`, want: Values{"Action", "Drama"}},
		{name: "null", input: `{"question":"q","answer":null}`, want: nil},
		{name: "missing", input: `{"question":"q"}`, want: nil},
		{name: "number", input: `{"question":"q","answer":42}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var a Answer
			err := json.Unmarshal([]byte(tt.input), &a)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(a.Answer, tt.want) {
				t.Errorf("Answer = %#v, want %#v", a.Answer, tt.want)
			}
		})
	}
}

func TestProfile_GenresByPriority(t *testing.T) {
	t.Parallel()

	p := Profile{
		Genres:          []int{GenreAdventure, GenreComedy, GenreAction, GenreDrama},
		GenrePriorities: []RankedGenre{{Code: GenreDrama, Priority: 1}, {Code: GenreAction, Priority: 2}},
	}
	// Genres must be sorted for HasGenre.
	p.Genres = sortedSet(p.Genres)

	want := []int{GenreDrama, GenreAction, GenreAdventure, GenreComedy}
	if got := p.GenresByPriority(); !reflect.DeepEqual(got, want) {
		t.Errorf("GenresByPriority = %v, want %v", got, want)
	}
}

func TestProfile_Wants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ct          ContentType
		movies, tv bool
	}{
		{ContentMovie, true, false},
		{ContentTV, false, true},
		{ContentBoth, true, true},
	}
	for _, tt := range tests {
		p := Profile{ContentType: tt.ct}
		if p.WantsMovies() != tt.movies || p.WantsTV() != tt.tv {
			t.Errorf("%s: movies=%v tv=%v", tt.ct, p.WantsMovies(), p.WantsTV())
		}
	}
}

func TestGenreCode(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Action", " science fiction ", "SCI-FI", "Documentary"} {
		if _, ok := GenreCode(name); !ok {
			t.Errorf("GenreCode(%q) not found", name)
		}
	}
	if _, ok := GenreCode("telenovela"); ok {
		t.Error("unexpected match for unknown genre")
	}
	if GenreName(GenreSciFi) != "Science Fiction" {
		t.Errorf("GenreName = %q", GenreName(GenreSciFi))
	}
}
