// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package discussion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/breaker"
)

const searchBody = `{
 "posts":[
  {"id":"a1","title":"Dune is a masterpiece","selftext":"loved it","ups":1200,"num_comments":340,"subreddit":"movies"},
  {"id":"a2","title":"Dune discussion","selftext":"","ups":50,"num_comments":12,"subreddit":"dune"}
 ],
 "commentsData":[
  {"postId":"a1","comments":[
    {"body":"great","ups":10,"replies":[{"body":"agreed","ups":2,"replies":[{"body":"same","ups":1}]}]},
    {"body":"boring","ups":1}
  ]}
 ]
}`

func TestClient_Search(t *testing.T) {
	t.Parallel()

	queries := make(chan url.Values, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		queries <- r.URL.Query()
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL + "/"}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	res, err := c.Search(context.Background(), "Dune 2021 movie", true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	q := <-queries
	if q.Get("q") != "Dune 2021 movie" || q.Get("comments") != "true" {
		t.Errorf("query = %v", q)
	}
	if len(res.Posts) != 2 {
		t.Fatalf("posts = %d", len(res.Posts))
	}
	p := res.Posts[0]
	if p.Body != "loved it" || p.Upvotes != 1200 || p.NumComments != 340 || p.Source != "movies" {
		t.Errorf("post = %+v", p)
	}

	flat := res.FlattenComments()
	var bodies []string
	for _, c := range flat {
		bodies = append(bodies, c.Body)
	}
	want := []string{"great", "agreed", "same", "boring"}
	if len(bodies) != len(want) {
		t.Fatalf("flattened = %v, want %v", bodies, want)
	}
	for i := range want {
		if bodies[i] != want[i] {
			t.Errorf("flattened[%d] = %q, want %q", i, bodies[i], want[i])
		}
	}
}

func TestClient_SearchErrors(t *testing.T) {
	t.Parallel()

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()
		if _, err := NewClient(Config{}, zerolog.Nop()); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("status", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream busy", http.StatusTooManyRequests)
		}))
		defer srv.Close()
		c, _ := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
		if _, err := c.Search(context.Background(), "x", false); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		c, _ := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := c.Search(ctx, "x", false)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("err = %v, want deadline exceeded", err)
		}
	})
}

func TestClient_RateLimited(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"posts":[]}`))
	}))
	defer srv.Close()

	// One token, refilled every 10s: the second call cannot get one in time.
	c, _ := NewClient(Config{BaseURL: srv.URL, RatePerSecond: 0.1, Burst: 1}, zerolog.Nop())

	if _, err := c.Search(context.Background(), "a", false); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := c.Search(ctx, "b", false); err == nil {
		t.Fatal("expected limiter to reject the second call")
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}

type stubSearcher struct {
	calls atomic.Int32
	err   error
}

func (s *stubSearcher) Search(context.Context, string, bool) (*SearchResult, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &SearchResult{Posts: []Post{{ID: "x"}}}, nil
}

func TestWithBreaker(t *testing.T) {
	t.Parallel()

	ok := WithBreaker(&stubSearcher{}, breaker.New("test-discussion-ok", breaker.DefaultSettings(), zerolog.Nop()))
	res, err := ok.Search(context.Background(), "q", false)
	if err != nil || len(res.Posts) != 1 {
		t.Fatalf("res=%v err=%v", res, err)
	}

	inner := &stubSearcher{err: errors.New("502")}
	bad := WithBreaker(inner, breaker.New("test-discussion-bad", breaker.DefaultSettings(), zerolog.Nop()))
	for i := 0; i < 10; i++ {
		_, _ = bad.Search(context.Background(), "q", false)
	}
	if _, err := bad.Search(context.Background(), "q", false); !errors.Is(err, breaker.ErrOpen) {
		t.Errorf("err = %v, want ErrOpen", err)
	}
	if n := inner.calls.Load(); n != 10 {
		t.Errorf("inner calls = %d, want 10", n)
	}
}
