// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/analytics"
	"github.com/tomtom215/cinequiz/internal/breaker"
	"github.com/tomtom215/cinequiz/internal/buzz"
	"github.com/tomtom215/cinequiz/internal/events"
	"github.com/tomtom215/cinequiz/internal/experiment"
	"github.com/tomtom215/cinequiz/internal/models"
	"github.com/tomtom215/cinequiz/internal/preference"
	"github.com/tomtom215/cinequiz/internal/recommend"
)

// ---- mocks ----

type mockRecommender struct {
	calls atomic.Int32
	err   error

	mu   sync.Mutex
	last recommend.Request
}

func (m *mockRecommender) GetRecommendations(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.last = req
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	variant := req.Strategy
	if variant == "" {
		variant = experiment.VariantA
	}
	session := req.SessionID
	if session == "" {
		session = "generated-session"
	}
	return &recommend.Response{
		SessionID:       session,
		Variant:         variant,
		Profile:         preference.Extract(req.Answers),
		Recommendations: []recommend.Recommendation{},
		Metadata:        recommend.ResponseMetadata{RequestID: req.RequestID},
	}, nil
}

func (m *mockRecommender) lastRequest() recommend.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

type mockBuzz struct {
	calls atomic.Int32

	mu        sync.Mutex
	lastReq   buzz.Request
	lastHints buzz.Hints
}

func (m *mockBuzz) Categorize(_ context.Context, req buzz.Request, hints buzz.Hints) buzz.Classification {
	m.calls.Add(1)
	m.mu.Lock()
	m.lastReq, m.lastHints = req, hints
	m.mu.Unlock()
	return buzz.Classification{
		Result:   buzz.Result{Level: buzz.LevelHigh, PostCount: 25},
		Category: buzz.CategoryTrendingPositive,
		Source:   buzz.SourceDiscussion,
	}
}

type mockSessions struct {
	assignments map[string]experiment.Assignment
	err         error
}

func (m *mockSessions) Lookup(_ context.Context, sessionID string) (experiment.Assignment, error) {
	if m.err != nil {
		return experiment.Assignment{}, m.err
	}
	a, ok := m.assignments[sessionID]
	if !ok {
		return experiment.Assignment{}, experiment.ErrAssignmentNotFound
	}
	return a, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, payload any) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, payload)
	return nil
}

type mockSummary struct {
	rows     []analytics.VariantSummary
	top      []analytics.ContentExposure
	err      error
	pingErr  error
	topCalls atomic.Int32
}

func (m *mockSummary) Summary(_ context.Context, baseline ...string) ([]analytics.VariantSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.rows != nil {
		return m.rows, nil
	}
	out := make([]analytics.VariantSummary, 0, len(baseline))
	for _, v := range baseline {
		out = append(out, analytics.VariantSummary{Variant: v})
	}
	return out, nil
}

func (m *mockSummary) TopContent(_ context.Context, _ string, limit int) ([]analytics.ContentExposure, error) {
	m.topCalls.Add(1)
	if len(m.top) > limit {
		return m.top[:limit], nil
	}
	return m.top, nil
}

func (m *mockSummary) Ping(context.Context) error { return m.pingErr }

// ---- helpers ----

type testEnv struct {
	rec      *mockRecommender
	buzz     *mockBuzz
	sessions *mockSessions
	pub      *recordingPublisher
	summary  *mockSummary
	breakers *breaker.Registry
	handler  http.Handler
}

func newTestEnv(t *testing.T, mutate func(*Deps)) *testEnv {
	t.Helper()

	env := &testEnv{
		rec:  &mockRecommender{},
		buzz: &mockBuzz{},
		sessions: &mockSessions{assignments: map[string]experiment.Assignment{
			"s-1": {SessionID: "s-1", Variant: experiment.VariantB, Source: experiment.SourceExplicit},
		}},
		pub:      &recordingPublisher{},
		summary:  &mockSummary{},
		breakers: breaker.NewRegistry(),
	}
	deps := Deps{
		Recommender:   env.rec,
		Buzz:          env.buzz,
		Sessions:      env.sessions,
		Publisher:     env.pub,
		Analytics:     env.summary,
		Breakers:      env.breakers,
		EventsBackend: "memory",
		Version:       "test",
	}
	if mutate != nil {
		mutate(&deps)
	}

	h, err := NewHandler(deps)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	env.handler = NewRouter(h, NewChiMiddleware(cfg)).SetupChi()
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
	return out
}

// ---- tests ----

func TestNewHandler_RequiredDeps(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Deps{Sessions: &mockSessions{}}); !errors.Is(err, ErrRecommenderRequired) {
		t.Errorf("err = %v, want ErrRecommenderRequired", err)
	}
	if _, err := NewHandler(Deps{Recommender: &mockRecommender{}}); !errors.Is(err, ErrSessionsRequired) {
		t.Errorf("err = %v, want ErrSessionsRequired", err)
	}
}

func TestPreferences(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	body := `{"answers":[
		{"question":"What genres do you enjoy?","answer":["comedy"],"genrePriorities":[{"genre":"Horror","priority":1}]},
		{"question":"Movie or TV show?","answer":"tv"}
	]}`
	rec, resp := env.do(t, http.MethodPost, "/api/v1/preferences", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp.Status != models.StatusSuccess {
		t.Errorf("status field = %q", resp.Status)
	}
	p := decodeData[PreferencesResponse](t, resp)
	if len(p.Genres) != 1 || p.Genres[0] != preference.GenreHorror {
		t.Errorf("genres = %v, want only horror from priorities", p.Genres)
	}
	if len(p.GenreNames) != 1 || p.GenreNames[0] != "Horror" {
		t.Errorf("genreNames = %v, want [Horror]", p.GenreNames)
	}
	if p.ContentType != preference.ContentTV {
		t.Errorf("contentType = %q, want tv", p.ContentType)
	}
	if rec.Header().Get("X-Request-ID") == "" || resp.Metadata.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("request id header %q, metadata %q", rec.Header().Get("X-Request-ID"), resp.Metadata.RequestID)
	}
}

func TestPreferences_EmptyAnswersUseDefaults(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/preferences", `{"answers":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	p := decodeData[preference.Profile](t, resp)
	def := preference.Extract(nil)
	if p.ContentType != def.ContentType || p.Era != def.Era || p.Duration != def.Duration {
		t.Errorf("profile = %+v, want defaults %+v", p, def)
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	body := `{"sessionId":"s-9","strategy":"enhanced","answers":[{"question":"Mood?","answer":"funny"}]}`
	rec, resp := env.do(t, http.MethodPost, "/api/v1/recommendations", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeData[recommend.Response](t, resp)
	if got.SessionID != "s-9" || got.Variant != experiment.VariantB {
		t.Errorf("session/variant = %s/%s, want s-9/B", got.SessionID, got.Variant)
	}
	if got.Recommendations == nil {
		t.Error("recommendations must encode as [] not null")
	}

	last := env.rec.lastRequest()
	if last.Strategy != experiment.VariantB {
		t.Errorf("engine strategy = %q, want B", last.Strategy)
	}
	if last.RequestID == "" || last.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("engine request id %q should match header %q", last.RequestID, rec.Header().Get("X-Request-ID"))
	}
	if len(last.Answers) != 1 || last.Answers[0].Answer.Text() != "funny" {
		t.Errorf("answers = %+v", last.Answers)
	}
}

func TestRecommendations_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "empty body", body: "", code: ErrCodeInvalidJSON},
		{name: "not json", body: "answers=1", code: ErrCodeInvalidJSON},
		{name: "unknown field", body: `{"answers":[],"userId":1}`, code: ErrCodeInvalidJSON},
		{name: "bad strategy", body: `{"answers":[],"strategy":"C"}`, code: ErrCodeValidation},
		{name: "answer without question", body: `{"answers":[{"answer":"x"}]}`, code: ErrCodeValidation},
		{name: "priority out of range", body: `{"answers":[{"question":"genres","answer":"x","genrePriorities":[{"genre":"Drama","priority":0}]}]}`, code: ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)

			rec, resp := env.do(t, http.MethodPost, "/api/v1/recommendations", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
			}
			if resp.Status != models.StatusError || resp.Error == nil || resp.Error.Code != tt.code {
				t.Fatalf("error = %+v, want code %s", resp.Error, tt.code)
			}
			if env.rec.calls.Load() != 0 {
				t.Error("engine must not be called for invalid input")
			}
		})
	}
}

func TestRecommendations_CancelledRequest(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.rec.err = context.Canceled

	rec, resp := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"answers":[]}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeRequestCancelled {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestBuzz(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/buzz?title=Dune&year=2021&type=movie&rating=8.1&critic=83&genres=878,%2012", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	c := decodeData[buzz.Classification](t, resp)
	if c.Category != buzz.CategoryTrendingPositive || c.Result.Level != buzz.LevelHigh {
		t.Errorf("classification = %+v", c)
	}

	env.buzz.mu.Lock()
	defer env.buzz.mu.Unlock()
	if env.buzz.lastReq.Title != "Dune" || env.buzz.lastReq.Year != 2021 || env.buzz.lastReq.MediaType != "movie" {
		t.Errorf("request = %+v", env.buzz.lastReq)
	}
	h := env.buzz.lastHints
	if h.ReleaseYear != 2021 || h.Rating != 8.1 || h.CriticScore != 83 || len(h.GenreCodes) != 2 || h.GenreCodes[1] != 12 {
		t.Errorf("hints = %+v", h)
	}
}

func TestBuzz_Validation(t *testing.T) {
	t.Parallel()

	for _, target := range []string{
		"/api/v1/buzz",
		"/api/v1/buzz?title=%20",
		"/api/v1/buzz?title=Dune&type=podcast",
		"/api/v1/buzz?title=Dune&rating=11",
		"/api/v1/buzz?title=Dune&critic=101",
	} {
		t.Run(target, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)
			rec, resp := env.do(t, http.MethodGet, target, "")
			if rec.Code != http.StatusBadRequest || resp.Error == nil || resp.Error.Code != ErrCodeValidation {
				t.Fatalf("status = %d, error = %+v", rec.Code, resp.Error)
			}
			if env.buzz.calls.Load() != 0 {
				t.Error("classifier must not be called")
			}
		})
	}
}

func TestBuzz_NotConfigured(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, func(d *Deps) { d.Buzz = nil })

	rec, _ := env.do(t, http.MethodGet, "/api/v1/buzz?title=Dune", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/experiments/sessions/s-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	a := decodeData[experiment.Assignment](t, resp)
	if a.Variant != experiment.VariantB || a.SessionID != "s-1" {
		t.Errorf("assignment = %+v", a)
	}

	rec, resp = env.do(t, http.MethodGet, "/api/v1/experiments/sessions/unknown", "")
	if rec.Code != http.StatusNotFound || resp.Error == nil || resp.Error.Code != ErrCodeSessionNotFound {
		t.Errorf("unknown session: status = %d, error = %+v", rec.Code, resp.Error)
	}
}

func TestSession_StoreFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.sessions.err = errors.New("badger: closed")

	rec, _ := env.do(t, http.MethodGet, "/api/v1/experiments/sessions/s-1", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestFeedback(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/experiments/feedback", `{"sessionId":"s-1","contentId":603,"liked":false}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeData[FeedbackAccepted](t, resp)
	if got.Variant != experiment.VariantB || got.ContentID != 603 {
		t.Errorf("accepted = %+v", got)
	}

	env.pub.mu.Lock()
	defer env.pub.mu.Unlock()
	if len(env.pub.events) != 1 || env.pub.topics[0] != events.TopicFeedback {
		t.Fatalf("published %v", env.pub.topics)
	}
	evt, ok := env.pub.events[0].(events.FeedbackEvent)
	if !ok {
		t.Fatalf("payload type %T", env.pub.events[0])
	}
	if evt.Variant != "B" || evt.Liked || evt.ContentID != 603 || evt.OccurredAt.IsZero() {
		t.Errorf("event = %+v", evt)
	}
}

func TestFeedback_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		pubErr  error
		status  int
		errCode string
	}{
		{name: "missing liked", body: `{"sessionId":"s-1","contentId":1}`, status: http.StatusBadRequest, errCode: ErrCodeValidation},
		{name: "missing content", body: `{"sessionId":"s-1","liked":true}`, status: http.StatusBadRequest, errCode: ErrCodeValidation},
		{name: "unknown session", body: `{"sessionId":"nope","contentId":1,"liked":true}`, status: http.StatusNotFound, errCode: ErrCodeSessionNotFound},
		{name: "publish failure", body: `{"sessionId":"s-1","contentId":1,"liked":true}`, pubErr: events.ErrBusClosed, status: http.StatusServiceUnavailable, errCode: ErrCodeEventsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)
			env.pub.err = tt.pubErr

			rec, resp := env.do(t, http.MethodPost, "/api/v1/experiments/feedback", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if resp.Error == nil || resp.Error.Code != tt.errCode {
				t.Errorf("error = %+v, want %s", resp.Error, tt.errCode)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.summary.top = []analytics.ContentExposure{{ContentID: 1, Shown: 5}, {ContentID: 2, Shown: 3}}

	rec, resp := env.do(t, http.MethodGet, "/api/v1/experiments/summary?top=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeData[ExperimentSummary](t, resp)
	if len(got.Variants) != 2 || got.Variants[0].Variant != "A" || got.Variants[1].Variant != "B" {
		t.Errorf("variants = %+v", got.Variants)
	}
	if len(got.TopContent["A"]) != 1 || env.summary.topCalls.Load() != 2 {
		t.Errorf("topContent = %+v, calls = %d", got.TopContent, env.summary.topCalls.Load())
	}
}

func TestSummary_Errors(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, func(d *Deps) { d.Analytics = nil })
		rec, resp := env.do(t, http.MethodGet, "/api/v1/experiments/summary", "")
		if rec.Code != http.StatusServiceUnavailable || resp.Error.Code != ErrCodeAnalyticsDisabled {
			t.Errorf("status = %d, error = %+v", rec.Code, resp.Error)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		env.summary.err = analytics.ErrStoreClosed
		rec, resp := env.do(t, http.MethodGet, "/api/v1/experiments/summary", "")
		if rec.Code != http.StatusInternalServerError || resp.Error.Code != ErrCodeDatabaseError {
			t.Errorf("status = %d, error = %+v", rec.Code, resp.Error)
		}
	})

	t.Run("top out of range", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		rec, _ := env.do(t, http.MethodGet, "/api/v1/experiments/summary?top=500", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.breakers.Register(breaker.New("api-health-catalog", breaker.DefaultSettings(), zerolog.Nop()))

	rec, resp := env.do(t, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	h := decodeData[models.HealthStatus](t, resp)
	if h.Status != "healthy" || h.Version != "test" || h.EventsBackend != "memory" {
		t.Errorf("health = %+v", h)
	}
	if len(h.Upstreams) != 1 || h.Upstreams[0].State != "closed" {
		t.Errorf("upstreams = %+v", h.Upstreams)
	}
	if h.Analytics == nil || !h.Analytics.Healthy {
		t.Errorf("analytics = %+v", h.Analytics)
	}
}

func TestHealth_DegradedWhenBreakerOpen(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	b := breaker.New("api-health-open", breaker.DefaultSettings(), zerolog.Nop())
	for i := 0; i < 10; i++ {
		_, _ = breaker.Do(b, func() (int, error) { return 0, errors.New("down") })
	}
	env.breakers.Register(b)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health must answer 200 even when degraded, got %d", rec.Code)
	}
	if h := decodeData[models.HealthStatus](t, resp); h.Status != "degraded" {
		t.Errorf("status = %q, want degraded", h.Status)
	}
}

func TestHealth_DegradedWhenAnalyticsDown(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.summary.pingErr = analytics.ErrStoreClosed

	_, resp := env.do(t, http.MethodGet, "/api/v1/health", "")
	h := decodeData[models.HealthStatus](t, resp)
	if h.Status != "degraded" || h.Analytics == nil || h.Analytics.Healthy || h.Analytics.Error == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestHealthLive(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK || resp.Status != models.StatusSuccess {
		t.Errorf("status = %d / %q", rec.Code, resp.Status)
	}
}

// Compile-time check that the production types satisfy the handler interfaces.
var (
	_ Recommender     = (*recommend.Engine)(nil)
	_ BuzzCategorizer = (*buzz.Classifier)(nil)
	_ SessionLookup   = (*experiment.Selector)(nil)
	_ SummaryStore    = (*analytics.Store)(nil)
	_ BreakerStatuses = (*breaker.Registry)(nil)
)
