// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

// recordingSink collects events and can fail the first N calls.
type recordingSink struct {
	mu          sync.Mutex
	assignments []AssignmentEvent
	exposures   []ExposureEvent
	feedback    []FeedbackEvent

	failFirst atomic.Int32
	calls     atomic.Int32
}

func (s *recordingSink) fail() error {
	s.calls.Add(1)
	if s.failFirst.Load() > 0 {
		s.failFirst.Add(-1)
		return errors.New("transient")
	}
	return nil
}

func (s *recordingSink) RecordAssignment(_ context.Context, e AssignmentEvent) error {
	if err := s.fail(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, e)
	return nil
}

func (s *recordingSink) RecordExposure(_ context.Context, e ExposureEvent) error {
	if err := s.fail(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exposures = append(s.exposures, e)
	return nil
}

func (s *recordingSink) RecordFeedback(_ context.Context, e FeedbackEvent) error {
	if err := s.fail(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, e)
	return nil
}

func (s *recordingSink) counts() (int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assignments), len(s.exposures), len(s.feedback)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func startRouter(t *testing.T, bus *Bus, sink Sink) {
	t.Helper()

	cfg := DefaultRouterConfig()
	cfg.RetryInitialInterval = time.Millisecond
	router, err := NewRouter(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	router.RegisterSink(bus.Subscriber(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = router.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
}

func TestMemoryBus_SurvivesRouterRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	bus, err := NewBus(ctx, DefaultConfig(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	first, err := NewRouter(DefaultRouterConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	first.RegisterSink(bus.Subscriber(), &recordingSink{})
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = first.Run(runCtx)
	}()
	<-first.Running()
	cancel()
	<-done
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sink := &recordingSink{}
	startRouter(t, bus, sink)
	if err := bus.Publish(ctx, TopicFeedback, FeedbackEvent{SessionID: "s2", ContentID: 3, Variant: "B"}); err != nil {
		t.Fatalf("publish after restart: %v", err)
	}
	waitFor(t, func() bool {
		_, _, f := sink.counts()
		return f == 1
	})
}

func TestMemoryBus_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	bus, err := NewBus(ctx, DefaultConfig(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	sink := &recordingSink{}
	startRouter(t, bus, sink)

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := bus.Publish(ctx, TopicAssignment, AssignmentEvent{SessionID: "s1", Variant: "A", Source: "random", AssignedAt: now}); err != nil {
		t.Fatalf("publish assignment: %v", err)
	}
	if err := bus.Publish(ctx, TopicExposure, ExposureEvent{
		SessionID: "s1", Variant: "A", RequestID: "r1",
		Items: []ExposedItem{{ContentID: 7, MediaType: "movie", Rank: 1, Score: 80}},
	}); err != nil {
		t.Fatalf("publish exposure: %v", err)
	}
	if err := bus.Publish(ctx, TopicFeedback, FeedbackEvent{SessionID: "s1", ContentID: 7, Variant: "A", Liked: true}); err != nil {
		t.Fatalf("publish feedback: %v", err)
	}

	waitFor(t, func() bool {
		a, e, f := sink.counts()
		return a == 1 && e == 1 && f == 1
	})

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if got := sink.assignments[0]; got.SessionID != "s1" || !got.AssignedAt.Equal(now) {
		t.Errorf("assignment = %+v", got)
	}
	if got := sink.exposures[0]; len(got.Items) != 1 || got.Items[0].ContentID != 7 {
		t.Errorf("exposure = %+v", got)
	}
	if !sink.feedback[0].Liked {
		t.Error("feedback lost Liked flag")
	}
}

func TestRouter_RetriesSinkErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	bus, err := NewBus(ctx, DefaultConfig(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	sink := &recordingSink{}
	sink.failFirst.Store(2)
	startRouter(t, bus, sink)

	if err := bus.Publish(ctx, TopicFeedback, FeedbackEvent{SessionID: "s", ContentID: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	waitFor(t, func() bool {
		_, _, f := sink.counts()
		return f == 1
	})
	if n := sink.calls.Load(); n != 3 {
		t.Errorf("sink called %d times, want 3", n)
	}
}

func TestConsume_MalformedPayloadIsAcked(t *testing.T) {
	t.Parallel()

	var called atomic.Bool
	handler := consume(zerolog.Nop(), TopicExposure, func(context.Context, ExposureEvent) error {
		called.Store(true)
		return nil
	})

	msg := message.NewMessage("bad", []byte("{not json"))
	if err := handler(msg); err != nil {
		t.Errorf("malformed message should be acked, got %v", err)
	}
	if called.Load() {
		t.Error("sink should not be called for malformed payloads")
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	t.Parallel()

	bus, err := NewBus(context.Background(), DefaultConfig(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	err = bus.Publish(context.Background(), TopicAssignment, AssignmentEvent{})
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish after Close = %v, want ErrBusClosed", err)
	}
}

func TestNewBus_UnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Backend = "kafka"
	if _, err := NewBus(context.Background(), cfg, nil, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNewMessageAndDecode(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(TopicFeedback, FeedbackEvent{SessionID: "abc", ContentID: 42, Liked: true})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if msg.UUID == "" || msg.Metadata.Get("topic") != TopicFeedback {
		t.Errorf("message metadata = %v, uuid %q", msg.Metadata, msg.UUID)
	}

	got, err := Decode[FeedbackEvent](msg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.SessionID != "abc" || got.ContentID != 42 || !got.Liked {
		t.Errorf("decoded = %+v", got)
	}
}

func TestDurableName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		TopicAssignment: "app-experiment-assignment",
		TopicExposure:   "app-recommendation-exposure",
		"experiment.>":  "app-experiment-all",
	}
	for topic, want := range tests {
		if got := durableName("app", topic); got != want {
			t.Errorf("durableName(%q) = %q, want %q", topic, got, want)
		}
	}
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), TopicExposure, nil); err != nil {
		t.Errorf("NopPublisher.Publish = %v", err)
	}
}
