// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*JanitorService)(nil)

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) Cleanup() int {
	c.calls.Add(1)
	return 0
}

type countingGC struct {
	calls atomic.Int32
	err   error
}

func (g *countingGC) RunGC() error {
	g.calls.Add(1)
	return g.err
}

type recordingPruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	rows    int64
	err     error
}

func (p *recordingPruner) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, cutoff)
	return p.rows, p.err
}

func runJanitor(t *testing.T, j *JanitorService, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	if err := j.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Serve() = %v, want deadline exceeded", err)
	}
}

func TestNewJanitorService_SkipsInvalidTasks(t *testing.T) {
	t.Parallel()

	j := NewJanitorService(zerolog.Nop(),
		CacheCleanupTask("buzz", &countingCleaner{}, time.Minute),
		Task{Name: "no-interval", Run: func(context.Context) error { return nil }},
		Task{Name: "no-run", Interval: time.Minute},
		StoreGCTask("experiment", &countingGC{}, 0),
	)

	want := []string{"cache-cleanup:buzz"}
	if got := j.Tasks(); !slices.Equal(got, want) {
		t.Errorf("Tasks() = %v, want %v", got, want)
	}
	if j.String() != "janitor" {
		t.Errorf("String() = %q", j.String())
	}
}

func TestJanitorService_RunsTasksOnSchedule(t *testing.T) {
	t.Parallel()

	cleaner := &countingCleaner{}
	gc := &countingGC{}
	j := NewJanitorService(zerolog.Nop(),
		CacheCleanupTask("buzz", cleaner, 10*time.Millisecond),
		StoreGCTask("experiment", gc, 10*time.Millisecond),
	)

	runJanitor(t, j, 75*time.Millisecond)

	if cleaner.calls.Load() < 2 {
		t.Errorf("cleanup ran %d times, want >= 2", cleaner.calls.Load())
	}
	if gc.calls.Load() < 2 {
		t.Errorf("gc ran %d times, want >= 2", gc.calls.Load())
	}
}

func TestJanitorService_FailuresDoNotStopSchedule(t *testing.T) {
	t.Parallel()

	gc := &countingGC{err: errors.New("disk busy")}
	var panics atomic.Int32
	j := NewJanitorService(zerolog.Nop(),
		StoreGCTask("experiment", gc, 10*time.Millisecond),
		Task{Name: "explodes", Interval: 10 * time.Millisecond, Run: func(context.Context) error {
			panics.Add(1)
			panic("boom")
		}},
	)

	runJanitor(t, j, 75*time.Millisecond)

	if gc.calls.Load() < 2 {
		t.Errorf("failing gc ran %d times, want >= 2", gc.calls.Load())
	}
	if panics.Load() < 2 {
		t.Errorf("panicking task ran %d times, want >= 2", panics.Load())
	}
}

func TestJanitorService_NoTasksIdles(t *testing.T) {
	t.Parallel()
	runJanitor(t, NewJanitorService(zerolog.Nop()), 20*time.Millisecond)
}

func TestRetentionTask_Cutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := &recordingPruner{rows: 4}
	task := RetentionTask(p, 30*24*time.Hour, time.Hour, func() time.Time { return now }, zerolog.Nop())

	if task.Name != "analytics-retention" || task.Interval != time.Hour {
		t.Errorf("task = %q every %v", task.Name, task.Interval)
	}
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	if len(p.cutoffs) != 1 || !p.cutoffs[0].Equal(want) {
		t.Errorf("cutoffs = %v, want [%v]", p.cutoffs, want)
	}

	p.err = errors.New("store closed")
	if err := task.Run(context.Background()); err == nil {
		t.Error("expected prune error to propagate")
	}
}
