// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinequiz/internal/cache"
	"github.com/tomtom215/cinequiz/internal/metrics"
)

// Task is one periodic maintenance job.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// CacheCleanupTask drops expired entries from c.
func CacheCleanupTask(name string, c cache.Cleaner, interval time.Duration) Task {
	return Task{
		Name:     "cache-cleanup:" + name,
		Interval: interval,
		Run: func(context.Context) error {
			c.Cleanup()
			return nil
		},
	}
}

// GarbageCollector is satisfied by *experiment.BadgerStore.
type GarbageCollector interface {
	RunGC() error
}

// StoreGCTask runs one value-log GC pass per tick.
func StoreGCTask(name string, gc GarbageCollector, interval time.Duration) Task {
	return Task{
		Name:     "store-gc:" + name,
		Interval: interval,
		Run: func(context.Context) error {
			return gc.RunGC()
		},
	}
}

// Pruner is satisfied by *analytics.Store.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionTask deletes rows older than retention. now is injectable for
// tests; nil means time.Now.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func RetentionTask(p Pruner, retention, interval time.Duration, now func() time.Time, logger zerolog.Logger) Task {
	if now == nil {
		now = time.Now
	}
	return Task{
		Name:     "analytics-retention",
		Interval: interval,
		Run: func(ctx context.Context) error {
			cutoff := now().Add(-retention)
			n, err := p.Prune(ctx, cutoff)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info().Int64("rows", n).Time("cutoff", cutoff).Msg("pruned analytics rows")
			}
			return nil
		},
	}
}

// JanitorService runs maintenance tasks on their own tickers. A failing
// run is logged and counted; the task keeps its schedule.
type JanitorService struct {
	tasks  []Task
	logger zerolog.Logger
	name   string
}

// NewJanitorService creates a janitor. Tasks with a non-positive interval
// or nil Run are skipped.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewJanitorService(logger zerolog.Logger, tasks ...Task) *JanitorService {
	kept := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Interval > 0 && t.Run != nil {
			kept = append(kept, t)
		}
	}
	return &JanitorService{
		tasks:  kept,
		logger: logger.With().Str("service", "janitor").Logger(),
		name:   "janitor",
	}
}

// Tasks returns the names of the scheduled tasks.
func (j *JanitorService) Tasks() []string {
	names := make([]string, len(j.tasks))
	for i, t := range j.tasks {
		names[i] = t.Name
	}
	return names
}

// Serve implements suture.Service.
func (j *JanitorService) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range j.tasks {
		g.Go(func() error {
			j.loop(gctx, task)
			return nil
		})
	}
	_ = g.Wait()

	// With no tasks the service idles instead of exiting, which suture
	// would treat as a crash.
	<-ctx.Done()
	return ctx.Err()
}

func (j *JanitorService) loop(ctx context.Context, task Task) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx, task)
		}
	}
}

func (j *JanitorService) runOnce(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			metrics.RecordMaintenanceRun(task.Name, err)
			j.logger.Error().Err(err).Str("task", task.Name).Msg("maintenance task panicked")
		}
	}()

	err := task.Run(ctx)
	metrics.RecordMaintenanceRun(task.Name, err)
	if err != nil && ctx.Err() == nil {
		j.logger.Warn().Err(err).Str("task", task.Name).Msg("maintenance task failed")
	}
}

// String implements fmt.Stringer for suture logs.
func (j *JanitorService) String() string {
	return j.name
}
