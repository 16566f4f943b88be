// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

var errDependencyDown = errors.New("dependency unavailable")

// layerService stands in for a cinequiz service. Its first failStarts
// starts return errDependencyDown, the way the event router fails while the
// bus is unreachable; later starts run until cancelled.
type layerService struct {
	name       string
	failStarts int32

	starts  atomic.Int32
	stops   atomic.Int32
	running chan struct{}
}

func newLayerService(name string, failStarts int32) *layerService {
	return &layerService{name: name, failStarts: failStarts, running: make(chan struct{}, 1)}
}

func (s *layerService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	defer s.stops.Add(1)
	if n <= s.failStarts {
		return fmt.Errorf("%s start %d: %w", s.name, n, errDependencyDown)
	}
	select {
	case s.running <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *layerService) String() string { return s.name }

func (s *layerService) waitRunning(t *testing.T) {
	t.Helper()
	select {
	case <-s.running:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s never reached steady state (%d starts)", s.name, s.starts.Load())
	}
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor should not be nil")
	}

	want := DefaultTreeConfig()
	if tree.config != want {
		t.Errorf("config = %+v, want %+v", tree.config, want)
	}
	if tree.ShutdownTimeout() != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", tree.ShutdownTimeout())
	}
}

func TestNewSupervisorTree_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := TreeConfig{
		FailureThreshold: 2,
		FailureDecay:     5,
		FailureBackoff:   time.Second,
		ShutdownTimeout:  3 * time.Second,
	}
	tree, err := NewSupervisorTree(quietLogger(), cfg)
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	if tree.config != cfg {
		t.Errorf("config = %+v, want %+v", tree.config, cfg)
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	janitor := newLayerService("janitor", 0)
	router := newLayerService("event-router", 0)
	httpSvc := newLayerService("http-server", 0)
	tree.AddDataService(janitor)
	tree.AddMessagingService(router)
	tree.AddAPIService(httpSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	for _, svc := range []*layerService{janitor, router, httpSvc} {
		svc.waitRunning(t)
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	for _, svc := range []*layerService{janitor, router, httpSvc} {
		if svc.starts.Load() != 1 {
			t.Errorf("%s: %d starts, want 1", svc, svc.starts.Load())
		}
		if svc.stops.Load() != svc.starts.Load() {
			t.Errorf("%s: %d starts but %d stops", svc, svc.starts.Load(), svc.stops.Load())
		}
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	router := newLayerService("event-router", 2)
	httpSvc := newLayerService("http-server", 0)

	tree.AddMessagingService(router)
	tree.AddAPIService(httpSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	router.waitRunning(t)
	httpSvc.waitRunning(t)

	if got := router.starts.Load(); got != 3 {
		t.Errorf("event-router starts = %d, want 2 failures then 1 run", got)
	}
	if got := httpSvc.starts.Load(); got != 1 {
		t.Errorf("messaging failures restarted the api layer: %d starts", got)
	}

	cancel()
	<-errCh
}

func TestSupervisorTree_RemoveMessagingService(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	svc := newLayerService("event-router", 0)
	token := tree.AddMessagingService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	svc.waitRunning(t)
	if err := tree.RemoveMessagingService(token); err != nil {
		t.Fatalf("RemoveMessagingService: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for svc.stops.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if svc.stops.Load() != 1 {
		t.Error("removed service should have stopped")
	}

	cancel()
	<-errCh
}
