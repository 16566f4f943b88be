// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNATSBus_EmbeddedRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Backend = BackendNATS
	cfg.Embedded = true
	cfg.EmbeddedPort = -1
	cfg.StoreDir = t.TempDir()

	bus, err := NewBus(ctx, cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	if bus.Backend() != BackendNATS || bus.server == nil || !bus.server.IsRunning() {
		t.Fatal("embedded server not running")
	}

	sink := &recordingSink{}
	startRouter(t, bus, sink)

	// Consumers deliver new messages only; give them a moment to bind.
	time.Sleep(200 * time.Millisecond)

	if err := bus.Publish(ctx, TopicAssignment, AssignmentEvent{SessionID: "nats-1", Variant: "B", Source: "explicit"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	waitFor(t, func() bool {
		a, _, _ := sink.counts()
		return a == 1
	})

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if got := sink.assignments[0]; got.SessionID != "nats-1" || got.Variant != "B" {
		t.Errorf("assignment = %+v", got)
	}
}

func TestEmbeddedServer_Shutdown(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}

	srv, err := NewEmbeddedServer(ServerConfig{Host: "127.0.0.1", Port: -1, StoreDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewEmbeddedServer: %v", err)
	}
	if srv.ClientURL() == "" {
		t.Error("empty client URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if srv.IsRunning() {
		t.Error("server still running after Shutdown")
	}
}
