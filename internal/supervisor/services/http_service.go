// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ErrServerClosed is returned when the HTTP server stops without the
// supervisor asking it to, so the api layer restarts it.
var ErrServerClosed = errors.New("http server closed unexpectedly")

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPServerService binds the API listener and serves on it under suture.
//
//	server := &http.Server{Handler: router.SetupChi()}
//	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), timeout, logger))
type HTTPServerService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
	listen          func(network, address string) (net.Listener, error)
	logger          zerolog.Logger

	bound atomic.Value // string
}

// NewHTTPServerService serves server on addr. Non-positive shutdownTimeout
// means 10s.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHTTPServerService(server HTTPServer, addr string, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	h := &HTTPServerService{
		server:          server,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		listen:          net.Listen,
		logger:          logger.With().Str("service", "http-server").Logger(),
	}
	h.bound.Store("")
	return h
}

// Addr returns the address the current listener is bound to, or "" while
// the server is not listening. With a ":0" port it reports the real port.
func (h *HTTPServerService) Addr() string {
	return h.bound.Load().(string)
}

// Serve implements suture.Service. Bind and serve failures are returned so
// the api layer restarts the server. Cancellation drains in-flight
// recommendation requests for up to the shutdown timeout.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	ln, err := h.listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", h.addr, err)
	}
	h.bound.Store(ln.Addr().String())
	defer h.bound.Store("")
	h.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	done := make(chan error, 1)
	go func() { done <- h.server.Serve(ln) }()

	select {
	case err := <-done:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return ErrServerClosed
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("HTTP server draining")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
	defer cancel()
	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	<-done
	return ctx.Err()
}

func (h *HTTPServerService) String() string {
	return "http-server"
}
