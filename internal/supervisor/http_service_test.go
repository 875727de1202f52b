// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// stubServer blocks in ListenAndServe until Shutdown is called, like a real
// http.Server.
type stubServer struct {
	serveErr     error
	shutdownErr  error
	shutdownDone chan struct{}
	shutdowns    int
}

func newStubServer() *stubServer {
	return &stubServer{shutdownDone: make(chan struct{})}
}

func (s *stubServer) ListenAndServe() error {
	if s.serveErr != nil {
		return s.serveErr
	}
	<-s.shutdownDone
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(ctx context.Context) error {
	s.shutdowns++
	close(s.shutdownDone)
	return s.shutdownErr
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	server := newStubServer()
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if server.shutdowns != 1 {
		t.Errorf("Expected exactly one Shutdown call, got %d", server.shutdowns)
	}
}

func TestHTTPServerServiceListenFailure(t *testing.T) {
	server := newStubServer()
	server.serveErr = errors.New("listen tcp: address already in use")
	svc := NewHTTPServerService(server, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, server.serveErr) {
		t.Errorf("Expected wrapped listen error, got %v", err)
	}
	if server.shutdowns != 0 {
		t.Errorf("Shutdown should not run after a listen failure, got %d calls", server.shutdowns)
	}
}

func TestHTTPServerServiceShutdownError(t *testing.T) {
	server := newStubServer()
	server.shutdownErr = errors.New("shutdown deadline exceeded")
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil || !errors.Is(err, server.shutdownErr) {
			t.Errorf("Expected shutdown error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestHTTPServerServiceString(t *testing.T) {
	if got := NewHTTPServerService(newStubServer(), 0).String(); got != "http-server" {
		t.Errorf("Unexpected service name %q", got)
	}
}
