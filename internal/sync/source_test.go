// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package sync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/shops.json":
			w.Write([]byte(`[{"id": 1}]`))
		case "/agent_performance.json":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second)

	data, err := src.Fetch(context.Background(), "shops.json")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != `[{"id": 1}]` {
		t.Errorf("Unexpected body: %s", data)
	}

	_, err = src.Fetch(context.Background(), "agent_performance.json")
	if !errors.Is(err, ErrSnapshotMissing) {
		t.Errorf("Expected ErrSnapshotMissing for 404, got %v", err)
	}

	_, err = src.Fetch(context.Background(), "broken.json")
	if err == nil || errors.Is(err, ErrSnapshotMissing) {
		t.Errorf("Expected server error to surface as a plain error, got %v", err)
	}
}

func TestHTTPSourceTrimsTrailingSlash(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL+"/", 5*time.Second)
	if _, err := src.Fetch(context.Background(), "checkins.json"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if requestedPath != "/checkins.json" {
		t.Errorf("Expected /checkins.json, got %s", requestedPath)
	}
}

func TestHTTPSourceBreakerOpensOnRepeatedFailures(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second)

	// 60% failure rate over at least 5 requests trips the breaker.
	for i := 0; i < 6; i++ {
		if _, err := src.Fetch(context.Background(), "shops.json"); err == nil {
			t.Fatalf("Fetch %d unexpectedly succeeded", i)
		}
	}

	hitsBeforeOpen := hits
	_, err := src.Fetch(context.Background(), "shops.json")
	if err == nil {
		t.Fatal("Expected open breaker to reject the request")
	}
	if hits != hitsBeforeOpen {
		t.Errorf("Open breaker should not reach the server, saw %d extra hits", hits-hitsBeforeOpen)
	}
}
