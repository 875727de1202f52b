// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// captureOutput points the global logger at a buffer for the duration of a
// test and restores JSON defaults afterwards.
func captureOutput(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: level, Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info", Format: "json"}) })
	return &buf
}

func decodeLogLine(t *testing.T, line string) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Failed to decode log line %q: %v", line, err)
	}
	return entry
}

func TestGlobalLevelConstructors(t *testing.T) {
	buf := captureOutput(t, "debug")

	Debug().Str("table", "checkins").Msg("Snapshot replaced")
	Info().Int("rows", 3).Msg("Import complete")
	Warn().Msg("Slow query")
	Error().Msg("Query failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 log lines, got %d: %s", len(lines), buf.String())
	}

	first := decodeLogLine(t, lines[0])
	if first["level"] != "debug" || first["table"] != "checkins" || first["message"] != "Snapshot replaced" {
		t.Errorf("Unexpected debug entry: %v", first)
	}
	second := decodeLogLine(t, lines[1])
	if second["rows"] != float64(3) {
		t.Errorf("Expected rows field, got %v", second)
	}
	if _, ok := first["time"]; !ok {
		t.Error("Expected timestamp field")
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t, "warn")

	Debug().Msg("suppressed")
	Info().Msg("suppressed")
	Warn().Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line at warn level, got %d: %s", len(lines), buf.String())
	}
	if entry := decodeLogLine(t, lines[0]); entry["level"] != "warn" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	buf := captureOutput(t, "loud")

	Debug().Msg("suppressed")
	Info().Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected info fallback to keep 1 line, got %d", len(lines))
	}
}

func TestCtxAddsRequestID(t *testing.T) {
	buf := captureOutput(t, "info")

	ctx := ContextWithRequestID(context.Background(), "req-123")
	Ctx(ctx).Info().Msg("handled")

	entry := decodeLogLine(t, strings.TrimSpace(buf.String()))
	if entry["request_id"] != "req-123" {
		t.Errorf("Expected request_id field, got %v", entry)
	}
}

func TestCtxWithoutRequestID(t *testing.T) {
	buf := captureOutput(t, "info")

	Ctx(context.Background()).Info().Msg("handled")

	entry := decodeLogLine(t, strings.TrimSpace(buf.String()))
	if _, ok := entry["request_id"]; ok {
		t.Errorf("Expected no request_id field, got %v", entry)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	id := GenerateRequestID()
	if id == "" {
		t.Fatal("Expected non-empty request ID")
	}

	ctx := ContextWithRequestID(context.Background(), id)
	if got := RequestIDFromContext(ctx); got != id {
		t.Errorf("Round trip failed: %q != %q", got, id)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("Expected empty ID from bare context, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	if err != nil || level != zerolog.DebugLevel {
		t.Errorf("ParseLevel(DEBUG) = %v, %v", level, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestSlogAdapterWritesThroughZerolog(t *testing.T) {
	buf := captureOutput(t, "info")

	logger := NewSlogLogger()
	logger.Info("service started", "supervisor", "ssreports", "restarts", int64(2))

	entry := decodeLogLine(t, strings.TrimSpace(buf.String()))
	if entry["message"] != "service started" {
		t.Errorf("Unexpected message: %v", entry)
	}
	if entry["supervisor"] != "ssreports" || entry["restarts"] != float64(2) {
		t.Errorf("Expected slog attrs as zerolog fields, got %v", entry)
	}
}

func TestSlogAdapterGroups(t *testing.T) {
	buf := captureOutput(t, "info")

	logger := NewSlogLogger().WithGroup("suture").With("service", "http-server")
	logger.Warn("service backoff")

	entry := decodeLogLine(t, strings.TrimSpace(buf.String()))
	if entry["level"] != "warn" || entry["suture.service"] != "http-server" {
		t.Errorf("Expected grouped attr, got %v", entry)
	}
}
