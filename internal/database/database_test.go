// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package database

import (
	"context"
	"testing"

	"github.com/ssreports/ssreports/internal/config"
	"github.com/ssreports/ssreports/internal/models"
)

// testDBSemaphore serializes test database lifecycles. Concurrent DuckDB
// CGO calls from parallel tests can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory test database. The semaphore is held for
// the whole test lifecycle, not just creation.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func ptrString(s string) *string { return &s }
func ptrInt64(i int64) *int64    { return &i }

// seedBaseline loads the minimal end-to-end dataset: one located shop, one
// approved checkin by agent 7, one converted visit response.
func seedBaseline(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	if err := db.ReplaceShops(ctx, []models.Shop{
		{ID: 1, Name: "Soweto Betting Shop", Address: ptrString("12 Vilakazi St"), Latitude: -26.0, Longitude: 28.0},
	}); err != nil {
		t.Fatalf("Failed to seed shops: %v", err)
	}

	if err := db.ReplaceCheckins(ctx, []models.Checkin{
		{
			ID:        1,
			AgentID:   7,
			ShopID:    ptrInt64(1),
			Timestamp: "2025-10-01T09:00:00Z",
			Latitude:  -26.0,
			Longitude: 28.0,
			Status:    models.StatusApproved,
		},
	}); err != nil {
		t.Fatalf("Failed to seed checkins: %v", err)
	}

	if err := db.ReplaceVisitResponses(ctx, []models.VisitResponse{
		{
			ID:             1,
			CheckinID:      1,
			VisitType:      ptrString("NEW_CUSTOMER"),
			Converted:      1,
			AlreadyBetting: 0,
			CreatedAt:      "2025-10-01T09:05:00Z",
		},
	}); err != nil {
		t.Fatalf("Failed to seed visit responses: %v", err)
	}
}

func TestNewInitializesSchema(t *testing.T) {
	db := setupTestDB(t)

	ctx := context.Background()
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	counts, err := db.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts failed: %v", err)
	}
	for _, table := range []string{"shops", "checkins", "visit_responses", "agent_performance",
		"checkins_by_hour", "checkins_by_day", "geographic_hotspots"} {
		if n, ok := counts[table]; !ok || n != 0 {
			t.Errorf("Expected empty table %s, got count=%d present=%v", table, n, ok)
		}
	}
}
