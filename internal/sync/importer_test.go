// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ssreports/ssreports/internal/config"
	"github.com/ssreports/ssreports/internal/database"
)

// testDBSemaphore serializes test database lifecycles. Concurrent DuckDB
// CGO calls from parallel tests can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func writeSnapshotFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func writeRequiredSnapshot(t *testing.T, dir string) {
	t.Helper()
	writeSnapshotFile(t, dir, "shops.json", `[
		{"id": 1, "name": "Soweto Betting Shop", "address": "12 Vilakazi St", "latitude": -26.0, "longitude": 28.0},
		{"id": 2, "name": "Alex Corner", "address": null, "latitude": -26.1, "longitude": 28.1}
	]`)
	writeSnapshotFile(t, dir, "checkins.json", `[
		{"id": 1, "agent_id": 7, "shop_id": 1, "timestamp": "2025-10-01T09:00:00Z",
		 "latitude": -26.0, "longitude": 28.0, "photo_path": null, "notes": "first visit",
		 "status": "APPROVED", "brand_id": null, "category_id": null, "product_id": null},
		{"id": 2, "agent_id": 7, "shop_id": 2, "timestamp": "2025-10-02T10:00:00Z",
		 "latitude": -26.1, "longitude": 28.1, "photo_path": null, "notes": null,
		 "status": "PENDING", "brand_id": null, "category_id": null, "product_id": null}
	]`)
	writeSnapshotFile(t, dir, "visit_responses.json", `[
		{"id": 1, "checkin_id": 1, "visit_type": "NEW_CUSTOMER", "responses": null,
		 "converted": 1, "already_betting": 0, "created_at": "2025-10-01T09:05:00Z"}
	]`)
}

func TestRunOnceImportsRequiredTables(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	writeRequiredSnapshot(t, dir)

	imp := NewImporter(db, NewDirSource(dir))
	if err := imp.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	counts, err := db.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("TableCounts failed: %v", err)
	}
	if counts["shops"] != 2 || counts["checkins"] != 2 || counts["visit_responses"] != 1 {
		t.Errorf("Unexpected counts after import: %v", counts)
	}

	checkin, response, err := db.GetCheckin(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetCheckin failed: %v", err)
	}
	if checkin.Notes == nil || *checkin.Notes != "first visit" {
		t.Errorf("Notes not imported: %v", checkin.Notes)
	}
	if response == nil || response.Converted != 1 {
		t.Errorf("Visit response not imported: %+v", response)
	}
}

func TestRunOnceIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	writeRequiredSnapshot(t, dir)

	imp := NewImporter(db, NewDirSource(dir))
	for i := 0; i < 3; i++ {
		if err := imp.RunOnce(context.Background()); err != nil {
			t.Fatalf("RunOnce run %d failed: %v", i, err)
		}
	}

	counts, err := db.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("TableCounts failed: %v", err)
	}
	if counts["shops"] != 2 || counts["checkins"] != 2 || counts["visit_responses"] != 1 {
		t.Errorf("Counts drifted across identical imports: %v", counts)
	}
}

func TestRunOnceMissingRollupFilesSkipped(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	writeRequiredSnapshot(t, dir)

	imp := NewImporter(db, NewDirSource(dir))
	if err := imp.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce with no rollup files should succeed, got %v", err)
	}

	counts, err := db.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("TableCounts failed: %v", err)
	}
	if counts["agent_performance"] != 0 || counts["checkins_by_hour"] != 0 {
		t.Errorf("Rollup tables should be untouched: %v", counts)
	}
}

func TestRunOnceMissingRollupKeepsPrevious(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	writeRequiredSnapshot(t, dir)
	writeSnapshotFile(t, dir, "agent_performance.json", `[
		{"agent_id": 7, "agent_name": "Thabo M", "checkin_count": 40, "conversions": 12, "conversion_rate": 30.0}
	]`)

	imp := NewImporter(db, NewDirSource(dir))
	if err := imp.RunOnce(context.Background()); err != nil {
		t.Fatalf("First RunOnce failed: %v", err)
	}

	// Second snapshot drops the rollup file; the previous rollup survives.
	if err := os.Remove(filepath.Join(dir, "agent_performance.json")); err != nil {
		t.Fatalf("Failed to remove rollup file: %v", err)
	}
	if err := imp.RunOnce(context.Background()); err != nil {
		t.Fatalf("Second RunOnce failed: %v", err)
	}

	counts, err := db.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("TableCounts failed: %v", err)
	}
	if counts["agent_performance"] != 1 {
		t.Errorf("Expected previous rollup to survive, got %d rows", counts["agent_performance"])
	}
}

func TestRunOnceImportsRollupTables(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	writeRequiredSnapshot(t, dir)
	writeSnapshotFile(t, dir, "checkins_by_hour.json", `[{"hour": 9, "count": 10}, {"hour": 17, "count": 4}]`)
	writeSnapshotFile(t, dir, "checkins_by_day.json", `[{"day_num": 2, "day_name": "Monday", "count": 7}]`)
	writeSnapshotFile(t, dir, "geographic_hotspots.json", `[{"latitude": -26.0, "longitude": 28.0, "count": 15}]`)

	imp := NewImporter(db, NewDirSource(dir))
	if err := imp.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	hours, err := db.GetCheckinsByHourRollup(context.Background())
	if err != nil {
		t.Fatalf("GetCheckinsByHourRollup failed: %v", err)
	}
	if len(hours) != 2 || hours[0].Hour != 9 || hours[0].Count != 10 {
		t.Errorf("Unexpected hour rollup: %+v", hours)
	}

	days, err := db.GetCheckinsByDayRollup(context.Background())
	if err != nil {
		t.Fatalf("GetCheckinsByDayRollup failed: %v", err)
	}
	if len(days) != 1 || days[0].DayName != "Monday" {
		t.Errorf("Unexpected day rollup: %+v", days)
	}
}

func TestRunOnceMissingRequiredFileFails(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	writeSnapshotFile(t, dir, "shops.json", `[]`)
	// checkins.json and visit_responses.json are absent.

	imp := NewImporter(db, NewDirSource(dir))
	if err := imp.RunOnce(context.Background()); err == nil {
		t.Error("Expected error when a required snapshot file is missing")
	}
}

func TestRunOnceMalformedJSONFails(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	writeRequiredSnapshot(t, dir)
	writeSnapshotFile(t, dir, "checkins.json", `{"not": "an array"`)

	imp := NewImporter(db, NewDirSource(dir))
	if err := imp.RunOnce(context.Background()); err == nil {
		t.Error("Expected error for malformed snapshot JSON")
	}
}

func TestDirSourceMissingFile(t *testing.T) {
	src := NewDirSource(t.TempDir())
	_, err := src.Fetch(context.Background(), "shops.json")
	if !errors.Is(err, ErrSnapshotMissing) {
		t.Fatalf("Expected ErrSnapshotMissing, got %v", err)
	}
}

func TestDirSourceStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	writeSnapshotFile(t, dir, "shops.json", `[]`)

	src := NewDirSource(dir)
	data, err := src.Fetch(context.Background(), "../shops.json")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Unexpected data: %s", data)
	}
}
