// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package database

import (
	"context"
	"testing"

	"github.com/ssreports/ssreports/internal/models"
)

func TestGetCheckinsByHourLive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.ReplaceCheckins(ctx, []models.Checkin{
		{ID: 1, AgentID: 1, Timestamp: "2025-10-01T09:00:00Z", Status: models.StatusApproved},
		{ID: 2, AgentID: 1, Timestamp: "2025-10-02T09:30:00Z", Status: models.StatusApproved},
		{ID: 3, AgentID: 1, Timestamp: "2025-10-03T17:00:00Z", Status: models.StatusPending},
	}); err != nil {
		t.Fatalf("Failed to seed checkins: %v", err)
	}

	rows, err := db.GetCheckinsByHourLive(ctx, CheckinFilter{})
	if err != nil {
		t.Fatalf("GetCheckinsByHourLive failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 hour buckets, got %d: %+v", len(rows), rows)
	}
	if rows[0].Hour != 9 || rows[0].Count != 2 {
		t.Errorf("Unexpected 09:00 bucket: %+v", rows[0])
	}
	if rows[1].Hour != 17 || rows[1].Count != 1 {
		t.Errorf("Unexpected 17:00 bucket: %+v", rows[1])
	}
}

func TestGetCheckinsByHourLiveHonorsDateFilter(t *testing.T) {
	db := setupTestDB(t)
	seedBaseline(t, db)
	ctx := context.Background()

	rows, err := db.GetCheckinsByHourLive(ctx, CheckinFilter{StartDate: "2025-11-01"})
	if err != nil {
		t.Fatalf("GetCheckinsByHourLive failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no buckets outside the range, got %+v", rows)
	}
}

func TestGetCheckinsByHourRollupIgnoresFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.ReplaceHourBuckets(ctx, []models.HourBucket{
		{Hour: 9, Count: 120},
		{Hour: 14, Count: 45},
	}); err != nil {
		t.Fatalf("Failed to seed rollup: %v", err)
	}

	rows, err := db.GetCheckinsByHourRollup(ctx)
	if err != nil {
		t.Fatalf("GetCheckinsByHourRollup failed: %v", err)
	}
	if len(rows) != 2 || rows[0].Hour != 9 || rows[0].Count != 120 {
		t.Errorf("Unexpected rollup rows: %+v", rows)
	}
}

func TestGetCheckinsByDayLive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// 2025-10-01 is a Wednesday (day_num 4 with 1=Sunday).
	if err := db.ReplaceCheckins(ctx, []models.Checkin{
		{ID: 1, AgentID: 1, Timestamp: "2025-10-01T09:00:00Z", Status: models.StatusApproved},
		{ID: 2, AgentID: 1, Timestamp: "2025-10-08T09:00:00Z", Status: models.StatusApproved},
		{ID: 3, AgentID: 1, Timestamp: "2025-10-05T09:00:00Z", Status: models.StatusPending},
	}); err != nil {
		t.Fatalf("Failed to seed checkins: %v", err)
	}

	rows, err := db.GetCheckinsByDayLive(ctx, CheckinFilter{})
	if err != nil {
		t.Fatalf("GetCheckinsByDayLive failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 day buckets, got %d: %+v", len(rows), rows)
	}
	if rows[0].DayNum != 1 || rows[0].Count != 1 {
		t.Errorf("Expected Sunday bucket first, got %+v", rows[0])
	}
	if rows[1].DayNum != 4 || rows[1].Count != 2 {
		t.Errorf("Expected Wednesday bucket with 2, got %+v", rows[1])
	}
	if rows[1].DayName == "" {
		t.Error("Expected a day name")
	}
}

func TestGetAgentPerformanceLive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.ReplaceCheckins(ctx, []models.Checkin{
		{ID: 1, AgentID: 7, Timestamp: "2025-10-01T09:00:00Z", Status: models.StatusApproved},
		{ID: 2, AgentID: 7, Timestamp: "2025-10-02T09:00:00Z", Status: models.StatusApproved},
		{ID: 3, AgentID: 8, Timestamp: "2025-10-03T09:00:00Z", Status: models.StatusApproved},
	}); err != nil {
		t.Fatalf("Failed to seed checkins: %v", err)
	}
	if err := db.ReplaceVisitResponses(ctx, []models.VisitResponse{
		{ID: 1, CheckinID: 1, Converted: 1, CreatedAt: "2025-10-01T09:05:00Z"},
	}); err != nil {
		t.Fatalf("Failed to seed responses: %v", err)
	}
	if err := db.ReplaceAgentPerformance(ctx, []models.AgentPerformance{
		{AgentID: 7, AgentName: ptrString("Thabo M"), CheckinCount: 99, Conversions: 10, ConversionRate: 10.1},
	}); err != nil {
		t.Fatalf("Failed to seed agent rollup: %v", err)
	}

	rows, err := db.GetAgentPerformanceLive(ctx, CheckinFilter{}, 20)
	if err != nil {
		t.Fatalf("GetAgentPerformanceLive failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 agents, got %d", len(rows))
	}

	top := rows[0]
	if top.AgentID != 7 || top.CheckinCount != 2 || top.Conversions != 1 {
		t.Errorf("Unexpected leader: %+v", top)
	}
	// The live view still resolves display names through the synced rollup.
	if top.AgentName == nil || *top.AgentName != "Thabo M" {
		t.Errorf("Expected agent name from rollup, got %v", top.AgentName)
	}
	if top.ConversionRate != 50.0 {
		t.Errorf("conversion_rate = %v, want 50.0", top.ConversionRate)
	}
}

func TestGetAgentPerformanceRollup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.ReplaceAgentPerformance(ctx, []models.AgentPerformance{
		{AgentID: 7, AgentName: ptrString("Thabo M"), CheckinCount: 40, Conversions: 12, ConversionRate: 30.0},
		{AgentID: 8, AgentName: ptrString("Lerato K"), CheckinCount: 55, Conversions: 5, ConversionRate: 9.1},
	}); err != nil {
		t.Fatalf("Failed to seed rollup: %v", err)
	}

	rows, err := db.GetAgentPerformanceRollup(ctx, 20)
	if err != nil {
		t.Fatalf("GetAgentPerformanceRollup failed: %v", err)
	}
	if len(rows) != 2 || rows[0].AgentID != 8 {
		t.Errorf("Expected agent 8 first by checkin count, got %+v", rows)
	}
}

func TestGetGeoHotspotsLiveExcludesUnlocated(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.ReplaceCheckins(ctx, []models.Checkin{
		{ID: 1, AgentID: 1, Timestamp: "2025-10-01T09:00:00Z", Latitude: -26.0, Longitude: 28.0, Status: models.StatusApproved},
		{ID: 2, AgentID: 1, Timestamp: "2025-10-02T09:00:00Z", Latitude: -26.0, Longitude: 28.0, Status: models.StatusApproved},
		{ID: 3, AgentID: 1, Timestamp: "2025-10-03T09:00:00Z", Latitude: 0, Longitude: 0, Status: models.StatusApproved},
	}); err != nil {
		t.Fatalf("Failed to seed checkins: %v", err)
	}

	rows, err := db.GetGeoHotspotsLive(ctx, CheckinFilter{}, 100)
	if err != nil {
		t.Fatalf("GetGeoHotspotsLive failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected one hotspot, got %d: %+v", len(rows), rows)
	}
	if rows[0].Count != 2 || rows[0].Latitude != -26.0 {
		t.Errorf("Unexpected hotspot: %+v", rows[0])
	}
}
