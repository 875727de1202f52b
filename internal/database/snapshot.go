// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ssreports/ssreports/internal/models"
)

// Snapshot replacement. Each Replace* call swaps one synced table inside a
// single transaction: readers observe either the previous snapshot or the
// new one, never a partially replaced table. Re-running a replace with
// identical rows yields an identical table.

// replaceTable deletes all rows of a table and inserts the given rows using
// one prepared statement, all inside one transaction.
func (db *DB) replaceTable(ctx context.Context, table, insertSQL string, rows [][]interface{}) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin replace of %s: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace of %s: %w", table, err)
	}
	return nil
}

// ReplaceShops swaps the shops table.
func (db *DB) ReplaceShops(ctx context.Context, shops []models.Shop) error {
	rows := make([][]interface{}, len(shops))
	for i, s := range shops {
		rows[i] = []interface{}{s.ID, s.Name, derefString(s.Address), s.Latitude, s.Longitude}
	}
	return db.replaceTable(ctx, "shops",
		"INSERT INTO shops (id, name, address, latitude, longitude) VALUES (?, ?, ?, ?, ?)", rows)
}

// ReplaceCheckins swaps the checkins table.
func (db *DB) ReplaceCheckins(ctx context.Context, checkins []models.Checkin) error {
	rows := make([][]interface{}, len(checkins))
	for i, c := range checkins {
		rows[i] = []interface{}{c.ID, c.AgentID, derefInt64(c.ShopID), c.Timestamp,
			c.Latitude, c.Longitude, derefString(c.PhotoPath), derefString(c.Notes),
			c.Status, derefInt64(c.BrandID), derefInt64(c.CategoryID), derefInt64(c.ProductID)}
	}
	return db.replaceTable(ctx, "checkins",
		`INSERT INTO checkins (id, agent_id, shop_id, timestamp, latitude, longitude,
			photo_path, notes, status, brand_id, category_id, product_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, rows)
}

// ReplaceVisitResponses swaps the visit_responses table.
func (db *DB) ReplaceVisitResponses(ctx context.Context, responses []models.VisitResponse) error {
	rows := make([][]interface{}, len(responses))
	for i, vr := range responses {
		rows[i] = []interface{}{vr.ID, vr.CheckinID, derefString(vr.VisitType),
			derefString(vr.Responses), vr.Converted, vr.AlreadyBetting, vr.CreatedAt}
	}
	return db.replaceTable(ctx, "visit_responses",
		`INSERT INTO visit_responses (id, checkin_id, visit_type, responses,
			converted, already_betting, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, rows)
}

// ReplaceAgentPerformance swaps the agent_performance rollup.
func (db *DB) ReplaceAgentPerformance(ctx context.Context, agents []models.AgentPerformance) error {
	rows := make([][]interface{}, len(agents))
	for i, ap := range agents {
		rows[i] = []interface{}{ap.AgentID, derefString(ap.AgentName),
			ap.CheckinCount, ap.Conversions, ap.ConversionRate}
	}
	return db.replaceTable(ctx, "agent_performance",
		`INSERT INTO agent_performance (agent_id, agent_name, checkin_count, conversions, conversion_rate)
		VALUES (?, ?, ?, ?, ?)`, rows)
}

// ReplaceHourBuckets swaps the checkins_by_hour rollup.
func (db *DB) ReplaceHourBuckets(ctx context.Context, buckets []models.HourBucket) error {
	rows := make([][]interface{}, len(buckets))
	for i, hb := range buckets {
		rows[i] = []interface{}{hb.Hour, hb.Count}
	}
	return db.replaceTable(ctx, "checkins_by_hour",
		"INSERT INTO checkins_by_hour (hour, count) VALUES (?, ?)", rows)
}

// ReplaceDayBuckets swaps the checkins_by_day rollup.
func (db *DB) ReplaceDayBuckets(ctx context.Context, buckets []models.DayBucket) error {
	rows := make([][]interface{}, len(buckets))
	for i, dbkt := range buckets {
		rows[i] = []interface{}{dbkt.DayNum, dbkt.DayName, dbkt.Count}
	}
	return db.replaceTable(ctx, "checkins_by_day",
		"INSERT INTO checkins_by_day (day_num, day_name, count) VALUES (?, ?, ?)", rows)
}

// ReplaceGeoHotspots swaps the geographic_hotspots rollup.
func (db *DB) ReplaceGeoHotspots(ctx context.Context, hotspots []models.GeoHotspot) error {
	rows := make([][]interface{}, len(hotspots))
	for i, g := range hotspots {
		rows[i] = []interface{}{g.Latitude, g.Longitude, g.Count}
	}
	return db.replaceTable(ctx, "geographic_hotspots",
		"INSERT INTO geographic_hotspots (latitude, longitude, count) VALUES (?, ?, ?)", rows)
}

// TableCounts returns row counts for the synced tables, used by metrics and
// the sync status endpoint.
func (db *DB) TableCounts(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tables := []string{"shops", "checkins", "visit_responses", "agent_performance",
		"checkins_by_hour", "checkins_by_day", "geographic_hotspots"}
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func derefString(s *string) interface{} {
	if s == nil {
		return sql.NullString{}
	}
	return *s
}

func derefInt64(i *int64) interface{} {
	if i == nil {
		return sql.NullInt64{}
	}
	return *i
}
