// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ssreports/ssreports/internal/models"
)

func scanShop(rows *sql.Rows) (models.Shop, error) {
	var s models.Shop
	var address sql.NullString
	err := rows.Scan(&s.ID, &s.Name, &address, &s.Latitude, &s.Longitude)
	s.Address = nullableString(address)
	return s, err
}

// ListShops returns one page of shops ordered by id ascending, plus the
// total shop count.
func (db *DB) ListShops(ctx context.Context, page, limit int) ([]models.Shop, int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	shops, err := queryAndScan(ctx, db.conn,
		`SELECT id, name, address, latitude, longitude FROM shops ORDER BY id LIMIT ? OFFSET ?`,
		[]interface{}{limit, offset}, scanShop)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shops: %w", err)
	}

	total, err := queryCount(ctx, db.conn, "SELECT COUNT(*) FROM shops", nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count shops: %w", err)
	}

	return shops, total, nil
}

// GetShopDetail returns a shop, its most recent checkins (capped at limit)
// and activity totals. Returns ErrNotFound for an unknown shop id.
func (db *DB) GetShopDetail(ctx context.Context, id int64, checkinLimit int) (*models.Shop, []models.Checkin, *models.ShopStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, address, latitude, longitude FROM shops WHERE id = ?`, id)
	var shop models.Shop
	var address sql.NullString
	err := row.Scan(&shop.ID, &shop.Name, &address, &shop.Latitude, &shop.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get shop %d: %w", id, err)
	}
	shop.Address = nullableString(address)

	query := fmt.Sprintf(`SELECT %s FROM checkins WHERE shop_id = ?
		ORDER BY timestamp DESC, id DESC LIMIT ?`, checkinColumns)
	checkins, err := queryAndScan(ctx, db.conn, query, []interface{}{id, checkinLimit}, scanCheckin)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list shop checkins: %w", err)
	}

	statsRow := db.conn.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE c.status = 'APPROVED'),
			COUNT(*) FILTER (WHERE vr.converted = 1),
			MAX(c.timestamp)
		FROM checkins c
		LEFT JOIN visit_responses vr ON vr.checkin_id = c.id
		WHERE c.shop_id = ?`, id)

	var stats models.ShopStats
	var lastVisit sql.NullString
	if err := statsRow.Scan(&stats.TotalCheckins, &stats.ApprovedCount, &stats.Conversions, &lastVisit); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to compute shop stats: %w", err)
	}
	stats.LastVisit = nullableString(lastVisit)

	return &shop, checkins, &stats, nil
}

// ListShopsAnalytics returns the per-shop activity rollup for the filter,
// restricted to shops with at least one matching checkin, ordered by checkin
// count descending. The parallel count query shares the same predicate.
func (db *DB) ListShopsAnalytics(ctx context.Context, filter CheckinFilter) ([]models.ShopAnalytics, int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause("c")

	query := fmt.Sprintf(`SELECT s.id, s.name, s.address, s.latitude, s.longitude,
			COUNT(c.id) AS total_checkins,
			COUNT(c.id) FILTER (WHERE c.status = 'APPROVED') AS approved_count,
			COUNT(c.id) FILTER (WHERE vr.converted = 1) AS conversions,
			MAX(c.timestamp) AS last_visit,
			arg_max(c.id, c.timestamp) AS latest_checkin_id
		FROM shops s
		LEFT JOIN checkins c ON c.shop_id = s.id AND %s
		LEFT JOIN visit_responses vr ON vr.checkin_id = c.id
		GROUP BY s.id, s.name, s.address, s.latitude, s.longitude
		HAVING COUNT(c.id) > 0
		ORDER BY total_checkins DESC, s.id
		LIMIT ? OFFSET ?`, where)
	pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset())

	shops, err := queryAndScan(ctx, db.conn, query, pageArgs, func(rows *sql.Rows) (models.ShopAnalytics, error) {
		var sa models.ShopAnalytics
		var address, lastVisit sql.NullString
		var latestID sql.NullInt64
		err := rows.Scan(&sa.ShopID, &sa.Name, &address, &sa.Latitude, &sa.Longitude,
			&sa.TotalCheckins, &sa.ApprovedCount, &sa.Conversions, &lastVisit, &latestID)
		sa.Address = nullableString(address)
		sa.LastVisit = nullableString(lastVisit)
		sa.LatestCheckinID = nullableInt64(latestID)
		return sa, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shops analytics: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM (
			SELECT s.id FROM shops s
			LEFT JOIN checkins c ON c.shop_id = s.id AND %s
			GROUP BY s.id
			HAVING COUNT(c.id) > 0
		) t`, where)
	total, err := queryCount(ctx, db.conn, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count shops analytics: %w", err)
	}

	return shops, total, nil
}
