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

// scanCheckin scans one checkin row in the canonical column order.
func scanCheckin(rows *sql.Rows) (models.Checkin, error) {
	var c models.Checkin
	var shopID, brandID, categoryID, productID sql.NullInt64
	var photoPath, notes sql.NullString
	err := rows.Scan(&c.ID, &c.AgentID, &shopID, &c.Timestamp, &c.Latitude, &c.Longitude,
		&photoPath, &notes, &c.Status, &brandID, &categoryID, &productID)
	if err != nil {
		return c, err
	}
	c.ShopID = nullableInt64(shopID)
	c.PhotoPath = nullableString(photoPath)
	c.Notes = nullableString(notes)
	c.BrandID = nullableInt64(brandID)
	c.CategoryID = nullableInt64(categoryID)
	c.ProductID = nullableInt64(productID)
	return c, nil
}

const checkinColumns = `id, agent_id, shop_id, timestamp, latitude, longitude,
	photo_path, notes, status, brand_id, category_id, product_id`

// ListCheckins returns one page of checkins matching the filter, newest
// first, together with the total count for the same predicate ignoring
// pagination.
func (db *DB) ListCheckins(ctx context.Context, filter CheckinFilter) ([]models.Checkin, int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause("")

	query := fmt.Sprintf(`SELECT %s FROM checkins WHERE %s
		ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?`, checkinColumns, where)
	pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset())

	checkins, err := queryAndScan(ctx, db.conn, query, pageArgs, scanCheckin)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list checkins: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM checkins WHERE %s", where)
	total, err := queryCount(ctx, db.conn, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count checkins: %w", err)
	}

	return checkins, total, nil
}

// GetCheckin returns a single checkin and its visit response, if any.
// Returns ErrNotFound for an unknown id. A response row whose checkin no
// longer exists is treated as absent, so the one-to-one link is enforced at
// read time.
func (db *DB) GetCheckin(ctx context.Context, id int64) (*models.Checkin, *models.VisitResponse, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM checkins WHERE id = ?", checkinColumns)
	checkins, err := queryAndScan(ctx, db.conn, query, []interface{}{id}, scanCheckin)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get checkin %d: %w", id, err)
	}
	if len(checkins) == 0 {
		return nil, nil, ErrNotFound
	}
	checkin := checkins[0]

	response, err := db.getVisitResponse(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}

	return &checkin, response, nil
}

// getVisitResponse returns the visit response for a checkin, or ErrNotFound.
func (db *DB) getVisitResponse(ctx context.Context, checkinID int64) (*models.VisitResponse, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT id, checkin_id, visit_type, responses,
		converted, already_betting, created_at
		FROM visit_responses WHERE checkin_id = ? ORDER BY id LIMIT 1`, checkinID)

	var vr models.VisitResponse
	var visitType, responses sql.NullString
	err := row.Scan(&vr.ID, &vr.CheckinID, &visitType, &responses,
		&vr.Converted, &vr.AlreadyBetting, &vr.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit response for checkin %d: %w", checkinID, err)
	}
	vr.VisitType = nullableString(visitType)
	vr.Responses = nullableString(responses)
	return &vr, nil
}

// ListMapCheckins returns up to limit geolocated checkins in range for the
// map view. Checkins at (0,0) are unlocated and excluded.
func (db *DB) ListMapCheckins(ctx context.Context, filter CheckinFilter, limit int) ([]models.MapPoint, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause("c")
	query := fmt.Sprintf(`SELECT c.id, c.agent_id, c.shop_id, s.name, c.timestamp,
			c.latitude, c.longitude, c.status
		FROM checkins c
		LEFT JOIN shops s ON c.shop_id = s.id
		WHERE %s AND NOT (c.latitude = 0 AND c.longitude = 0)
		ORDER BY c.timestamp DESC LIMIT ?`, where)
	args = append(args, limit)

	points, err := queryAndScan(ctx, db.conn, query, args, func(rows *sql.Rows) (models.MapPoint, error) {
		var p models.MapPoint
		var shopID sql.NullInt64
		var shopName sql.NullString
		err := rows.Scan(&p.ID, &p.AgentID, &shopID, &shopName, &p.Timestamp,
			&p.Latitude, &p.Longitude, &p.Status)
		p.ShopID = nullableInt64(shopID)
		p.ShopName = nullableString(shopName)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list map checkins: %w", err)
	}
	return points, nil
}

// ListExportRows returns the full unpaginated checkin+response listing for
// the export endpoint, newest first.
func (db *DB) ListExportRows(ctx context.Context, filter CheckinFilter) ([]models.ExportRow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause("c")
	query := fmt.Sprintf(`SELECT c.id, c.agent_id, ap.agent_name, c.shop_id, s.name,
			c.timestamp, c.status, c.latitude, c.longitude, c.notes,
			vr.visit_type, vr.converted, vr.already_betting
		FROM checkins c
		LEFT JOIN shops s ON c.shop_id = s.id
		LEFT JOIN agent_performance ap ON c.agent_id = ap.agent_id
		LEFT JOIN visit_responses vr ON vr.checkin_id = c.id
		WHERE %s
		ORDER BY c.timestamp DESC, c.id DESC`, where)

	rows, err := queryAndScan(ctx, db.conn, query, args, func(rows *sql.Rows) (models.ExportRow, error) {
		var r models.ExportRow
		var agentName, shopName, notes, visitType sql.NullString
		var shopID sql.NullInt64
		var converted, betting sql.NullInt64
		err := rows.Scan(&r.ID, &r.AgentID, &agentName, &shopID, &shopName,
			&r.Timestamp, &r.Status, &r.Latitude, &r.Longitude, &notes,
			&visitType, &converted, &betting)
		if err != nil {
			return r, err
		}
		r.AgentName = nullableString(agentName)
		r.ShopID = nullableInt64(shopID)
		r.ShopName = nullableString(shopName)
		r.Notes = nullableString(notes)
		r.VisitType = nullableString(visitType)
		if converted.Valid {
			v := int(converted.Int64)
			r.Converted = &v
		}
		if betting.Valid {
			v := int(betting.Int64)
			r.AlreadyBetting = &v
		}
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list export rows: %w", err)
	}
	return rows, nil
}
