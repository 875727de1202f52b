// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ssreports/ssreports/internal/models"
)

// GetKPISummary computes the dashboard headline numbers for a date range.
//
// Active agents are distinct agents with a checkin of any status in range.
// Conversions and total visits come from visit responses joined through the
// parent checkin's timestamp, not the response's own created_at.
func (db *DB) GetKPISummary(ctx context.Context, filter CheckinFilter) (*models.KPISummary, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var kpis models.KPISummary

	where, args := filter.whereClause("")
	checkinRow := db.conn.QueryRowContext(ctx, fmt.Sprintf(`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'APPROVED'),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(DISTINCT agent_id)
		FROM checkins WHERE %s`, where), args...)
	if err := checkinRow.Scan(&kpis.TotalCheckins, &kpis.ApprovedCheckins,
		&kpis.PendingCheckins, &kpis.ActiveAgents); err != nil {
		return nil, fmt.Errorf("failed to compute checkin KPIs: %w", err)
	}

	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM shops").Scan(&kpis.TotalShops); err != nil {
		return nil, fmt.Errorf("failed to count shops: %w", err)
	}

	visitWhere, visitArgs := filter.whereClause("c")
	visitRow := db.conn.QueryRowContext(ctx, fmt.Sprintf(`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE vr.converted = 1)
		FROM visit_responses vr
		JOIN checkins c ON vr.checkin_id = c.id
		WHERE %s`, visitWhere), visitArgs...)
	if err := visitRow.Scan(&kpis.TotalVisits, &kpis.Conversions); err != nil {
		return nil, fmt.Errorf("failed to compute visit KPIs: %w", err)
	}

	return &kpis, nil
}

// GetCheckinsByDate returns (date, count) rows for each calendar date with
// at least one checkin in range, ascending by date. Gaps are omitted.
func (db *DB) GetCheckinsByDate(ctx context.Context, filter CheckinFilter) ([]models.DateCount, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause("")
	query := fmt.Sprintf(`SELECT substr(timestamp, 1, 10) AS date, COUNT(*) AS count
		FROM checkins WHERE %s
		GROUP BY substr(timestamp, 1, 10)
		ORDER BY date`, where)

	return queryAndScan(ctx, db.conn, query, args, func(rows *sql.Rows) (models.DateCount, error) {
		var dc models.DateCount
		err := rows.Scan(&dc.Date, &dc.Count)
		return dc, err
	})
}

// GetConversionStats breaks visit responses in range down by the converted
// and already-betting flags. The range applies to the parent checkin's
// timestamp.
func (db *DB) GetConversionStats(ctx context.Context, filter CheckinFilter) (*models.ConversionStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	conditions, args := filter.dateOnlyConditions("c")
	where := "1=1"
	if len(conditions) > 0 {
		where += " AND " + strings.Join(conditions, " AND ")
	}

	row := db.conn.QueryRowContext(ctx, fmt.Sprintf(`SELECT
			COUNT(*) FILTER (WHERE vr.converted = 1),
			COUNT(*) FILTER (WHERE vr.converted = 0),
			COUNT(*) FILTER (WHERE vr.already_betting = 1),
			COUNT(*) FILTER (WHERE vr.already_betting = 0)
		FROM visit_responses vr
		JOIN checkins c ON vr.checkin_id = c.id
		WHERE %s`, where), args...)

	var stats models.ConversionStats
	if err := row.Scan(&stats.ConvertedYes, &stats.ConvertedNo,
		&stats.BettingYes, &stats.BettingNo); err != nil {
		return nil, fmt.Errorf("failed to compute conversion stats: %w", err)
	}
	return &stats, nil
}

// ListCustomersAnalytics returns one page of visit responses joined with
// checkin, shop and agent name, newest checkin first, plus the total count
// and the conversion stats block for the same range.
func (db *DB) ListCustomersAnalytics(ctx context.Context, filter CheckinFilter) ([]models.CustomerRecord, int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	conditions, args := filter.dateOnlyConditions("c")
	where := "1=1"
	if len(conditions) > 0 {
		where += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT vr.id, vr.checkin_id, c.agent_id, ap.agent_name,
			c.shop_id, s.name, c.timestamp, c.status, vr.visit_type, vr.responses,
			vr.converted, vr.already_betting, vr.created_at
		FROM visit_responses vr
		JOIN checkins c ON vr.checkin_id = c.id
		LEFT JOIN shops s ON c.shop_id = s.id
		LEFT JOIN agent_performance ap ON c.agent_id = ap.agent_id
		WHERE %s
		ORDER BY c.timestamp DESC, vr.id DESC
		LIMIT ? OFFSET ?`, where)
	pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset())

	records, err := queryAndScan(ctx, db.conn, query, pageArgs, func(rows *sql.Rows) (models.CustomerRecord, error) {
		var cr models.CustomerRecord
		var agentName, shopName, visitType, responses sql.NullString
		var shopID sql.NullInt64
		err := rows.Scan(&cr.ResponseID, &cr.CheckinID, &cr.AgentID, &agentName,
			&shopID, &shopName, &cr.Timestamp, &cr.Status, &visitType, &responses,
			&cr.Converted, &cr.AlreadyBetting, &cr.CreatedAt)
		cr.AgentName = nullableString(agentName)
		cr.ShopID = nullableInt64(shopID)
		cr.ShopName = nullableString(shopName)
		cr.VisitType = nullableString(visitType)
		cr.Responses = nullableString(responses)
		return cr, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers analytics: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*)
		FROM visit_responses vr
		JOIN checkins c ON vr.checkin_id = c.id
		WHERE %s`, where)
	total, err := queryCount(ctx, db.conn, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customers analytics: %w", err)
	}

	return records, total, nil
}

// GetCustomerRecord returns the joined record for one checkin id, or
// ErrNotFound when the checkin has no visit response.
func (db *DB) GetCustomerRecord(ctx context.Context, checkinID int64) (*models.CustomerRecord, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT vr.id, vr.checkin_id, c.agent_id, ap.agent_name,
			c.shop_id, s.name, c.timestamp, c.status, vr.visit_type, vr.responses,
			vr.converted, vr.already_betting, vr.created_at
		FROM visit_responses vr
		JOIN checkins c ON vr.checkin_id = c.id
		LEFT JOIN shops s ON c.shop_id = s.id
		LEFT JOIN agent_performance ap ON c.agent_id = ap.agent_id
		WHERE vr.checkin_id = ?
		ORDER BY vr.id LIMIT 1`, checkinID)

	var cr models.CustomerRecord
	var agentName, shopName, visitType, responses sql.NullString
	var shopID sql.NullInt64
	err := row.Scan(&cr.ResponseID, &cr.CheckinID, &cr.AgentID, &agentName,
		&shopID, &shopName, &cr.Timestamp, &cr.Status, &visitType, &responses,
		&cr.Converted, &cr.AlreadyBetting, &cr.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer record for checkin %d: %w", checkinID, err)
	}
	cr.AgentName = nullableString(agentName)
	cr.ShopID = nullableInt64(shopID)
	cr.ShopName = nullableString(shopName)
	cr.VisitType = nullableString(visitType)
	cr.Responses = nullableString(responses)
	return &cr, nil
}
