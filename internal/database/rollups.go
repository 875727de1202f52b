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

// The hour/day/agent/hotspot views exist in two flavors. The Live variants
// aggregate the raw tables and honor the date-range filter. The Rollup
// variants read the precomputed tables shipped by the sync job, which ignore
// any filter; they are kept for compatibility with the legacy dashboard and
// selected via the analytics.use_rollups config toggle.

// GetCheckinsByHourLive counts checkins per hour of day (0-23) in range.
// Hours with no checkins are omitted.
func (db *DB) GetCheckinsByHourLive(ctx context.Context, filter CheckinFilter) ([]models.HourBucket, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause("")
	query := fmt.Sprintf(`SELECT CAST(substr(timestamp, 12, 2) AS INTEGER) AS hour, COUNT(*) AS count
		FROM checkins WHERE %s
		GROUP BY hour
		ORDER BY hour`, where)

	return queryAndScan(ctx, db.conn, query, args, func(rows *sql.Rows) (models.HourBucket, error) {
		var hb models.HourBucket
		err := rows.Scan(&hb.Hour, &hb.Count)
		return hb, err
	})
}

// GetCheckinsByHourRollup reads the precomputed hourly rollup.
func (db *DB) GetCheckinsByHourRollup(ctx context.Context) ([]models.HourBucket, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return queryAndScan(ctx, db.conn,
		`SELECT hour, count FROM checkins_by_hour ORDER BY hour`, nil,
		func(rows *sql.Rows) (models.HourBucket, error) {
			var hb models.HourBucket
			err := rows.Scan(&hb.Hour, &hb.Count)
			return hb, err
		})
}

// GetCheckinsByDayLive counts checkins per day of week in range. Day numbers
// follow the upstream convention (1=Sunday .. 7=Saturday).
func (db *DB) GetCheckinsByDayLive(ctx context.Context, filter CheckinFilter) ([]models.DayBucket, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause("")
	query := fmt.Sprintf(`SELECT
			dayofweek(CAST(substr(timestamp, 1, 10) AS DATE)) + 1 AS day_num,
			dayname(CAST(substr(timestamp, 1, 10) AS DATE)) AS day_name,
			COUNT(*) AS count
		FROM checkins WHERE %s
		GROUP BY day_num, day_name
		ORDER BY day_num`, where)

	return queryAndScan(ctx, db.conn, query, args, func(rows *sql.Rows) (models.DayBucket, error) {
		var dbkt models.DayBucket
		err := rows.Scan(&dbkt.DayNum, &dbkt.DayName, &dbkt.Count)
		return dbkt, err
	})
}

// GetCheckinsByDayRollup reads the precomputed day-of-week rollup.
func (db *DB) GetCheckinsByDayRollup(ctx context.Context) ([]models.DayBucket, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return queryAndScan(ctx, db.conn,
		`SELECT day_num, day_name, count FROM checkins_by_day ORDER BY day_num`, nil,
		func(rows *sql.Rows) (models.DayBucket, error) {
			var dbkt models.DayBucket
			err := rows.Scan(&dbkt.DayNum, &dbkt.DayName, &dbkt.Count)
			return dbkt, err
		})
}

// GetAgentPerformanceLive computes the agent leaderboard from the raw
// tables, ordered by checkin count descending, capped at limit.
func (db *DB) GetAgentPerformanceLive(ctx context.Context, filter CheckinFilter, limit int) ([]models.AgentPerformance, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	conditions, args := filter.dateOnlyConditions("c")
	where := "1=1"
	if len(conditions) > 0 {
		where += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT c.agent_id,
			MAX(ap.agent_name) AS agent_name,
			COUNT(*) AS checkin_count,
			COUNT(*) FILTER (WHERE vr.converted = 1) AS conversions,
			ROUND(100.0 * COUNT(*) FILTER (WHERE vr.converted = 1) / COUNT(*), 2) AS conversion_rate
		FROM checkins c
		LEFT JOIN visit_responses vr ON vr.checkin_id = c.id
		LEFT JOIN agent_performance ap ON c.agent_id = ap.agent_id
		WHERE %s
		GROUP BY c.agent_id
		ORDER BY checkin_count DESC, c.agent_id
		LIMIT ?`, where)
	args = append(args, limit)

	return queryAndScan(ctx, db.conn, query, args, scanAgentPerformance)
}

// GetAgentPerformanceRollup reads the precomputed leaderboard, capped at
// limit.
func (db *DB) GetAgentPerformanceRollup(ctx context.Context, limit int) ([]models.AgentPerformance, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return queryAndScan(ctx, db.conn,
		`SELECT agent_id, agent_name, checkin_count, conversions, conversion_rate
		FROM agent_performance
		ORDER BY checkin_count DESC, agent_id
		LIMIT ?`, []interface{}{limit}, scanAgentPerformance)
}

func scanAgentPerformance(rows *sql.Rows) (models.AgentPerformance, error) {
	var ap models.AgentPerformance
	var name sql.NullString
	err := rows.Scan(&ap.AgentID, &name, &ap.CheckinCount, &ap.Conversions, &ap.ConversionRate)
	ap.AgentName = nullableString(name)
	return ap, err
}

// GetGeoHotspotsLive clusters geolocated checkins by exact coordinates and
// returns the top clusters by count. Unlocated (0,0) checkins are excluded.
func (db *DB) GetGeoHotspotsLive(ctx context.Context, filter CheckinFilter, limit int) ([]models.GeoHotspot, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause("")
	query := fmt.Sprintf(`SELECT latitude, longitude, COUNT(*) AS count
		FROM checkins
		WHERE %s AND NOT (latitude = 0 AND longitude = 0)
		GROUP BY latitude, longitude
		ORDER BY count DESC
		LIMIT ?`, where)
	args = append(args, limit)

	return queryAndScan(ctx, db.conn, query, args, scanGeoHotspot)
}

// GetGeoHotspotsRollup reads the precomputed hotspot clusters.
func (db *DB) GetGeoHotspotsRollup(ctx context.Context, limit int) ([]models.GeoHotspot, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return queryAndScan(ctx, db.conn,
		`SELECT latitude, longitude, count FROM geographic_hotspots ORDER BY count DESC LIMIT ?`,
		[]interface{}{limit}, scanGeoHotspot)
}

func scanGeoHotspot(rows *sql.Rows) (models.GeoHotspot, error) {
	var g models.GeoHotspot
	err := rows.Scan(&g.Latitude, &g.Longitude, &g.Count)
	return g, err
}
