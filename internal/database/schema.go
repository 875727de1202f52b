// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package database

import "fmt"

// schemaStatements creates the cache tables. The synced tables mirror the
// upstream export job's output exactly; timestamps are stored as ISO-8601
// text because that is what the export writes and string comparison on ISO
// dates is the filtering contract.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS seq_users_id START 1`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_users_id'),
		email VARCHAR NOT NULL UNIQUE,
		password_hash VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		role VARCHAR NOT NULL DEFAULT 'viewer',
		created_at VARCHAR NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS shops (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		address VARCHAR,
		latitude DOUBLE NOT NULL DEFAULT 0,
		longitude DOUBLE NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS checkins (
		id BIGINT PRIMARY KEY,
		agent_id BIGINT NOT NULL,
		shop_id BIGINT,
		timestamp VARCHAR NOT NULL,
		latitude DOUBLE NOT NULL DEFAULT 0,
		longitude DOUBLE NOT NULL DEFAULT 0,
		photo_path VARCHAR,
		notes VARCHAR,
		status VARCHAR NOT NULL DEFAULT 'PENDING',
		brand_id BIGINT,
		category_id BIGINT,
		product_id BIGINT
	)`,

	`CREATE TABLE IF NOT EXISTS visit_responses (
		id BIGINT PRIMARY KEY,
		checkin_id BIGINT NOT NULL,
		visit_type VARCHAR,
		responses VARCHAR,
		converted INTEGER NOT NULL DEFAULT 0,
		already_betting INTEGER NOT NULL DEFAULT 0,
		created_at VARCHAR NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS agent_performance (
		agent_id BIGINT PRIMARY KEY,
		agent_name VARCHAR,
		checkin_count BIGINT NOT NULL DEFAULT 0,
		conversions BIGINT NOT NULL DEFAULT 0,
		conversion_rate DOUBLE NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS checkins_by_hour (
		hour INTEGER PRIMARY KEY,
		count BIGINT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS checkins_by_day (
		day_num INTEGER PRIMARY KEY,
		day_name VARCHAR NOT NULL,
		count BIGINT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS geographic_hotspots (
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		count BIGINT NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_checkins_timestamp ON checkins (timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_checkins_agent ON checkins (agent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_checkins_shop ON checkins (shop_id)`,
	`CREATE INDEX IF NOT EXISTS idx_responses_checkin ON visit_responses (checkin_id)`,
}

// initialize creates the schema if it does not exist.
func (db *DB) initialize() error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
