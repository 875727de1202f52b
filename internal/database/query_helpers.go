// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/ssreports/ssreports/internal/metrics"
)

// scanFunc scans a single row into a result type.
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan executes a query and scans all rows with the provided scan
// function. Returns a non-nil empty slice when no rows match.
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []interface{}, scan scanFunc[T]) (results []T, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", time.Since(start), err) }()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results = []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// queryCount executes a COUNT query sharing the same predicate and bind
// arguments as its paginated sibling. Keeping predicate construction shared
// is what guarantees total never diverges from the page contents.
func queryCount(ctx context.Context, db *sql.DB, query string, args []interface{}) (total int64, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("count", time.Since(start), err) }()

	if err = db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// nullableString converts a sql.NullString to a *string.
func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// nullableInt64 converts a sql.NullInt64 to a *int64.
func nullableInt64(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}
