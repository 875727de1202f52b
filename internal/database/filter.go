// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package database

import (
	"fmt"
	"strings"
)

// CheckinFilter carries the optional request parameters every aggregation
// query understands. All fields are optional and combine with AND logic.
//
// Date bounds are inclusive ISO dates (YYYY-MM-DD). They compare against the
// date part of the checkin timestamp as strings; ISO-8601 sorts correctly
// lexicographically, so startDate == endDate matches the whole day.
//
// CheckinFilter is immutable after creation and safe for concurrent reads.
type CheckinFilter struct {
	StartDate string
	EndDate   string
	Status    string
	AgentID   *int64
	Page      int
	Limit     int
}

// Offset computes the pagination offset from page and limit.
func (f CheckinFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}

// HasDateRange reports whether any date bound is set.
func (f CheckinFilter) HasDateRange() bool {
	return f.StartDate != "" || f.EndDate != ""
}

// buildConditions builds WHERE clause fragments and bind arguments for the
// filter against the checkin table aliased as tsAlias (e.g. "c"). Values are
// always bound, never interpolated into the query text.
func (f CheckinFilter) buildConditions(tsAlias string) ([]string, []interface{}) {
	prefix := ""
	if tsAlias != "" {
		prefix = tsAlias + "."
	}

	clauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if f.StartDate != "" {
		clauses = append(clauses, fmt.Sprintf("substr(%stimestamp, 1, 10) >= ?", prefix))
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		clauses = append(clauses, fmt.Sprintf("substr(%stimestamp, 1, 10) <= ?", prefix))
		args = append(args, f.EndDate)
	}
	if f.Status != "" {
		clauses = append(clauses, fmt.Sprintf("%sstatus = ?", prefix))
		args = append(args, f.Status)
	}
	if f.AgentID != nil {
		clauses = append(clauses, fmt.Sprintf("%sagent_id = ?", prefix))
		args = append(args, *f.AgentID)
	}

	return clauses, args
}

// whereClause renders the filter as a WHERE clause string starting with
// "1=1" so callers can concatenate safely, plus the bind arguments.
func (f CheckinFilter) whereClause(tsAlias string) (string, []interface{}) {
	clauses, args := f.buildConditions(tsAlias)
	if len(clauses) == 0 {
		return "1=1", args
	}
	return "1=1 AND " + strings.Join(clauses, " AND "), args
}

// dateOnlyConditions builds conditions for queries that only understand the
// date range, ignoring status and agent (e.g. visit-response joins where the
// range applies to the parent checkin).
func (f CheckinFilter) dateOnlyConditions(tsAlias string) ([]string, []interface{}) {
	dateFilter := CheckinFilter{StartDate: f.StartDate, EndDate: f.EndDate}
	return dateFilter.buildConditions(tsAlias)
}
