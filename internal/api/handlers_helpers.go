// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package api

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/ssreports/ssreports/internal/database"
	"github.com/ssreports/ssreports/internal/logging"
)

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error envelope. Internal detail goes to the log,
// never to the client.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logging.Error().Err(err).Int("status", status).Msg("API error")
	}
	respondJSON(w, status, map[string]string{"error": message})
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// parseFilter normalizes the common query parameters into a filter. Values
// that fail to parse fall back to defaults rather than erroring; loosely
// typed callers depend on this.
func parseFilter(r *http.Request, defaultLimit int) database.CheckinFilter {
	q := r.URL.Query()

	filter := database.CheckinFilter{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Status:    q.Get("status"),
		Page:      getIntParam(r, "page", 1),
		Limit:     getIntParam(r, "limit", defaultLimit),
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}

	if raw := q.Get("agentId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.AgentID = &id
		}
	}

	return filter
}

// parsePathID parses a numeric path segment such as /api/shops/{id}.
func parsePathID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// escapeCSV escapes a string for CSV format
func escapeCSV(s string) string {
	needsQuotes := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuotes = true
			break
		}
	}

	if !needsQuotes {
		return s
	}

	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\"\""
		} else {
			escaped += string(c)
		}
	}

	return "\"" + escaped + "\""
}

// csvString renders a nullable string for CSV output; null becomes empty.
func csvString(s *string) string {
	if s == nil {
		return ""
	}
	return escapeCSV(*s)
}

// csvInt64 renders a nullable integer for CSV output; null becomes empty.
func csvInt64(i *int64) string {
	if i == nil {
		return ""
	}
	return strconv.FormatInt(*i, 10)
}

// csvInt renders a nullable int for CSV output; null becomes empty.
func csvInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
