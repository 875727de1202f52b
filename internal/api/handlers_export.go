// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ssreports/ssreports/internal/metrics"
	"github.com/ssreports/ssreports/internal/models"
)

// csvHeader is a compatibility contract with downstream spreadsheet
// consumers. Column order must not change.
const csvHeader = "id,agent_id,agent_name,shop_id,shop_name,timestamp,status,latitude,longitude,notes,visit_type,converted,already_betting"

// ExportCheckins returns the full unpaginated checkin+response listing as
// JSON or a CSV attachment. Errors are always a JSON envelope, never
// malformed CSV.
// GET /api/export/checkins?startDate&endDate&format=json|csv
func (h *Handlers) ExportCheckins(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultListLimit)
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "csv" {
		format = "json"
	}

	rows, err := h.db.ListExportRows(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load export data", err)
		return
	}

	metrics.RecordExport(format, len(rows))

	if format == "csv" {
		writeCSV(w, rows)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"checkins": rows,
		"total":    len(rows),
	})
}

func writeCSV(w http.ResponseWriter, rows []models.ExportRow) {
	var sb strings.Builder
	sb.WriteString(csvHeader)
	sb.WriteByte('\n')

	for _, row := range rows {
		fields := []string{
			strconv.FormatInt(row.ID, 10),
			strconv.FormatInt(row.AgentID, 10),
			csvString(row.AgentName),
			csvInt64(row.ShopID),
			csvString(row.ShopName),
			escapeCSV(row.Timestamp),
			escapeCSV(row.Status),
			strconv.FormatFloat(row.Latitude, 'f', -1, 64),
			strconv.FormatFloat(row.Longitude, 'f', -1, 64),
			csvString(row.Notes),
			csvString(row.VisitType),
			csvInt(row.Converted),
			csvInt(row.AlreadyBetting),
		}
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteByte('\n')
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="checkins_export.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sb.String()))
}
