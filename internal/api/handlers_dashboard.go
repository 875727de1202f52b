// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package api

import (
	"net/http"

	"github.com/ssreports/ssreports/internal/models"
)

// KPIs returns the dashboard headline numbers for an optional date range.
// GET /api/dashboard/kpis?startDate&endDate
func (h *Handlers) KPIs(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultListLimit)

	kpis, err := h.db.GetKPISummary(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load KPI summary", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"kpis": kpis})
}

// CheckinsByDate returns one (date, count) row per calendar date with at
// least one checkin in range, sorted ascending. Empty dates are omitted.
// GET /api/dashboard/checkins-by-date?startDate&endDate
func (h *Handlers) CheckinsByDate(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultListLimit)

	rows, err := h.db.GetCheckinsByDate(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load checkins by date", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": rows})
}

// CheckinsByHour returns the hour-of-day histogram. Computed live from the
// checkin table honoring the date filter unless rollup sourcing is
// configured, in which case the precomputed table is returned and date
// parameters are ignored.
// GET /api/dashboard/checkins-by-hour
func (h *Handlers) CheckinsByHour(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultListLimit)

	var (
		rows []models.HourBucket
		err  error
	)
	if h.cfg.Analytics.UseRollups {
		rows, err = h.db.GetCheckinsByHourRollup(r.Context())
	} else {
		rows, err = h.db.GetCheckinsByHourLive(r.Context(), filter)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load checkins by hour", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": rows})
}

// CheckinsByDay returns the day-of-week histogram, same sourcing rules as
// CheckinsByHour.
// GET /api/dashboard/checkins-by-day
func (h *Handlers) CheckinsByDay(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultListLimit)

	var (
		rows []models.DayBucket
		err  error
	)
	if h.cfg.Analytics.UseRollups {
		rows, err = h.db.GetCheckinsByDayRollup(r.Context())
	} else {
		rows, err = h.db.GetCheckinsByDayLive(r.Context(), filter)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load checkins by day", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": rows})
}

// AgentPerformance returns the top agents by checkin count.
// GET /api/dashboard/agent-performance
func (h *Handlers) AgentPerformance(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultListLimit)

	var (
		rows []models.AgentPerformance
		err  error
	)
	if h.cfg.Analytics.UseRollups {
		rows, err = h.db.GetAgentPerformanceRollup(r.Context(), agentLeaderboardSize)
	} else {
		rows, err = h.db.GetAgentPerformanceLive(r.Context(), filter, agentLeaderboardSize)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load agent performance", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": rows})
}

// ConversionStats breaks visit responses down by the converted and
// already-betting flags within the checkin date range.
// GET /api/dashboard/conversion-stats?startDate&endDate
func (h *Handlers) ConversionStats(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultListLimit)

	stats, err := h.db.GetConversionStats(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load conversion stats", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": stats})
}

// GeographicHotspots returns the densest checkin coordinate clusters.
// GET /api/dashboard/geographic-hotspots
func (h *Handlers) GeographicHotspots(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultListLimit)

	var (
		rows []models.GeoHotspot
		err  error
	)
	if h.cfg.Analytics.UseRollups {
		rows, err = h.db.GetGeoHotspotsRollup(r.Context(), hotspotLimit)
	} else {
		rows, err = h.db.GetGeoHotspotsLive(r.Context(), filter, hotspotLimit)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load geographic hotspots", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": rows})
}
