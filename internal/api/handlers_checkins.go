// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ssreports/ssreports/internal/database"
)

// Checkins returns a filtered, paginated checkin listing. The total count
// shares the listing's predicate and ignores pagination.
// GET /api/checkins?page&limit&startDate&endDate&agentId&status
func (h *Handlers) Checkins(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultListLimit)

	checkins, total, err := h.db.ListCheckins(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load checkins", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"checkins": checkins,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

// CheckinDetail returns one checkin and its visit response, if any.
// GET /api/checkins/:id
func (h *Handlers) CheckinDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "checkin not found", nil)
		return
	}

	checkin, response, err := h.db.GetCheckin(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "checkin not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load checkin", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"checkin":  checkin,
		"response": response,
	})
}

// CheckinsMap returns up to 1000 geolocated checkins for the map view.
// Checkins at (0,0) are unlocated and excluded.
// GET /api/checkins-map?startDate&endDate
func (h *Handlers) CheckinsMap(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultListLimit)

	points, err := h.db.ListMapCheckins(r.Context(), filter, mapPointLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load map checkins", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"checkins": points})
}
