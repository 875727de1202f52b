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

// CustomersAnalytics returns one row per visit response joined with its
// checkin, shop and agent, plus the conversion stats for the same range.
// GET /api/customers-analytics?page&limit&startDate&endDate
func (h *Handlers) CustomersAnalytics(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultCustomerLimit)

	customers, total, err := h.db.ListCustomersAnalytics(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load customer analytics", err)
		return
	}

	stats, err := h.db.GetConversionStats(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load conversion stats", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"customers": customers,
		"total":     total,
		"stats":     stats,
		"page":      filter.Page,
		"limit":     filter.Limit,
	})
}

// CustomerDetail returns the joined record for one checkin's visit response.
// GET /api/customer/:checkinId
func (h *Handlers) CustomerDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(chi.URLParam(r, "checkinId"))
	if !ok {
		respondError(w, http.StatusNotFound, "customer record not found", nil)
		return
	}

	record, err := h.db.GetCustomerRecord(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "customer record not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load customer record", err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}
