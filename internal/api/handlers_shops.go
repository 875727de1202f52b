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

// Shops returns the paginated shop directory ordered by id.
// GET /api/shops?page&limit
func (h *Handlers) Shops(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultShopLimit)

	shops, total, err := h.db.ListShops(r.Context(), filter.Page, filter.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load shops", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"shops": shops,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// ShopDetail returns one shop with its recent checkins and activity totals.
// GET /api/shops/:id
func (h *Handlers) ShopDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "shop not found", nil)
		return
	}

	shop, checkins, stats, err := h.db.GetShopDetail(r.Context(), id, shopDetailCheckins)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "shop not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load shop", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"shop":     shop,
		"checkins": checkins,
		"stats":    stats,
	})
}

// ShopsAnalytics returns the per-shop activity rollup, restricted to shops
// with at least one checkin matching the filter.
// GET /api/shops-analytics?page&limit&startDate&endDate
func (h *Handlers) ShopsAnalytics(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r, defaultShopLimit)

	shops, total, err := h.db.ListShopsAnalytics(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load shop analytics", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"shops": shops,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
