// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package api

import (
	"net/http"

	"github.com/ssreports/ssreports/internal/logging"
)

// Health reports liveness and database reachability.
// GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TriggerSync runs a snapshot sync immediately.
// POST /api/sync
func (h *Handlers) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.sync == nil {
		respondError(w, http.StatusServiceUnavailable, "sync is not configured", nil)
		return
	}

	if err := h.sync.RunOnce(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "sync failed", err)
		return
	}

	counts, err := h.db.TableCounts(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to count snapshot rows after sync")
		respondJSON(w, http.StatusOK, map[string]string{"message": "sync completed"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "sync completed",
		"tables":  counts,
	})
}
