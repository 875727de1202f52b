// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

// Package api provides the HTTP handlers and Chi router for the dashboard.
package api

import (
	"context"

	"github.com/ssreports/ssreports/internal/config"
	"github.com/ssreports/ssreports/internal/database"
)

// Default page sizes per endpoint group.
const (
	defaultListLimit     = 50
	defaultShopLimit     = 50
	defaultCustomerLimit = 50
	shopDetailCheckins   = 100
	agentLeaderboardSize = 20
	hotspotLimit         = 100
	mapPointLimit        = 1000
)

// SyncRunner triggers a snapshot sync run on demand.
type SyncRunner interface {
	RunOnce(ctx context.Context) error
}

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	db   *database.DB
	cfg  *config.Config
	sync SyncRunner
}

// NewHandlers creates the handler set. sync may be nil when the importer is
// disabled; the manual trigger endpoint then reports 503.
func NewHandlers(db *database.DB, cfg *config.Config, sync SyncRunner) *Handlers {
	return &Handlers{
		db:   db,
		cfg:  cfg,
		sync: sync,
	}
}
