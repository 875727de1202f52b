// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

// Package models defines the entities held in the reporting cache and the
// payload shapes served by the HTTP API.
//
// All synced entities carry timestamps as ISO-8601 strings, exactly as the
// upstream export job writes them. ISO-8601 sorts correctly as text, which
// the date-range filtering relies on.
package models

// Checkin statuses. Unrecognized values coming from the upstream system are
// rendered as-is, never rejected.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusFlagged  = "FLAGGED"
)

// User roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// User is a locally managed dashboard account. Unlike the synced entities it
// is created and deleted through the API, never bulk-replaced.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// Shop is a synced retail location. Latitude/longitude of (0,0) means the
// shop is unlocated and is excluded from map and analytics views.
type Shop struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Address   *string `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Checkin is a single field visit event by an agent.
type Checkin struct {
	ID         int64   `json:"id"`
	AgentID    int64   `json:"agent_id"`
	ShopID     *int64  `json:"shop_id"`
	Timestamp  string  `json:"timestamp"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	PhotoPath  *string `json:"photo_path"`
	Notes      *string `json:"notes"`
	Status     string  `json:"status"`
	BrandID    *int64  `json:"brand_id"`
	CategoryID *int64  `json:"category_id"`
	ProductID  *int64  `json:"product_id"`
}

// VisitResponse is the structured outcome of a checkin's customer
// interaction. Responses holds the raw survey answers as serialized JSON;
// Converted and AlreadyBetting are derived flags precomputed by the sync job.
type VisitResponse struct {
	ID             int64   `json:"id"`
	CheckinID      int64   `json:"checkin_id"`
	VisitType      *string `json:"visit_type"`
	Responses      *string `json:"responses"`
	Converted      int     `json:"converted"`
	AlreadyBetting int     `json:"already_betting"`
	CreatedAt      string  `json:"created_at"`
}

// AgentPerformance is a precomputed per-agent rollup shipped by the sync job.
// It may drift from the raw tables until the next sync cycle.
type AgentPerformance struct {
	AgentID        int64   `json:"agent_id"`
	AgentName      *string `json:"agent_name"`
	CheckinCount   int64   `json:"checkin_count"`
	Conversions    int64   `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`
}

// HourBucket is a precomputed checkin count for one hour of day (0-23).
type HourBucket struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// DayBucket is a precomputed checkin count for one day of week. DayNum
// follows the upstream database convention (1=Sunday .. 7=Saturday).
type DayBucket struct {
	DayNum  int    `json:"day_num"`
	DayName string `json:"day_name"`
	Count   int64  `json:"count"`
}

// GeoHotspot is a precomputed coordinate cluster with its checkin count.
type GeoHotspot struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"count"`
}
