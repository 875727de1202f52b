// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package models

// KPISummary is the dashboard headline block for a date range.
type KPISummary struct {
	TotalCheckins    int64 `json:"total_checkins"`
	ApprovedCheckins int64 `json:"approved_checkins"`
	PendingCheckins  int64 `json:"pending_checkins"`
	ActiveAgents     int64 `json:"active_agents"`
	TotalShops       int64 `json:"total_shops"`
	Conversions      int64 `json:"conversions"`
	TotalVisits      int64 `json:"total_visits"`
}

// DateCount is one row of the checkins-by-date time series. Dates with zero
// checkins are omitted, not zero-filled.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ConversionStats breaks visit responses down by the two boolean KPIs.
type ConversionStats struct {
	ConvertedYes int64 `json:"converted_yes"`
	ConvertedNo  int64 `json:"converted_no"`
	BettingYes   int64 `json:"betting_yes"`
	BettingNo    int64 `json:"betting_no"`
}

// ShopAnalytics is one row of the per-shop activity rollup. Only shops with
// at least one checkin matching the filter appear.
type ShopAnalytics struct {
	ShopID          int64   `json:"shop_id"`
	Name            string  `json:"name"`
	Address         *string `json:"address"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	TotalCheckins   int64   `json:"total_checkins"`
	ApprovedCount   int64   `json:"approved_count"`
	Conversions     int64   `json:"conversions"`
	LastVisit       *string `json:"last_visit"`
	LatestCheckinID *int64  `json:"latest_checkin_id"`
}

// CustomerRecord is one visit response joined with its checkin, shop and
// agent. Missing shop or agent references render as null, not errors.
type CustomerRecord struct {
	ResponseID     int64   `json:"response_id"`
	CheckinID      int64   `json:"checkin_id"`
	AgentID        int64   `json:"agent_id"`
	AgentName      *string `json:"agent_name"`
	ShopID         *int64  `json:"shop_id"`
	ShopName       *string `json:"shop_name"`
	Timestamp      string  `json:"timestamp"`
	Status         string  `json:"status"`
	VisitType      *string `json:"visit_type"`
	Responses      *string `json:"responses"`
	Converted      int     `json:"converted"`
	AlreadyBetting int     `json:"already_betting"`
	CreatedAt      string  `json:"created_at"`
}

// ShopStats summarizes checkin activity for a single shop detail view.
type ShopStats struct {
	TotalCheckins int64   `json:"total_checkins"`
	ApprovedCount int64   `json:"approved_count"`
	Conversions   int64   `json:"conversions"`
	LastVisit     *string `json:"last_visit"`
}

// MapPoint is a geolocated checkin for the map view.
type MapPoint struct {
	ID        int64   `json:"id"`
	AgentID   int64   `json:"agent_id"`
	ShopID    *int64  `json:"shop_id"`
	ShopName  *string `json:"shop_name"`
	Timestamp string  `json:"timestamp"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Status    string  `json:"status"`
}

// ExportRow is one row of the checkin export listing. The field order here
// matches the CSV header contract; null fields serialize as empty strings in
// CSV and as null in JSON.
type ExportRow struct {
	ID             int64   `json:"id"`
	AgentID        int64   `json:"agent_id"`
	AgentName      *string `json:"agent_name"`
	ShopID         *int64  `json:"shop_id"`
	ShopName       *string `json:"shop_name"`
	Timestamp      string  `json:"timestamp"`
	Status         string  `json:"status"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Notes          *string `json:"notes"`
	VisitType      *string `json:"visit_type"`
	Converted      *int    `json:"converted"`
	AlreadyBetting *int    `json:"already_betting"`
}
