// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

// Package config provides layered configuration for SSReports.
//
// Configuration is loaded via Koanf v2 with layered sources, highest
// priority last:
//
//  1. Built-in defaults (struct)
//  2. Config file (config.yaml, optional, path overridable via CONFIG_PATH)
//  3. Environment variables (SERVER_PORT, DATABASE_PATH, JWT_SECRET, ...)
//
// The resulting struct is validated with go-playground/validator before use.
package config

import (
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Sync      SyncConfig      `koanf:"sync"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// CORSOrigins lists allowed origins for browser clients. "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimit is the per-IP request budget per minute for API endpoints.
	RateLimit int `koanf:"rate_limit" validate:"min=1"`

	// LoginRateLimit is the per-IP login attempt budget per five minutes.
	LoginRateLimit int `koanf:"login_rate_limit" validate:"min=1"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings for the reporting cache.
type DatabaseConfig struct {
	// Path is the DuckDB database file, or ":memory:" for tests.
	Path string `koanf:"path" validate:"required"`

	// MaxMemory caps DuckDB memory usage (e.g. "1GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 means NumCPU.
	Threads int `koanf:"threads" validate:"min=0"`
}

// SecurityConfig holds authentication settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret" validate:"omitempty,min=32"`

	// SessionTimeout is the token lifetime.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminEmail and AdminPassword seed the initial admin account when the
	// users table is empty.
	AdminEmail    string `koanf:"admin_email" validate:"omitempty,email"`
	AdminPassword string `koanf:"admin_password" validate:"omitempty,min=8"`

	// AuthDisabled turns off authentication entirely. Development only.
	AuthDisabled bool `koanf:"auth_disabled"`
}

// SyncConfig holds snapshot importer settings.
type SyncConfig struct {
	// Enabled starts the periodic importer.
	Enabled bool `koanf:"enabled"`

	// SourceDir is a local directory holding the snapshot JSON files
	// produced by the upstream export job.
	SourceDir string `koanf:"source_dir"`

	// SourceURL is an HTTP base URL serving the same snapshot files.
	// Takes precedence over SourceDir when set.
	SourceURL string `koanf:"source_url" validate:"omitempty,url"`

	// Interval between sync runs.
	Interval time.Duration `koanf:"interval"`

	// FetchTimeout bounds a single snapshot file download.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
}

// AnalyticsConfig holds dashboard query behavior toggles.
type AnalyticsConfig struct {
	// UseRollups serves checkins-by-hour, checkins-by-day and
	// agent-performance from the precomputed rollup tables instead of live
	// aggregation. Rollup sourcing ignores date-range filters; it exists for
	// compatibility with the legacy dashboard behavior.
	UseRollups bool `koanf:"use_rollups"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8787,
			CORSOrigins:     []string{"*"},
			RateLimit:       300,
			LoginRateLimit:  5,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "data/ssreports.db",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Security: SecurityConfig{
			JWTSecret:      "",
			SessionTimeout: 24 * time.Hour,
			AuthDisabled:   false,
		},
		Sync: SyncConfig{
			Enabled:      false,
			SourceDir:    "data/snapshot",
			SourceURL:    "",
			Interval:     time.Hour,
			FetchTimeout: 30 * time.Second,
		},
		Analytics: AnalyticsConfig{
			UseRollups: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
