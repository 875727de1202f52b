// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

// Package main is the entry point for the SSReports server.
//
// SSReports is a reporting and analytics dashboard for field-sales checkin
// data. It serves KPIs, time-bucketed counts, agent and shop rollups,
// paginated drill-downs and CSV/JSON exports from a local DuckDB cache
// that is periodically replaced from an upstream snapshot export.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, config file, env)
//  2. Logging: zerolog, console or JSON format
//  3. Database: DuckDB cache with the snapshot schema
//  4. Admin seed: initial admin account when the users table is empty
//  5. Auth: JWT manager and middleware
//  6. Sync: snapshot importer and interval scheduler (optional)
//  7. HTTP server: Chi router under a suture supervisor tree
//
// The server handles graceful shutdown on SIGINT and SIGTERM: the
// supervisor context is canceled, in-flight requests get the configured
// shutdown timeout, and the database is closed last.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/ssreports/ssreports/internal/api"
	"github.com/ssreports/ssreports/internal/auth"
	"github.com/ssreports/ssreports/internal/config"
	"github.com/ssreports/ssreports/internal/database"
	"github.com/ssreports/ssreports/internal/logging"
	"github.com/ssreports/ssreports/internal/supervisor"
	"github.com/ssreports/ssreports/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("sync_enabled", cfg.Sync.Enabled).
		Bool("auth_disabled", cfg.Security.AuthDisabled).
		Msg("Starting SSReports")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	if err := auth.SeedAdmin(context.Background(), db, cfg.Security.AdminEmail, cfg.Security.AdminPassword); err != nil {
		logging.Fatal().Err(err).Msg("Failed to seed admin user")
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil && !cfg.Security.AuthDisabled {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	authMW := auth.NewMiddleware(jwtManager, cfg.Security.AuthDisabled)
	authHandlers := auth.NewHandlers(db, jwtManager)

	var (
		importer  *sync.Importer
		scheduler *sync.Scheduler
	)
	if cfg.Sync.Enabled {
		var source sync.Source
		if cfg.Sync.SourceURL != "" {
			source = sync.NewHTTPSource(cfg.Sync.SourceURL, cfg.Sync.FetchTimeout)
		} else {
			source = sync.NewDirSource(cfg.Sync.SourceDir)
		}
		importer = sync.NewImporter(db, source)
		scheduler = sync.NewScheduler(importer, cfg.Sync.Interval)
	}

	var syncRunner api.SyncRunner
	if importer != nil {
		syncRunner = importer
	}
	handlers := api.NewHandlers(db, cfg, syncRunner)
	router := api.NewRouter(handlers, authHandlers, authMW, cfg)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router.Setup(),
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if scheduler != nil {
		tree.AddDataService(scheduler)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Server listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree exited with error")
	}

	logging.Info().Msg("Shutdown complete")
}
