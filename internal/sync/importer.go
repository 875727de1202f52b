// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

// Package sync imports the upstream snapshot export into the local cache.
// The upstream job writes one JSON array file per table; each run replaces
// the corresponding tables wholesale, so re-importing identical input
// yields an identical cache.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/ssreports/ssreports/internal/database"
	"github.com/ssreports/ssreports/internal/logging"
	"github.com/ssreports/ssreports/internal/metrics"
	"github.com/ssreports/ssreports/internal/models"
)

// Snapshot file names written by the upstream export job.
const (
	fileShops            = "shops.json"
	fileCheckins         = "checkins.json"
	fileVisitResponses   = "visit_responses.json"
	fileAgentPerformance = "agent_performance.json"
	fileCheckinsByHour   = "checkins_by_hour.json"
	fileCheckinsByDay    = "checkins_by_day.json"
	fileGeoHotspots      = "geographic_hotspots.json"
)

// Importer replaces the cache tables from a snapshot source.
type Importer struct {
	db     *database.DB
	source Source
}

// NewImporter creates a snapshot importer.
func NewImporter(db *database.DB, source Source) *Importer {
	return &Importer{db: db, source: source}
}

// RunOnce performs one full snapshot import and records its metrics. The
// three raw tables are required; the rollup files are optional and their
// tables keep the previous snapshot when the file is absent.
func (imp *Importer) RunOnce(ctx context.Context) error {
	start := time.Now()
	err := imp.run(ctx)
	metrics.RecordSyncRun(time.Since(start), err)

	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Dur("elapsed", time.Since(start)).Msg("Snapshot sync failed")
		return err
	}

	if counts, cErr := imp.db.TableCounts(ctx); cErr == nil {
		metrics.UpdateSnapshotRows(counts)
	}
	logging.Ctx(ctx).Info().Dur("elapsed", time.Since(start)).Msg("Snapshot sync completed")
	return nil
}

func (imp *Importer) run(ctx context.Context) error {
	shops, err := fetchRecords[models.Shop](ctx, imp.source, fileShops)
	if err != nil {
		return err
	}
	checkins, err := fetchRecords[models.Checkin](ctx, imp.source, fileCheckins)
	if err != nil {
		return err
	}
	responses, err := fetchRecords[models.VisitResponse](ctx, imp.source, fileVisitResponses)
	if err != nil {
		return err
	}

	if err := imp.db.ReplaceShops(ctx, shops); err != nil {
		return err
	}
	if err := imp.db.ReplaceCheckins(ctx, checkins); err != nil {
		return err
	}
	if err := imp.db.ReplaceVisitResponses(ctx, responses); err != nil {
		return err
	}

	if agents, ok, err := fetchOptional[models.AgentPerformance](ctx, imp.source, fileAgentPerformance); err != nil {
		return err
	} else if ok {
		if err := imp.db.ReplaceAgentPerformance(ctx, agents); err != nil {
			return err
		}
	}
	if hours, ok, err := fetchOptional[models.HourBucket](ctx, imp.source, fileCheckinsByHour); err != nil {
		return err
	} else if ok {
		if err := imp.db.ReplaceHourBuckets(ctx, hours); err != nil {
			return err
		}
	}
	if days, ok, err := fetchOptional[models.DayBucket](ctx, imp.source, fileCheckinsByDay); err != nil {
		return err
	} else if ok {
		if err := imp.db.ReplaceDayBuckets(ctx, days); err != nil {
			return err
		}
	}
	if hotspots, ok, err := fetchOptional[models.GeoHotspot](ctx, imp.source, fileGeoHotspots); err != nil {
		return err
	} else if ok {
		if err := imp.db.ReplaceGeoHotspots(ctx, hotspots); err != nil {
			return err
		}
	}

	return nil
}

// fetchRecords fetches and decodes one required snapshot file.
func fetchRecords[T any](ctx context.Context, source Source, name string) ([]T, error) {
	data, err := source.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", name, err)
	}
	return records, nil
}

// fetchOptional fetches one rollup file; a missing file is skipped.
func fetchOptional[T any](ctx context.Context, source Source, name string) ([]T, bool, error) {
	records, err := fetchRecords[T](ctx, source, name)
	if err != nil {
		if errors.Is(err, ErrSnapshotMissing) {
			logging.Ctx(ctx).Warn().Str("file", name).Msg("Optional snapshot file missing, keeping previous rollup")
			return nil, false, nil
		}
		return nil, false, err
	}
	return records, true, nil
}
