// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package sync

import (
	"context"
	"time"

	"github.com/ssreports/ssreports/internal/logging"
)

// Scheduler runs the importer on a fixed interval as a supervised service.
// Failed runs are logged and retried on the next tick; the service itself
// only exits on context cancellation, so the supervisor does not thrash on
// a flaky upstream.
type Scheduler struct {
	importer *Importer
	interval time.Duration
}

// NewScheduler creates an interval scheduler around the importer.
func NewScheduler(importer *Importer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		importer: importer,
		interval: interval,
	}
}

// Serve implements suture.Service. Runs one import immediately, then on
// every tick until the context is canceled.
func (s *Scheduler) Serve(ctx context.Context) error {
	if err := s.importer.RunOnce(ctx); err != nil {
		logging.Warn().Err(err).Msg("Initial snapshot sync failed, will retry on next tick")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.importer.RunOnce(ctx); err != nil {
				logging.Warn().Err(err).Msg("Scheduled snapshot sync failed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *Scheduler) String() string {
	return "snapshot-sync"
}
