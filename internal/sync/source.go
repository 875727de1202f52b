// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ssreports/ssreports/internal/logging"
)

// ErrSnapshotMissing marks a snapshot file absent at the source. Optional
// rollup files may be missing without failing the whole run.
var ErrSnapshotMissing = errors.New("snapshot file missing")

// Source fetches one named snapshot file from the upstream export location.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads snapshot files from a local directory.
type DirSource struct {
	dir string
}

// NewDirSource creates a directory-backed snapshot source.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Fetch reads one snapshot file from the directory.
func (s *DirSource) Fetch(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotMissing, name)
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}
	return data, nil
}

// HTTPSource fetches snapshot files from an HTTP base URL. Requests go
// through a circuit breaker so that a dead upstream stops consuming the
// fetch timeout on every scheduled run.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// NewHTTPSource creates an HTTP-backed snapshot source. The breaker opens
// after a 60% failure rate across at least 5 requests and probes again
// after one minute.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "snapshot-source",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// A missing optional file is an upstream content decision, not an
		// upstream outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrSnapshotMissing)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Snapshot source circuit breaker state change")
		},
	})

	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cb:      cb,
	}
}

// Fetch downloads one snapshot file. A 404 maps to ErrSnapshotMissing.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	return s.cb.Execute(func() ([]byte, error) {
		url := s.baseURL + "/" + name
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build snapshot request: %w", err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch snapshot %s: %w", name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotMissing, name)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("snapshot fetch %s returned status %d", name, resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot %s: %w", name, err)
		}
		return data, nil
	})
}
