// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rinkside/rinkside/internal/cache"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/metrics"
	"github.com/rinkside/rinkside/internal/warehouse"
)

// HTTPServerService runs an http.Server under suture supervision. Shutdown
// is triggered by context cancellation and bounded by ShutdownTimeout.
type HTTPServerService struct {
	Server          *http.Server
	ShutdownTimeout time.Duration
}

func (s *HTTPServerService) String() string { return "http-server" }

// Serve runs the listener until the context is canceled. A clean shutdown
// returns suture.ErrDoNotRestart semantics via nil after ctx cancellation;
// listener failures propagate so suture restarts the service.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		timeout := s.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.Server.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("HTTP server shutdown failed")
		}
		<-errCh
		return ctx.Err()
	}
}

// CacheJanitorService periodically sweeps expired entries from the TTL
// cache and refreshes the uptime gauge.
type CacheJanitorService struct {
	Cache    *cache.Cache
	Interval time.Duration
}

func (s *CacheJanitorService) String() string { return "cache-janitor" }

func (s *CacheJanitorService) Serve(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			swept := s.Cache.SweepExpired()
			if swept > 0 {
				metrics.CacheEvictions.Add(float64(swept))
				logging.Debug().Int64("swept", swept).Msg("Cache janitor sweep")
			}
			metrics.UpdateUptime()
		}
	}
}

// DatasetRefreshService periodically re-attaches warehouse Parquet views so
// offline dataset drops (fresh rosters, contracts, game logs) surface
// without a restart.
type DatasetRefreshService struct {
	Warehouse *warehouse.DB
	Interval  time.Duration
}

func (s *DatasetRefreshService) String() string { return "dataset-refresh" }

func (s *DatasetRefreshService) Serve(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Warehouse.Refresh(ctx); err != nil && !errors.Is(err, warehouse.ErrDisabled) {
				logging.Warn().Err(err).Msg("Warehouse dataset refresh failed")
			}
		}
	}
}
