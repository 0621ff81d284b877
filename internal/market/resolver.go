// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package market serves contract, cap, and valuation surfaces over the
// columnar contract datasets and the per-player CSV contract sheets. When
// the warehouse is disabled the resolver degrades to the CSV sheets, which
// carry less detail but keep player lookups working.
package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rinkside/rinkside/internal/config"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/warehouse"
)

// ErrNotFound marks a missing player or contract.
var ErrNotFound = errors.New("not found")

// Service is the market analytics engine.
type Service struct {
	db  *warehouse.DB
	cfg config.WarehouseConfig
}

// NewService wires the engine to the warehouse.
func NewService(db *warehouse.DB, cfg config.WarehouseConfig) *Service {
	return &Service{db: db, cfg: cfg}
}

// ResolveContract finds a player's active contract by id or name. Name
// matching is case-insensitive and partial; the highest cap hit wins ties,
// so callers disambiguate with team when needed.
func (s *Service) ResolveContract(ctx context.Context, playerID, playerName, team, season string) (*models.ContractRecord, error) {
	if s.db.Disabled() {
		return s.resolveFromSheets(playerID, playerName, season)
	}

	if playerID != "" {
		c, err := s.db.PlayerContract(ctx, playerID, season)
		if err != nil {
			if errors.Is(err, warehouse.ErrNotFound) {
				return nil, fmt.Errorf("player %s season %s: %w", playerID, season, ErrNotFound)
			}
			return nil, err
		}
		return c, nil
	}

	if playerName == "" {
		return nil, fmt.Errorf("player id or name required: %w", ErrNotFound)
	}

	contracts, err := s.db.LeagueContracts(ctx, season, "")
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(playerName))
	teamCode := strings.ToUpper(strings.TrimSpace(team))
	for i := range contracts {
		c := &contracts[i]
		if !strings.Contains(strings.ToLower(c.PlayerName), needle) {
			continue
		}
		if teamCode != "" && c.TeamCode != teamCode {
			continue
		}
		return c, nil
	}
	return nil, fmt.Errorf("player %q season %s: %w", playerName, season, ErrNotFound)
}

// resolveFromSheets is the degraded path: scan the CSV sheet directory for
// the player and synthesize a minimal contract record from the summary.
func (s *Service) resolveFromSheets(playerID, playerName, season string) (*models.ContractRecord, error) {
	sheet, err := s.ContractSheet(playerName)
	if err != nil {
		return nil, err
	}
	logging.Debug().Str("player", sheet.PlayerName).Msg("Contract resolved from CSV sheet fallback")
	return &models.ContractRecord{
		PlayerID:   playerID,
		PlayerName: sheet.PlayerName,
		Season:     season,
		CapHit:     sheet.CurrentCapHit,
		AAV:        sheet.AAV,
		YearsLeft:  sheet.YearsRemaining,
	}, nil
}

// Trades returns recent trades for a team.
func (s *Service) Trades(ctx context.Context, team string, limit int) ([]models.TradeRecord, error) {
	if s.db.Disabled() {
		return []models.TradeRecord{}, nil
	}
	return s.db.Trades(ctx, team, limit)
}

// Forecast returns the offline quantile series for one player metric.
func (s *Service) Forecast(ctx context.Context, playerID, season, metric string) ([]models.ForecastRow, error) {
	if s.db.Disabled() {
		return nil, warehouse.ErrDisabled
	}
	rows, err := s.db.Forecasts(ctx, playerID, season, metric)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("forecast %s/%s/%s: %w", playerID, season, metric, ErrNotFound)
	}
	return rows, nil
}
