// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package market

import (
	"context"
	"errors"
	"strings"

	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/warehouse"
)

// defaultCapCeiling is used when the season has no cap snapshot row.
const defaultCapCeiling = 95_500_000

// countsAgainstCap reports whether a roster status contributes to the NHL
// cap hit. Minor-league rows do not; LTIR rows keep counting, with relief
// reflected in the ceiling instead.
func countsAgainstCap(status string) bool {
	switch status {
	case models.RosterStatusNHL, models.RosterStatusIR, models.RosterStatusSOIR:
		return true
	}
	return false
}

// occupiesRosterSlot reports whether a status fills an active roster spot.
func occupiesRosterSlot(status string) bool {
	return status == models.RosterStatusNHL || status == models.RosterStatusIR
}

// TeamCapSummary aggregates a team's cap situation for one season. Player
// rows come back sorted by cap hit descending (the warehouse reader orders
// them) and performance-index rows are merged when the dataset is present.
func (s *Service) TeamCapSummary(ctx context.Context, team, season string) (*models.CapSummary, error) {
	if s.db.Disabled() {
		return nil, warehouse.ErrDisabled
	}

	contracts, err := s.db.ActiveContracts(ctx, team, season)
	if err != nil {
		return nil, err
	}

	ceiling, err := s.db.CapCeiling(ctx, season)
	if err != nil {
		if !errors.Is(err, warehouse.ErrNotFound) {
			return nil, err
		}
		ceiling = defaultCapCeiling
	}

	relief, err := s.db.LTIRRelief(ctx, team, season)
	if err != nil {
		return nil, err
	}

	summary := &models.CapSummary{
		TeamCode:   strings.ToUpper(team),
		Season:     season,
		CapCeiling: ceiling,
		LTIRRelief: relief,
		Players:    contracts,
	}
	for _, c := range contracts {
		if !countsAgainstCap(c.RosterStatus) {
			continue
		}
		if c.CapHit > 0 {
			summary.CapHitTotal += c.CapHit
		}
		if occupiesRosterSlot(c.RosterStatus) {
			summary.RosterCount++
		}
	}
	summary.CapSpace = summary.CapCeiling + summary.LTIRRelief - summary.CapHitTotal

	if s.db.HasDataset("performance_index") {
		if perf, err := s.db.PerformanceIndexRows(ctx, season); err == nil {
			summary.PerfIndexRows = filterPerfRows(perf, contracts)
		}
	}
	return summary, nil
}

func filterPerfRows(rows []models.PerformanceIndex, contracts []models.ContractRecord) []models.PerformanceIndex {
	onTeam := make(map[string]bool, len(contracts))
	for _, c := range contracts {
		onTeam[c.PlayerID] = true
	}
	var out []models.PerformanceIndex
	for _, r := range rows {
		if onTeam[r.PlayerID] {
			out = append(out, r)
		}
	}
	return out
}
