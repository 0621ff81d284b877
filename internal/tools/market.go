// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/rinkside/rinkside/internal/market"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/warehouse"
)

// MarketContextTool attaches cap and contract context for the query's team.
type MarketContextTool struct {
	svc    *market.Service
	season string
}

func NewMarketContextTool(svc *market.Service, season string) *MarketContextTool {
	return &MarketContextTool{svc: svc, season: season}
}

func (t *MarketContextTool) Name() string { return "market_context" }

func (t *MarketContextTool) Run(ctx context.Context, q Request) models.ToolResult {
	team := q.TeamCode
	if team == "" {
		team = "MTL"
	}
	season := q.Season
	if season == "" {
		season = t.season
	}

	summary, err := t.svc.TeamCapSummary(ctx, team, season)
	if err != nil {
		if errors.Is(err, warehouse.ErrDisabled) {
			return failure(fmt.Errorf("market warehouse disabled"))
		}
		return failure(fmt.Errorf("cap summary: %w", err))
	}

	trades, err := t.svc.Trades(ctx, team, 5)
	if err != nil {
		trades = nil
	}
	return success(map[string]interface{}{
		"cap_summary":   summary,
		"recent_trades": trades,
	}, fmt.Sprintf("warehouse:contracts:%s:%s", team, season))
}
