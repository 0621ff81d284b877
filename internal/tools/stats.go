// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/nhlapi"
)

// LiveStatsTool reads the day's scores and standings from the NHL proxy.
type LiveStatsTool struct {
	client *nhlapi.Client
}

func NewLiveStatsTool(client *nhlapi.Client) *LiveStatsTool {
	return &LiveStatsTool{client: client}
}

func (t *LiveStatsTool) Name() string { return "live_stats" }

func (t *LiveStatsTool) Run(ctx context.Context, q Request) models.ToolResult {
	date := time.Now().UTC().Format("2006-01-02")

	scores, err := t.client.Scores(ctx, date)
	if err != nil {
		return failure(fmt.Errorf("scores: %w", err))
	}
	standings, err := t.client.Standings(ctx, date)
	if err != nil {
		// Scores alone are still useful evidence.
		return success(map[string]interface{}{"scores": scores.Data},
			"nhl-api:scores:"+date)
	}
	return success(map[string]interface{}{
		"scores":    scores.Data,
		"standings": standings.Data,
	}, "nhl-api:scores:"+date, "nhl-api:standings:"+date)
}

// PlayerProfileTool fetches a player's landing profile.
type PlayerProfileTool struct {
	client *nhlapi.Client
}

func NewPlayerProfileTool(client *nhlapi.Client) *PlayerProfileTool {
	return &PlayerProfileTool{client: client}
}

func (t *PlayerProfileTool) Name() string { return "player_profile" }

func (t *PlayerProfileTool) Run(ctx context.Context, q Request) models.ToolResult {
	if q.PlayerID == "" {
		return failure(fmt.Errorf("no player resolved from query"))
	}
	var id int64
	if _, err := fmt.Sscanf(q.PlayerID, "%d", &id); err != nil {
		return failure(fmt.Errorf("player id %q is not numeric", q.PlayerID))
	}
	env, err := t.client.PlayerLanding(ctx, id)
	if err != nil {
		return failure(err)
	}
	return success(env.Data, "nhl-api:player:"+q.PlayerID)
}
