// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/media"
	"github.com/rinkside/rinkside/internal/models"
)

// eventKeywords maps query phrasing to clip event types.
var eventKeywords = map[string]string{
	"goal":      "goal",
	"goals":     "goal",
	"save":      "save",
	"saves":     "save",
	"hit":       "hit",
	"hits":      "hit",
	"assist":    "assist",
	"assists":   "assist",
	"chance":    "scoring_chance",
	"chances":   "scoring_chance",
	"entry":     "zone_entry",
	"entries":   "zone_entry",
	"faceoff":   "faceoff",
	"penalty":   "penalty",
	"breakaway": "breakaway",
}

// ClipSearchTool retrieves ready clips matching the query, filtered through
// the per-clip access policy before anything leaves the tool.
type ClipSearchTool struct {
	repo   *media.Repo
	policy *auth.ClipPolicy
}

func NewClipSearchTool(repo *media.Repo, policy *auth.ClipPolicy) *ClipSearchTool {
	return &ClipSearchTool{repo: repo, policy: policy}
}

func (t *ClipSearchTool) Name() string { return "clip_search" }

func (t *ClipSearchTool) Run(ctx context.Context, q Request) models.ToolResult {
	if t.repo == nil {
		return failure(fmt.Errorf("clip index not configured"))
	}

	filter := models.ClipFilter{
		PlayerID: q.PlayerID,
		TeamCode: q.TeamCode,
		Status:   models.ClipStatusReady,
		Limit:    20,
	}
	for word, event := range eventKeywords {
		if strings.Contains(strings.ToLower(q.Query), word) {
			filter.EventType = event
			break
		}
	}

	clips, err := t.repo.List(ctx, filter)
	if err != nil {
		return failure(fmt.Errorf("clip search: %w", err))
	}

	summaries := make([]models.ClipSummary, 0, len(clips))
	for _, c := range clips {
		if q.User != nil && !t.policy.CanAccessClip(q.User, &c) {
			continue
		}
		summaries = append(summaries, models.ClipSummary{
			ClipID:       c.ClipID,
			PlayerID:     c.PlayerID,
			PlayerName:   c.PlayerName,
			TeamCode:     c.TeamCode,
			OpponentCode: c.OpponentCode,
			GameDate:     c.GameDate,
			EventType:    c.EventType,
			Outcome:      c.Outcome,
			DurationS:    c.DurationS,
			VideoURL:     fmt.Sprintf("/api/v1/clips/%s/video", c.ClipID),
			ThumbnailURL: fmt.Sprintf("/api/v1/clips/%s/thumbnail", c.ClipID),
		})
	}
	return success(summaries, "media:clip_index")
}
