// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package nhlapi

import (
	"context"
	"fmt"
	"time"

	"github.com/rinkside/rinkside/internal/cache"
	"github.com/rinkside/rinkside/internal/models"
)

func envelope(endpoint, date string, data interface{}) *models.NHLEnvelope {
	return &models.NHLEnvelope{
		Endpoint:  endpoint,
		Date:      date,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func envelopeValid(v interface{}) bool {
	env, ok := v.(*models.NHLEnvelope)
	return ok && env != nil && env.Data != nil
}

// Scores returns normalized scores for one date. Live data, so the shortest
// TTL in the policy.
func (c *Client) Scores(ctx context.Context, date string) (*models.NHLEnvelope, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	key := cache.GenerateKey("nhl:scores", map[string]interface{}{"date": date})
	value, err := c.cached(key, c.ttl.LiveScores, envelopeValid, func() (interface{}, error) {
		raw, err := c.fetchJSON(ctx, "/score/"+date)
		if err != nil {
			return nil, err
		}
		games, ok := raw["games"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: score feed missing games array", ErrInvalidResponse)
		}
		out := make([]models.GameScore, 0, len(games))
		for _, g := range games {
			game, ok := g.(map[string]interface{})
			if !ok {
				continue
			}
			out = append(out, normalizeGameScore(game))
		}
		return envelope("scores", date, out), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.NHLEnvelope), nil
}

// Schedule returns the raw weekly schedule anchored at date.
func (c *Client) Schedule(ctx context.Context, date string) (*models.NHLEnvelope, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	key := cache.GenerateKey("nhl:schedule", map[string]interface{}{"date": date})
	value, err := c.cached(key, c.ttl.Schedule, envelopeValid, func() (interface{}, error) {
		raw, err := c.fetchJSON(ctx, "/schedule/"+date)
		if err != nil {
			return nil, err
		}
		if _, ok := raw["gameWeek"]; !ok {
			return nil, fmt.Errorf("%w: schedule feed missing gameWeek", ErrInvalidResponse)
		}
		return envelope("schedule", date, raw), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.NHLEnvelope), nil
}

// Standings returns normalized, sorted standings as of date. Rows sort by
// points, then goal differential, then wins, all descending. An empty
// upstream list yields an empty slice, never nil.
func (c *Client) Standings(ctx context.Context, date string) (*models.NHLEnvelope, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	key := cache.GenerateKey("nhl:standings", map[string]interface{}{"date": date})
	value, err := c.cached(key, c.ttl.Standings, envelopeValid, func() (interface{}, error) {
		raw, err := c.fetchJSON(ctx, "/standings/"+date)
		if err != nil {
			return nil, err
		}
		entries, ok := raw["standings"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: standings feed missing standings array", ErrInvalidResponse)
		}
		rows := make([]models.StandingsRow, 0, len(entries))
		for _, e := range entries {
			row, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			rows = append(rows, normalizeStandingsRow(row))
		}
		sortStandings(rows)
		return envelope("standings", date, rows), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.NHLEnvelope), nil
}

// Boxscore returns the gamecenter boxscore for one game.
func (c *Client) Boxscore(ctx context.Context, gameID int64) (*models.NHLEnvelope, error) {
	if err := validateID(gameID); err != nil {
		return nil, err
	}
	key := cache.GenerateKey("nhl:boxscore", map[string]interface{}{"game": gameID})
	value, err := c.cached(key, c.ttl.LiveScores, envelopeValid, func() (interface{}, error) {
		raw, err := c.fetchJSON(ctx, fmt.Sprintf("/gamecenter/%d/boxscore", gameID))
		if err != nil {
			return nil, err
		}
		return envelope("boxscore", "", raw), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.NHLEnvelope), nil
}

// PlayByPlay returns the gamecenter play-by-play event feed for one game.
func (c *Client) PlayByPlay(ctx context.Context, gameID int64) (*models.NHLEnvelope, error) {
	if err := validateID(gameID); err != nil {
		return nil, err
	}
	key := cache.GenerateKey("nhl:pbp", map[string]interface{}{"game": gameID})
	value, err := c.cached(key, c.ttl.LiveScores, envelopeValid, func() (interface{}, error) {
		raw, err := c.fetchJSON(ctx, fmt.Sprintf("/gamecenter/%d/play-by-play", gameID))
		if err != nil {
			return nil, err
		}
		if _, ok := raw["plays"]; !ok {
			return nil, fmt.Errorf("%w: play-by-play feed missing plays", ErrInvalidResponse)
		}
		return envelope("play_by_play", "", raw), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.NHLEnvelope), nil
}

// GameLanding returns the gamecenter landing page for one game.
func (c *Client) GameLanding(ctx context.Context, gameID int64) (*models.NHLEnvelope, error) {
	if err := validateID(gameID); err != nil {
		return nil, err
	}
	key := cache.GenerateKey("nhl:gamelanding", map[string]interface{}{"game": gameID})
	value, err := c.cached(key, c.ttl.Schedule, envelopeValid, func() (interface{}, error) {
		raw, err := c.fetchJSON(ctx, fmt.Sprintf("/gamecenter/%d/landing", gameID))
		if err != nil {
			return nil, err
		}
		return envelope("game_landing", "", raw), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.NHLEnvelope), nil
}

// PlayerLanding returns the player landing profile.
func (c *Client) PlayerLanding(ctx context.Context, playerID int64) (*models.NHLEnvelope, error) {
	if err := validateID(playerID); err != nil {
		return nil, err
	}
	key := cache.GenerateKey("nhl:player", map[string]interface{}{"player": playerID})
	value, err := c.cached(key, c.ttl.PlayerLanding, envelopeValid, func() (interface{}, error) {
		raw, err := c.fetchJSON(ctx, fmt.Sprintf("/player/%d/landing", playerID))
		if err != nil {
			return nil, err
		}
		if _, ok := raw["playerId"]; !ok {
			return nil, fmt.Errorf("%w: player landing missing playerId", ErrInvalidResponse)
		}
		return envelope("player_landing", "", raw), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.NHLEnvelope), nil
}

// PlayerGameLog returns a player's per-game log for a season and game type
// (2 regular season, 3 playoffs).
func (c *Client) PlayerGameLog(ctx context.Context, playerID int64, season string, gameType int) (*models.NHLEnvelope, error) {
	if err := validateID(playerID); err != nil {
		return nil, err
	}
	if len(season) != 8 {
		return nil, fmt.Errorf("%w: season must be YYYYYYYY, got %q", ErrBadRequest, season)
	}
	if gameType != 2 && gameType != 3 {
		return nil, fmt.Errorf("%w: game type must be 2 or 3, got %d", ErrBadRequest, gameType)
	}
	key := cache.GenerateKey("nhl:gamelog", map[string]interface{}{
		"player": playerID, "season": season, "type": gameType,
	})
	value, err := c.cached(key, c.ttl.PlayerLanding, envelopeValid, func() (interface{}, error) {
		raw, err := c.fetchJSON(ctx, fmt.Sprintf("/player/%d/game-log/%s/%d", playerID, season, gameType))
		if err != nil {
			return nil, err
		}
		if _, ok := raw["gameLog"]; !ok {
			return nil, fmt.Errorf("%w: game log feed missing gameLog", ErrInvalidResponse)
		}
		return envelope("player_game_log", "", raw), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.NHLEnvelope), nil
}

var leaderCategories = map[string]bool{
	"points": true, "goals": true, "assists": true,
	"plusMinus": true, "toi": true, "savePctg": true, "wins": true,
}

// Leaders returns current skater or goalie leaders for one category.
func (c *Client) Leaders(ctx context.Context, position, category string, limit int) (*models.NHLEnvelope, error) {
	if !leaderCategories[category] {
		return nil, fmt.Errorf("%w: unknown leader category %q", ErrBadRequest, category)
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	surface := "skater-stats-leaders"
	if position == "goalie" {
		surface = "goalie-stats-leaders"
	}
	key := cache.GenerateKey("nhl:leaders", map[string]interface{}{
		"surface": surface, "category": category, "limit": limit,
	})
	value, err := c.cached(key, c.ttl.Leaders, envelopeValid, func() (interface{}, error) {
		path := fmt.Sprintf("/%s/current?categories=%s&limit=%d", surface, category, limit)
		raw, err := c.fetchJSON(ctx, path)
		if err != nil {
			return nil, err
		}
		// Missing category lists normalize to empty arrays so clients can
		// iterate without nil checks.
		if _, ok := raw[category]; !ok {
			raw[category] = []interface{}{}
		}
		return envelope("leaders", "", raw), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.NHLEnvelope), nil
}
