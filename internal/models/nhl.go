// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package models

// StandingsRow is one normalized standings entry. Upstream rows carry
// records either under record.* or at top level, and team abbreviations as
// plain strings or {default: string}; the proxy flattens both shapes here.
type StandingsRow struct {
	TeamAbbrev   string  `json:"team_abbrev"`
	TeamName     string  `json:"team_name"`
	Division     string  `json:"division,omitempty"`
	Conference   string  `json:"conference,omitempty"`
	GamesPlayed  int     `json:"games_played"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	OTLosses     int     `json:"ot_losses"`
	Points       int     `json:"points"`
	PointsPct    float64 `json:"points_pct"`
	GoalsFor     int     `json:"goals_for"`
	GoalsAgainst int     `json:"goals_against"`
	GoalDiff     int     `json:"goal_diff"`
}

// GameScore is one normalized game from the score feed.
type GameScore struct {
	GameID       int64  `json:"game_id"`
	GameDate     string `json:"game_date"`
	GameState    string `json:"game_state"`
	HomeAbbrev   string `json:"home_abbrev"`
	AwayAbbrev   string `json:"away_abbrev"`
	HomeScore    int    `json:"home_score"`
	AwayScore    int    `json:"away_score"`
	Period       int    `json:"period,omitempty"`
	TimeRemaining string `json:"time_remaining,omitempty"`
	Venue        string `json:"venue,omitempty"`
}

// NHLEnvelope wraps a normalized upstream payload with its source metadata.
// Timestamp is excluded from ETag computation.
type NHLEnvelope struct {
	Endpoint  string      `json:"endpoint"`
	Date      string      `json:"date,omitempty"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}
