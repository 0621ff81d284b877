// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package models

// PlayerGameRow is one player-game from the columnar game logs. Minutes
// fields arrive in heterogeneous formats (MM:SS, seconds, floats) and are
// parsed permissively by the analytics engine.
type PlayerGameRow struct {
	PlayerID          string  `json:"player_id"`
	PlayerName        string  `json:"player_name"`
	TeamCode          string  `json:"team_code"`
	GameID            int64   `json:"game_id"`
	GameDate          string  `json:"game_date"`
	TOI               string  `json:"toi"`
	EVPrimaryPoints   float64 `json:"ev_primary_points"`
	IndividualXG      float64 `json:"ixg"`
	ShotAssists       float64 `json:"shot_assists"`
	ControlledEntries float64 `json:"controlled_entries"`
	OnIceXGFPct       float64 `json:"on_ice_xgf_pct"`
}

// TeamGameRow is one team-game from the columnar team logs.
type TeamGameRow struct {
	TeamCode   string  `json:"team_code"`
	GameID     int64   `json:"game_id"`
	GameDate   string  `json:"game_date"`
	XGF        float64 `json:"xgf"`
	XGA        float64 `json:"xga"`
	GF5v5      float64 `json:"gf_5v5"`
	GA5v5      float64 `json:"ga_5v5"`
	CF60       float64 `json:"cf_60"`
	CA60       float64 `json:"ca_60"`
	PPPct      float64 `json:"pp_pct"`
	PKPct      float64 `json:"pk_pct"`
	ShootPct   float64 `json:"shooting_pct"`
	SavePct    float64 `json:"save_pct"`
	Points     float64 `json:"points"`
	PointsMax  float64 `json:"points_max"`
}

// PlayerFormIndex is one row of the PFI leaderboard. Score is on the 0-100
// display scale; Trend is one of up / stable / down.
type PlayerFormIndex struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TeamCode   string  `json:"team_code"`
	Games      int     `json:"games"`
	Composite  float64 `json:"composite"`
	Score      float64 `json:"pfi_score"`
	Trend      string  `json:"trend"`
}

// Trend values for PFI.
const (
	TrendUp     = "up"
	TrendStable = "stable"
	TrendDown   = "down"
)

// PDO status bands.
const (
	PDOHot         = "hot"
	PDOCold        = "cold"
	PDOSustainable = "sustainable"
)

// TeamTrends is the windowed team summary of §Team Trends.
type TeamTrends struct {
	TeamCode        string  `json:"team_code"`
	Window          int     `json:"window"`
	XGFPct          float64 `json:"xgf_pct"`
	SpecialTeamsNet float64 `json:"special_teams_net"`
	PaceCF60        float64 `json:"pace_cf_60"`
	PaceCA60        float64 `json:"pace_ca_60"`
	PaceCFPct       float64 `json:"pace_cf_pct"`
	PDO             float64 `json:"pdo"`
	PDOStatus       string  `json:"pdo_status"`
}

// RivalThreat is one division team's threat row. RTIScore is always finite;
// when inputs are missing entirely the engine emits the default-50 row.
type RivalThreat struct {
	TeamCode        string  `json:"team_code"`
	RTIScore        float64 `json:"rti_score"`
	XGFPct          float64 `json:"xgf_pct"`
	PointsPct       float64 `json:"points_pct"`
	SpecialTeamsNet float64 `json:"special_teams_net"`
	GoalShare5v5    float64 `json:"goal_share_5v5"`
	Games           int     `json:"games"`
}

// FanSentiment is the FSP output with its band label.
type FanSentiment struct {
	TeamCode string  `json:"team_code"`
	Score    float64 `json:"fsp_score"`
	Band     string  `json:"band"`
	XGFPct   float64 `json:"xgf_pct"`
	STImpact float64 `json:"st_impact"`
	PDOBand  string  `json:"pdo_band"`
}

// FSP bands, highest threshold first.
const (
	SentimentVeryPositive  = "Very Positive"
	SentimentPositive      = "Positive"
	SentimentNeutral       = "Neutral"
	SentimentConcerned     = "Concerned"
	SentimentVeryConcerned = "Very Concerned"
)
