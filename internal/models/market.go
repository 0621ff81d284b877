// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package models

// Roster status values carried by contract rows. NHL, IR, and soir (LTIR)
// count against the cap; minor-league and non-roster rows do not. LTIR
// relief is reflected in the effective ceiling, not by dropping the hit.
const (
	RosterStatusNHL    = "NHL"
	RosterStatusIR     = "IR"
	RosterStatusMinor  = "Minor"
	RosterStatusSOIR   = "soir"
	RosterStatusNonRos = "Non-Roster"
)

// ContractRecord is a columnar contract row keyed by (player_id, season).
// At most one record per key is active in the active view.
type ContractRecord struct {
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name"`
	TeamCode     string  `json:"team_code"`
	Season       string  `json:"season"`
	Position     string  `json:"position"`
	Age          float64 `json:"age"`
	CapHit       float64 `json:"cap_hit"`
	CapHitPct    float64 `json:"cap_hit_pct"`
	AAV          float64 `json:"aav"`
	YearsTotal   int     `json:"years_total"`
	YearsLeft    int     `json:"years_left"`
	SigningAge   float64 `json:"signing_age,omitempty"`
	SigningYear  int     `json:"signing_year,omitempty"`
	Clause       string  `json:"clause,omitempty"`
	RosterStatus string  `json:"roster_status"`
	ExpiryStatus string  `json:"expiry_status,omitempty"`
}

// CapSummary aggregates a team's cap situation for one season.
type CapSummary struct {
	TeamCode      string           `json:"team_code"`
	Season        string           `json:"season"`
	CapCeiling    float64          `json:"cap_ceiling"`
	CapHitTotal   float64          `json:"cap_hit_total"`
	CapSpace      float64          `json:"cap_space"`
	LTIRRelief    float64          `json:"ltir_relief"`
	RosterCount   int              `json:"roster_count"`
	Players       []ContractRecord `json:"players"`
	PerfIndexRows []PerformanceIndex `json:"performance_index,omitempty"`
}

// TradeRecord is a historical trade row.
type TradeRecord struct {
	TradeDate string   `json:"trade_date"`
	Season    string   `json:"season"`
	TeamFrom  string   `json:"team_from"`
	TeamTo    string   `json:"team_to"`
	Players   []string `json:"players"`
	Picks     []string `json:"picks,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// MarketComparable is a contract-comparable row with its similarity score.
type MarketComparable struct {
	PlayerID       string  `json:"player_id"`
	PlayerName     string  `json:"player_name"`
	TeamCode       string  `json:"team_code"`
	Position       string  `json:"position"`
	Age            float64 `json:"age"`
	CapHit         float64 `json:"cap_hit"`
	CapHitPct      float64 `json:"cap_hit_pct"`
	PointsPerGame  float64 `json:"points_per_game"`
	SigningYear    int     `json:"signing_year"`
	Similarity     float64 `json:"similarity"`
}

// PerformanceIndex is a per-player/season composite performance row merged
// into cap summaries when available.
type PerformanceIndex struct {
	PlayerID string  `json:"player_id"`
	Season   string  `json:"season"`
	Index    float64 `json:"index"`
	Rank     int     `json:"rank,omitempty"`
}

// EfficiencyComponent scores are ratios to a position-specific league
// baseline, clipped to [0, 200].
type ContractEfficiency struct {
	PlayerID      string  `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	Position      string  `json:"position"`
	Season        string  `json:"season"`
	CapHit        float64 `json:"cap_hit"`
	PointsValue   float64 `json:"points_value"`
	XGValue       float64 `json:"xg_value"`
	DefenseValue  float64 `json:"defense_value"`
	AgeAdjustment float64 `json:"age_adjustment"`
	TermPenalty   float64 `json:"term_penalty"`
	Composite     float64 `json:"composite"`
	Status        string  `json:"status"`
}

// Efficiency status bands.
const (
	EfficiencyOverperforming  = "overperforming"
	EfficiencyFair            = "fair"
	EfficiencyUnderperforming = "underperforming"
)

// ContractSheet is the denormalized view of a player's CSV contract file.
type ContractSheet struct {
	PlayerName       string              `json:"player_name"`
	SourceFile       string              `json:"source_file"`
	Contracts        []map[string]string `json:"contracts"`
	YearByYear       []map[string]string `json:"year_by_year"`
	CurrentCapHit    float64             `json:"current_cap_hit"`
	AAV              float64             `json:"aav"`
	HasNTC           bool                `json:"has_ntc"`
	HasNMC           bool                `json:"has_nmc"`
	YearsRemaining   int                 `json:"years_remaining"`
	CurrentSeason    string              `json:"current_season"`
}

// ForecastRow is an immutable per-player/season/metric quantile series
// produced by offline jobs and consumed read-only.
type ForecastRow struct {
	PlayerID string    `json:"player_id"`
	Season   string    `json:"season"`
	Metric   string    `json:"metric"`
	GameIdx  int       `json:"game_idx"`
	Q10      float64   `json:"q10"`
	Q50      float64   `json:"q50"`
	Q90      float64   `json:"q90"`
}
