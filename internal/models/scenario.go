// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package models

// Scenario action types. Actions are applied deterministically in order.
const (
	ActionAddPlayer     = "add_player"
	ActionRemovePlayer  = "remove_player"
	ActionCallUp        = "call_up"
	ActionSendDown      = "send_down"
	ActionPlaceIR       = "place_ir"
	ActionPlaceLTIR     = "place_ltir"
	ActionAcquirePlayer = "acquire_player"
)

// ScenarioAction references a player by ID or name; unknown references are
// skipped with a warning rather than failing the simulation.
type ScenarioAction struct {
	Type       string  `json:"type"`
	PlayerID   string  `json:"player_id,omitempty"`
	PlayerName string  `json:"player_name,omitempty"`
	CapHit     float64 `json:"cap_hit,omitempty"`
	Position   string  `json:"position,omitempty"`
}

// CapRules are the league rules in force for a season.
type CapRules struct {
	Season        string  `json:"season"`
	CapCeiling    float64 `json:"cap_ceiling"`
	CapFloor      float64 `json:"cap_floor"`
	BonusCushion  float64 `json:"bonus_cushion"`
	RosterMax     int     `json:"roster_max"`
	TradeDeadline string  `json:"trade_deadline"`
}

// RosterPlayer is one roster-snapshot row the scenario engine mutates.
type RosterPlayer struct {
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name"`
	Position     string  `json:"position"`
	CapHit       float64 `json:"cap_hit"`
	RosterStatus string  `json:"roster_status"`
	Age          float64 `json:"age"`
	SigningAge   float64 `json:"signing_age"`
	NHLGames     int     `json:"nhl_games"`
	ProSeasons   int     `json:"pro_seasons"`
	ValueProxy   float64 `json:"value_proxy"`
}

// ScenarioMetrics snapshots cap and roster state before or after actions.
type ScenarioMetrics struct {
	CapHitTotal      float64 `json:"cap_hit_total"`
	CapSpace         float64 `json:"cap_space"`
	EffectiveCeiling float64 `json:"effective_ceiling"`
	LTIRRelief       float64 `json:"ltir_relief"`
	RosterSize       int     `json:"roster_size"`
	Forwards         int     `json:"forwards"`
	Defense          int     `json:"defense"`
	Goalies          int     `json:"goalies"`
	CoverageScore    float64 `json:"coverage_score"`
}

// ScenarioResult is the simulation output.
type ScenarioResult struct {
	TeamCode   string          `json:"team_code"`
	AsOfDate   string          `json:"as_of_date"`
	Before     ScenarioMetrics `json:"before"`
	After      ScenarioMetrics `json:"after"`
	Violations []string        `json:"violations"`
	Warnings   []string        `json:"warnings,omitempty"`
	Notes      []string        `json:"notes,omitempty"`
	Compliant  bool            `json:"compliant"`
}

// AcquisitionPlan is one candidate set of removals making room for a target.
type AcquisitionPlan struct {
	Removals      []string `json:"removals"`
	CapSpaceAfter float64  `json:"cap_space_after"`
	ValueDelta    float64  `json:"value_delta"`
	CoverageScore float64  `json:"coverage_score"`
	WaiverRisk    float64  `json:"waiver_risk"`
	Objective     float64  `json:"objective"`
	Feasible      bool     `json:"feasible"`
}

// AcquisitionResult evaluates acquiring a target player.
type AcquisitionResult struct {
	TeamCode string            `json:"team_code"`
	Target   RosterPlayer      `json:"target"`
	Plans    []AcquisitionPlan `json:"plans"`
	Best     *AcquisitionPlan  `json:"best,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}
