// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package nhlapi

import (
	"sort"

	"github.com/rinkside/rinkside/internal/models"
)

// flexString reads a field that upstream serves either as a plain string or
// as a localized object {"default": "..."}.
func flexString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}:
		if s, ok := val["default"].(string); ok {
			return s
		}
	}
	return ""
}

func asFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	}
	return 0
}

func asInt(v interface{}) int {
	return int(asFloat(v))
}

// standingsField reads a stat that upstream rows carry either at top level
// or nested under record.*.
func standingsField(row map[string]interface{}, key string) interface{} {
	if v, ok := row[key]; ok && v != nil {
		return v
	}
	if record, ok := row["record"].(map[string]interface{}); ok {
		if v, ok := record[key]; ok {
			return v
		}
	}
	return nil
}

// normalizeStandingsRow flattens one upstream standings entry.
func normalizeStandingsRow(row map[string]interface{}) models.StandingsRow {
	goalsFor := asInt(standingsField(row, "goalFor"))
	goalsAgainst := asInt(standingsField(row, "goalAgainst"))
	out := models.StandingsRow{
		TeamAbbrev:   flexString(row["teamAbbrev"]),
		TeamName:     flexString(row["teamName"]),
		Division:     flexString(row["divisionName"]),
		Conference:   flexString(row["conferenceName"]),
		GamesPlayed:  asInt(standingsField(row, "gamesPlayed")),
		Wins:         asInt(standingsField(row, "wins")),
		Losses:       asInt(standingsField(row, "losses")),
		OTLosses:     asInt(standingsField(row, "otLosses")),
		Points:       asInt(standingsField(row, "points")),
		PointsPct:    asFloat(standingsField(row, "pointPctg")),
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
		GoalDiff:     goalsFor - goalsAgainst,
	}
	// Some feeds carry an explicit differential; prefer it when present.
	if v := standingsField(row, "goalDifferential"); v != nil {
		out.GoalDiff = asInt(v)
	}
	return out
}

// sortStandings orders rows by points desc, then goal differential desc,
// then wins desc.
func sortStandings(rows []models.StandingsRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDiff != rows[j].GoalDiff {
			return rows[i].GoalDiff > rows[j].GoalDiff
		}
		return rows[i].Wins > rows[j].Wins
	})
}

// normalizeGameScore flattens one upstream game from the score feed.
func normalizeGameScore(game map[string]interface{}) models.GameScore {
	out := models.GameScore{
		GameID:    int64(asFloat(game["id"])),
		GameDate:  flexString(game["gameDate"]),
		GameState: flexString(game["gameState"]),
	}
	if home, ok := game["homeTeam"].(map[string]interface{}); ok {
		out.HomeAbbrev = flexString(home["abbrev"])
		out.HomeScore = asInt(home["score"])
	}
	if away, ok := game["awayTeam"].(map[string]interface{}); ok {
		out.AwayAbbrev = flexString(away["abbrev"])
		out.AwayScore = asInt(away["score"])
	}
	if clock, ok := game["clock"].(map[string]interface{}); ok {
		out.TimeRemaining = flexString(clock["timeRemaining"])
	}
	if period, ok := game["periodDescriptor"].(map[string]interface{}); ok {
		out.Period = asInt(period["number"])
	}
	if venue, ok := game["venue"]; ok {
		out.Venue = flexString(venue)
	}
	return out
}
