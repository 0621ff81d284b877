// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package scenario

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rinkside/rinkside/internal/models"
)

func fullRoster() []models.RosterPlayer {
	var roster []models.RosterPlayer
	add := func(id, name, pos string, capHit float64) {
		roster = append(roster, models.RosterPlayer{
			PlayerID: id, PlayerName: name, Position: pos,
			CapHit: capHit, RosterStatus: models.RosterStatusNHL,
			SigningAge: 26, NHLGames: 400, ProSeasons: 7, ValueProxy: capHit / 1_000_000,
		})
	}
	for i := 0; i < 12; i++ {
		add(fmtID("f", i), fmtID("Forward ", i), "C", 3_000_000)
	}
	for i := 0; i < 6; i++ {
		add(fmtID("d", i), fmtID("Defender ", i), "D", 4_000_000)
	}
	add("g0", "Goalie Zero", "G", 5_000_000)
	add("g1", "Goalie One", "G", 1_000_000)
	return roster
}

func fmtID(prefix string, i int) string {
	return prefix + string(rune('0'+i/10)) + string(rune('0'+i%10))
}

func midSeason() time.Time {
	return time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
}

func TestSimulateBaseline(t *testing.T) {
	e := NewEngine(models.CapRules{})
	res := e.Simulate(context.Background(), "mtl", fullRoster(), nil, midSeason())

	if res.TeamCode != "MTL" {
		t.Errorf("team = %s", res.TeamCode)
	}
	// 12*3 + 6*4 + 5 + 1 = 66M
	if res.Before.CapHitTotal != 66_000_000 {
		t.Errorf("cap hit = %v", res.Before.CapHitTotal)
	}
	if res.Before.RosterSize != 20 || res.Before.Forwards != 12 || res.Before.Defense != 6 || res.Before.Goalies != 2 {
		t.Errorf("roster shape: %+v", res.Before)
	}
	if res.Before.CoverageScore != 1 {
		t.Errorf("full shape coverage = %v, want 1", res.Before.CoverageScore)
	}
	// 66M is below the default floor; that is a violation, not an error.
	if res.Compliant {
		t.Error("roster below cap floor should not be compliant")
	}
	foundFloor := false
	for _, v := range res.Violations {
		if strings.Contains(v, "cap floor") {
			foundFloor = true
		}
	}
	if !foundFloor {
		t.Errorf("expected cap floor violation, got %v", res.Violations)
	}
}

func TestLTIRReliefRaisesEffectiveCeiling(t *testing.T) {
	e := NewEngine(models.CapRules{CapFloor: 1})
	roster := fullRoster()
	// Put the roster close to the ceiling.
	roster = append(roster, models.RosterPlayer{
		PlayerID: "star", PlayerName: "Injured Star", Position: "C",
		CapHit: 29_000_000, RosterStatus: models.RosterStatusNHL,
	})

	res := e.Simulate(context.Background(), "MTL", roster, []models.ScenarioAction{
		{Type: models.ActionPlaceLTIR, PlayerID: "star"},
		{Type: models.ActionAddPlayer, PlayerID: "new", PlayerName: "Replacement", Position: "C", CapHit: 20_000_000},
	}, midSeason())

	if res.After.LTIRRelief != 29_000_000 {
		t.Errorf("relief = %v", res.After.LTIRRelief)
	}
	if res.After.EffectiveCeiling != defaultCapCeiling+29_000_000 {
		t.Errorf("effective ceiling = %v", res.After.EffectiveCeiling)
	}
	// LTIR player leaves the active roster; replacement joins it.
	if res.After.RosterSize != 21 {
		t.Errorf("roster size = %d, want 21", res.After.RosterSize)
	}
	// The LTIR hit stays on the books: 66 + 29 + 20 = 115M against an
	// effective ceiling of 124.5M.
	if res.After.CapHitTotal != 115_000_000 {
		t.Errorf("cap hit total = %v, want 115M", res.After.CapHitTotal)
	}
	if !res.Compliant {
		t.Errorf("should be compliant, violations: %v", res.Violations)
	}
}

func TestLTIRSpaceGainEqualsRelief(t *testing.T) {
	e := NewEngine(models.CapRules{CapFloor: 1})
	roster := append(fullRoster(), models.RosterPlayer{
		PlayerID: "star", PlayerName: "Injured Star", Position: "C",
		CapHit: 10_000_000, RosterStatus: models.RosterStatusNHL,
	})

	res := e.Simulate(context.Background(), "MTL", roster, []models.ScenarioAction{
		{Type: models.ActionPlaceLTIR, PlayerID: "star"},
	}, midSeason())

	// Placing a player on LTIR frees exactly the relief amount, once: the
	// ceiling rises by the hit while the hit itself keeps counting.
	gained := res.After.CapSpace - res.Before.CapSpace
	if gained != 10_000_000 {
		t.Errorf("cap space gained = %v, want 10M", gained)
	}
	if res.After.CapHitTotal != res.Before.CapHitTotal {
		t.Errorf("cap hit total changed: %v -> %v", res.Before.CapHitTotal, res.After.CapHitTotal)
	}
}

func TestUnknownReferenceSkippedWithWarning(t *testing.T) {
	e := NewEngine(models.CapRules{CapFloor: 1})
	res := e.Simulate(context.Background(), "MTL", fullRoster(), []models.ScenarioAction{
		{Type: models.ActionRemovePlayer, PlayerName: "Nobody Realson"},
		{Type: models.ActionSendDown, PlayerID: "g1"},
	}, midSeason())

	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "unknown player") {
		t.Errorf("warnings = %v", res.Warnings)
	}
	// The valid action still applied.
	if res.After.Goalies != 1 {
		t.Errorf("send down not applied, goalies = %d", res.After.Goalies)
	}
}

func TestCoveragePenalty(t *testing.T) {
	if got := coverageScore(12, 6, 2); got != 1 {
		t.Errorf("full coverage = %v", got)
	}
	if got := coverageScore(10, 6, 2); got != 0.9 {
		t.Errorf("missing 2F = %v, want 0.9", got)
	}
	if got := coverageScore(0, 0, 0); got != 0 {
		t.Errorf("empty roster = %v, want 0", got)
	}
	// Surplus never scores above 1.
	if got := coverageScore(14, 8, 3); got != 1 {
		t.Errorf("surplus coverage = %v, want 1", got)
	}
}

func TestRosterMaxViolation(t *testing.T) {
	e := NewEngine(models.CapRules{CapFloor: 1})
	roster := fullRoster()
	var actions []models.ScenarioAction
	for i := 0; i < 4; i++ {
		actions = append(actions, models.ScenarioAction{
			Type: models.ActionAddPlayer, PlayerID: fmtID("x", i), Position: "C", CapHit: 1_000_000,
		})
	}
	res := e.Simulate(context.Background(), "MTL", roster, actions, midSeason())
	if res.After.RosterSize != 24 {
		t.Fatalf("roster size = %d", res.After.RosterSize)
	}
	found := false
	for _, v := range res.Violations {
		if strings.Contains(v, "roster") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected roster max violation, got %v", res.Violations)
	}
}

func TestTradeDeadlineRule(t *testing.T) {
	e := NewEngine(models.CapRules{CapFloor: 1})
	afterDeadline := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)

	res := e.Simulate(context.Background(), "MTL", fullRoster(), []models.ScenarioAction{
		{Type: models.ActionAddPlayer, PlayerID: "late", Position: "C", CapHit: 1_000_000},
	}, afterDeadline)

	found := false
	for _, v := range res.Violations {
		if strings.Contains(v, "deadline") {
			found = true
		}
	}
	if !found {
		t.Errorf("post-deadline acquisition should be a violation, got %v", res.Violations)
	}

	// Non-acquisition moves stay legal after the deadline.
	res = e.Simulate(context.Background(), "MTL", fullRoster(), []models.ScenarioAction{
		{Type: models.ActionSendDown, PlayerID: "g1"},
	}, afterDeadline)
	for _, v := range res.Violations {
		if strings.Contains(v, "deadline") {
			t.Errorf("send down should not violate the deadline: %v", res.Violations)
		}
	}
}

func TestWaiverExempt(t *testing.T) {
	young := models.RosterPlayer{SigningAge: 19, NHLGames: 40, ProSeasons: 2}
	if !waiverExempt(young) {
		t.Error("young low-games player should be exempt")
	}
	veteran := models.RosterPlayer{SigningAge: 26, NHLGames: 500, ProSeasons: 9}
	if waiverExempt(veteran) {
		t.Error("veteran should not be exempt")
	}
	burned := models.RosterPlayer{SigningAge: 19, NHLGames: 200, ProSeasons: 3}
	if waiverExempt(burned) {
		t.Error("exemption burns off with NHL games")
	}
}

func TestEvaluateAcquisitionFindsRoom(t *testing.T) {
	e := NewEngine(models.CapRules{CapCeiling: 70_000_000, CapFloor: 1})
	roster := fullRoster() // 66M, 20 active
	target := models.RosterPlayer{
		PlayerID: "target", PlayerName: "Big Add", Position: "C",
		CapHit: 8_000_000, ValueProxy: 9,
	}

	res := e.EvaluateAcquisition(context.Background(), "MTL", roster, target, midSeason())
	if res.Best == nil {
		t.Fatalf("expected a feasible plan, warnings: %v", res.Warnings)
	}
	if len(res.Best.Removals) == 0 {
		t.Error("4M of space for an 8M player requires removals")
	}
	if res.Best.CapSpaceAfter < 0 {
		t.Errorf("best plan not cap-feasible: %+v", res.Best)
	}
	if len(res.Plans) > 10 {
		t.Errorf("plan list unbounded: %d", len(res.Plans))
	}
}

func TestEvaluateAcquisitionNoRemovalsNeeded(t *testing.T) {
	e := NewEngine(models.CapRules{CapFloor: 1})
	target := models.RosterPlayer{PlayerID: "cheap", Position: "D", CapHit: 800_000, ValueProxy: 1}

	res := e.EvaluateAcquisition(context.Background(), "MTL", fullRoster(), target, midSeason())
	if res.Best == nil {
		t.Fatal("expected immediate feasibility")
	}
	if len(res.Best.Removals) != 0 {
		t.Errorf("no removals should be needed, got %v", res.Best.Removals)
	}
}

func TestEvaluateAcquisitionCancellation(t *testing.T) {
	e := NewEngine(models.CapRules{CapCeiling: 60_000_000, CapFloor: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.EvaluateAcquisition(ctx, "MTL", fullRoster(), models.RosterPlayer{
		PlayerID: "t", CapHit: 10_000_000, Position: "C",
	}, midSeason())
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "cancelled") {
			found = true
		}
	}
	if !found {
		t.Errorf("cancelled search should warn, got %v", res.Warnings)
	}
}
