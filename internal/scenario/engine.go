// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package scenario simulates roster and cap what-if actions under league
// rule constraints, and evaluates acquisition plans over small removal
// pools.
package scenario

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/models"
)

// Default league rules applied when no explicit rules are supplied.
const (
	defaultCapCeiling   = 95_500_000
	defaultCapFloor     = 70_600_000
	defaultBonusCushion = 0.075
	rosterMax           = 23
)

// Ideal position coverage for a full NHL roster.
const (
	idealForwards = 12
	idealDefense  = 6
	idealGoalies  = 2
)

// Engine runs simulations over roster snapshots.
type Engine struct {
	rules models.CapRules
}

// NewEngine builds an engine with the given rules; zero-valued fields fall
// back to league defaults.
func NewEngine(rules models.CapRules) *Engine {
	if rules.CapCeiling <= 0 {
		rules.CapCeiling = defaultCapCeiling
	}
	if rules.CapFloor <= 0 {
		rules.CapFloor = defaultCapFloor
	}
	if rules.BonusCushion <= 0 {
		rules.BonusCushion = defaultBonusCushion
	}
	if rules.RosterMax <= 0 {
		rules.RosterMax = rosterMax
	}
	return &Engine{rules: rules}
}

// rosterState is the mutable simulation state.
type rosterState struct {
	players    map[string]*models.RosterPlayer
	order      []string
	ltirRelief float64
}

func newRosterState(roster []models.RosterPlayer) *rosterState {
	st := &rosterState{players: map[string]*models.RosterPlayer{}}
	for i := range roster {
		p := roster[i]
		if _, ok := st.players[p.PlayerID]; ok {
			continue
		}
		st.players[p.PlayerID] = &p
		st.order = append(st.order, p.PlayerID)
	}
	return st
}

// resolve finds a player by id or case-insensitive name fragment.
func (st *rosterState) resolve(ref models.ScenarioAction) *models.RosterPlayer {
	if ref.PlayerID != "" {
		return st.players[ref.PlayerID]
	}
	needle := strings.ToLower(strings.TrimSpace(ref.PlayerName))
	if needle == "" {
		return nil
	}
	for _, id := range st.order {
		if strings.Contains(strings.ToLower(st.players[id].PlayerName), needle) {
			return st.players[id]
		}
	}
	return nil
}

// activeRoster reports whether a status occupies an active roster slot.
func activeRoster(status string) bool {
	return status == models.RosterStatusNHL || status == models.RosterStatusIR
}

// countsAgainstCap reports whether a status contributes cap hit. LTIR
// placements keep counting; relief raises the effective ceiling instead.
func countsAgainstCap(status string) bool {
	switch status {
	case models.RosterStatusNHL, models.RosterStatusIR, models.RosterStatusSOIR:
		return true
	}
	return false
}

// Simulate applies actions in order and returns before/after metrics with
// compliance findings. Unknown player references are skipped with a
// warning; the simulation itself never fails.
func (e *Engine) Simulate(ctx context.Context, team string, roster []models.RosterPlayer, actions []models.ScenarioAction, asOf time.Time) *models.ScenarioResult {
	st := newRosterState(roster)
	result := &models.ScenarioResult{
		TeamCode:   strings.ToUpper(team),
		AsOfDate:   asOf.Format("2006-01-02"),
		Before:     e.metrics(st),
		Violations: []string{},
	}

	for i, action := range actions {
		if err := ctx.Err(); err != nil {
			result.Warnings = append(result.Warnings, "simulation cancelled before all actions applied")
			break
		}
		e.apply(st, action, i, result)
	}

	result.After = e.metrics(st)
	e.checkCompliance(st, asOf, result)
	result.Compliant = len(result.Violations) == 0

	logging.Ctx(ctx).Debug().
		Str("team", result.TeamCode).
		Int("actions", len(actions)).
		Bool("compliant", result.Compliant).
		Msg("Scenario simulated")
	return result
}

func (e *Engine) apply(st *rosterState, action models.ScenarioAction, idx int, result *models.ScenarioResult) {
	switch action.Type {
	case models.ActionAddPlayer, models.ActionAcquirePlayer:
		id := action.PlayerID
		if id == "" {
			id = fmt.Sprintf("synthetic-%d", idx)
		}
		if _, exists := st.players[id]; exists {
			result.Warnings = append(result.Warnings, fmt.Sprintf("action %d: player %s already on roster", idx, id))
			return
		}
		p := &models.RosterPlayer{
			PlayerID:     id,
			PlayerName:   action.PlayerName,
			Position:     strings.ToUpper(action.Position),
			CapHit:       action.CapHit,
			RosterStatus: models.RosterStatusNHL,
		}
		st.players[id] = p
		st.order = append(st.order, id)
		result.Notes = append(result.Notes, fmt.Sprintf("added %s at %s", displayName(p), money(p.CapHit)))

	case models.ActionRemovePlayer:
		p := st.resolve(action)
		if p == nil {
			result.Warnings = append(result.Warnings, unknownRef(action, idx))
			return
		}
		delete(st.players, p.PlayerID)
		for i, id := range st.order {
			if id == p.PlayerID {
				st.order = append(st.order[:i], st.order[i+1:]...)
				break
			}
		}
		result.Notes = append(result.Notes, fmt.Sprintf("removed %s, freeing %s", displayName(p), money(p.CapHit)))

	case models.ActionCallUp:
		p := st.resolve(action)
		if p == nil {
			result.Warnings = append(result.Warnings, unknownRef(action, idx))
			return
		}
		p.RosterStatus = models.RosterStatusNHL
		result.Notes = append(result.Notes, fmt.Sprintf("called up %s", displayName(p)))

	case models.ActionSendDown:
		p := st.resolve(action)
		if p == nil {
			result.Warnings = append(result.Warnings, unknownRef(action, idx))
			return
		}
		p.RosterStatus = models.RosterStatusMinor
		result.Notes = append(result.Notes, fmt.Sprintf("sent down %s", displayName(p)))

	case models.ActionPlaceIR:
		p := st.resolve(action)
		if p == nil {
			result.Warnings = append(result.Warnings, unknownRef(action, idx))
			return
		}
		p.RosterStatus = models.RosterStatusIR
		result.Notes = append(result.Notes, fmt.Sprintf("placed %s on IR", displayName(p)))

	case models.ActionPlaceLTIR:
		p := st.resolve(action)
		if p == nil {
			result.Warnings = append(result.Warnings, unknownRef(action, idx))
			return
		}
		// The hit stays on the books; the relief pool raises the effective
		// ceiling by the same amount, and the player vacates an active
		// roster slot.
		p.RosterStatus = models.RosterStatusSOIR
		st.ltirRelief += p.CapHit
		result.Notes = append(result.Notes, fmt.Sprintf("placed %s on LTIR, relief %s", displayName(p), money(p.CapHit)))

	default:
		result.Warnings = append(result.Warnings, fmt.Sprintf("action %d: unknown type %q", idx, action.Type))
	}
}

func unknownRef(action models.ScenarioAction, idx int) string {
	ref := action.PlayerID
	if ref == "" {
		ref = action.PlayerName
	}
	return fmt.Sprintf("action %d (%s): unknown player %q skipped", idx, action.Type, ref)
}

func displayName(p *models.RosterPlayer) string {
	if p.PlayerName != "" {
		return p.PlayerName
	}
	return p.PlayerID
}

func money(v float64) string {
	return fmt.Sprintf("$%.2fM", v/1_000_000)
}

// metrics snapshots the current cap and roster picture.
func (e *Engine) metrics(st *rosterState) models.ScenarioMetrics {
	m := models.ScenarioMetrics{
		LTIRRelief:       st.ltirRelief,
		EffectiveCeiling: e.rules.CapCeiling + st.ltirRelief,
	}
	for _, id := range st.order {
		p := st.players[id]
		if p == nil {
			continue
		}
		if countsAgainstCap(p.RosterStatus) {
			m.CapHitTotal += p.CapHit
		}
		if !activeRoster(p.RosterStatus) {
			continue
		}
		m.RosterSize++
		switch positionGroup(p.Position) {
		case "F":
			m.Forwards++
		case "D":
			m.Defense++
		case "G":
			m.Goalies++
		}
	}
	m.CapSpace = m.EffectiveCeiling - m.CapHitTotal
	m.CoverageScore = coverageScore(m.Forwards, m.Defense, m.Goalies)
	return m
}

func positionGroup(position string) string {
	switch strings.ToUpper(position) {
	case "D", "LD", "RD":
		return "D"
	case "G":
		return "G"
	case "":
		return ""
	default:
		return "F"
	}
}

// coverageScore measures how close the active roster is to the ideal
// 12F/6D/2G shape: each missing slot costs 1/20 of the score.
func coverageScore(forwards, defense, goalies int) float64 {
	missing := 0
	if forwards < idealForwards {
		missing += idealForwards - forwards
	}
	if defense < idealDefense {
		missing += idealDefense - defense
	}
	if goalies < idealGoalies {
		missing += idealGoalies - goalies
	}
	score := 1 - float64(missing)/float64(idealForwards+idealDefense+idealGoalies)
	if score < 0 {
		return 0
	}
	return score
}

// tradeDeadlineFor returns the season's deadline: the first Friday of March
// in the season's closing year, unless the rules pin an explicit date.
func (e *Engine) tradeDeadlineFor(asOf time.Time) time.Time {
	if e.rules.TradeDeadline != "" {
		if t, err := time.Parse("2006-01-02", e.rules.TradeDeadline); err == nil {
			return t
		}
	}
	year := asOf.Year()
	if asOf.Month() >= time.July {
		year++
	}
	d := time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func (e *Engine) checkCompliance(st *rosterState, asOf time.Time, result *models.ScenarioResult) {
	after := e.metrics(st)

	if after.CapHitTotal > after.EffectiveCeiling {
		result.Violations = append(result.Violations, fmt.Sprintf(
			"cap ceiling exceeded: %s over effective ceiling %s",
			money(after.CapHitTotal-after.EffectiveCeiling), money(after.EffectiveCeiling)))
	}
	if after.CapHitTotal < e.rules.CapFloor {
		result.Violations = append(result.Violations, fmt.Sprintf(
			"cap floor not met: %s short of %s",
			money(e.rules.CapFloor-after.CapHitTotal), money(e.rules.CapFloor)))
	}
	if after.RosterSize > e.rules.RosterMax {
		result.Violations = append(result.Violations, fmt.Sprintf(
			"active roster %d exceeds maximum %d", after.RosterSize, e.rules.RosterMax))
	}
	if deadline := e.tradeDeadlineFor(asOf); asOf.After(deadline) {
		result.Notes = append(result.Notes, fmt.Sprintf(
			"after trade deadline (%s); acquisition moves restricted", deadline.Format("2006-01-02")))
		for _, n := range result.Notes {
			if strings.HasPrefix(n, "added ") {
				result.Violations = append(result.Violations, "acquisition after trade deadline")
				break
			}
		}
	}
}
