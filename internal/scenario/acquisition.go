// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rinkside/rinkside/internal/models"
)

// Knapsack search bounds: candidate pool and combination size.
const (
	maxRemovalPool = 15
	maxComboSize   = 5
)

// waiverExempt applies the age-at-signing and experience thresholds: young
// signings stay exempt until they accumulate NHL games or pro seasons.
func waiverExempt(p models.RosterPlayer) bool {
	switch {
	case p.SigningAge <= 0:
		return false
	case p.SigningAge < 20:
		return p.NHLGames < 160 && p.ProSeasons < 5
	case p.SigningAge < 22:
		return p.NHLGames < 80 && p.ProSeasons < 4
	case p.SigningAge < 25:
		return p.NHLGames < 60 && p.ProSeasons < 3
	default:
		return p.NHLGames < 60 && p.ProSeasons < 2
	}
}

// EvaluateAcquisition searches removal combinations that make cap and
// roster room for the target. The pool is bounded to the cheapest-value
// removal candidates, then greedy first, then exhaustive combinations up
// to maxComboSize. The search is preemptable between combinations.
func (e *Engine) EvaluateAcquisition(ctx context.Context, team string, roster []models.RosterPlayer, target models.RosterPlayer, asOf time.Time) *models.AcquisitionResult {
	result := &models.AcquisitionResult{
		TeamCode: strings.ToUpper(team),
		Target:   target,
		Plans:    []models.AcquisitionPlan{},
	}

	st := newRosterState(roster)
	base := e.metrics(st)

	// No removals needed at all?
	if base.CapSpace >= target.CapHit && base.RosterSize < e.rules.RosterMax {
		plan := e.scorePlan(roster, nil, target)
		result.Plans = append(result.Plans, plan)
		result.Best = &result.Plans[0]
		return result
	}

	pool := removalPool(roster)
	if len(pool) == 0 {
		result.Warnings = append(result.Warnings, "no removal candidates; acquisition infeasible as constructed")
		return result
	}

	// Greedy pass: waiver-exempt first, then smallest value proxy, until
	// the target fits.
	greedy := greedyRemovals(e, roster, pool, target)
	if greedy != nil {
		result.Plans = append(result.Plans, e.scorePlan(roster, greedy, target))
	}

	// Small exhaustive pass over combinations up to maxComboSize.
	ids := make([]string, len(pool))
	for i, p := range pool {
		ids[i] = p.PlayerID
	}
search:
	for size := 1; size <= maxComboSize && size <= len(ids); size++ {
		for _, combo := range combinations(ids, size) {
			if err := ctx.Err(); err != nil {
				result.Warnings = append(result.Warnings, "search cancelled; partial plan set returned")
				break search
			}
			plan := e.scorePlan(roster, combo, target)
			if plan.Feasible {
				result.Plans = append(result.Plans, plan)
			}
		}
	}

	sort.SliceStable(result.Plans, func(i, j int) bool {
		return result.Plans[i].Objective > result.Plans[j].Objective
	})
	if len(result.Plans) > 10 {
		result.Plans = result.Plans[:10]
	}
	for i := range result.Plans {
		if result.Plans[i].Feasible {
			result.Best = &result.Plans[i]
			break
		}
	}
	if result.Best == nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"no feasible plan within %d removals", maxComboSize))
	}
	return result
}

// removalPool selects up to maxRemovalPool active skaters/goalies, lowest
// value proxy first, so the search prefers moving depth pieces.
func removalPool(roster []models.RosterPlayer) []models.RosterPlayer {
	var pool []models.RosterPlayer
	for _, p := range roster {
		if activeRoster(p.RosterStatus) {
			pool = append(pool, p)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].ValueProxy < pool[j].ValueProxy })
	if len(pool) > maxRemovalPool {
		pool = pool[:maxRemovalPool]
	}
	return pool
}

func greedyRemovals(e *Engine, roster []models.RosterPlayer, pool []models.RosterPlayer, target models.RosterPlayer) []string {
	ordered := make([]models.RosterPlayer, len(pool))
	copy(ordered, pool)
	sort.SliceStable(ordered, func(i, j int) bool {
		ei, ej := waiverExempt(ordered[i]), waiverExempt(ordered[j])
		if ei != ej {
			return ei
		}
		return ordered[i].ValueProxy < ordered[j].ValueProxy
	})

	var removals []string
	for _, p := range ordered {
		plan := e.scorePlan(roster, removals, target)
		if plan.Feasible {
			break
		}
		removals = append(removals, p.PlayerID)
	}
	if plan := e.scorePlan(roster, removals, target); plan.Feasible {
		return removals
	}
	return nil
}

// scorePlan simulates removing the given players and adding the target,
// then scores the outcome. The objective combines normalized cap space,
// value delta, coverage, and a waiver-risk penalty for removing non-exempt
// players.
func (e *Engine) scorePlan(roster []models.RosterPlayer, removals []string, target models.RosterPlayer) models.AcquisitionPlan {
	st := newRosterState(roster)
	var valueOut float64
	var waiverRisk float64
	for _, id := range removals {
		p := st.players[id]
		if p == nil {
			continue
		}
		valueOut += p.ValueProxy
		if !waiverExempt(*p) {
			waiverRisk += 1
		}
		delete(st.players, id)
	}
	targetCopy := target
	targetCopy.RosterStatus = models.RosterStatusNHL
	st.players[targetCopy.PlayerID] = &targetCopy
	st.order = append(st.order, targetCopy.PlayerID)

	after := e.metrics(st)
	feasible := after.CapSpace >= 0 && after.RosterSize <= e.rules.RosterMax

	capNorm := after.CapSpace / e.rules.CapCeiling
	if capNorm < 0 {
		capNorm = -1
	}
	valueDelta := target.ValueProxy - valueOut

	plan := models.AcquisitionPlan{
		Removals:      append([]string{}, removals...),
		CapSpaceAfter: after.CapSpace,
		ValueDelta:    valueDelta,
		CoverageScore: after.CoverageScore,
		WaiverRisk:    waiverRisk,
		Feasible:      feasible,
	}
	plan.Objective = 0.35*capNorm + 0.30*(valueDelta/10) + 0.25*after.CoverageScore - 0.10*waiverRisk
	return plan
}

// combinations enumerates k-element subsets of ids.
func combinations(ids []string, k int) [][]string {
	var out [][]string
	combo := make([]string, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			out = append(out, append([]string{}, combo...))
			return
		}
		for i := start; i <= len(ids)-(k-depth); i++ {
			combo[depth] = ids[i]
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return out
}
