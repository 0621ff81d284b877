// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package analytics computes the derived-metric surfaces over the columnar
// game logs: the player form leaderboard, windowed team trends, the
// division threat ranking, and the fan sentiment proxy. Every pipeline is
// NaN-safe end to end; non-finite inputs degrade to documented defaults
// rather than propagating into responses.
package analytics

import (
	"sort"

	"github.com/rinkside/rinkside/internal/models"
)

// pfi component weights over the standardized per-60 rates.
const (
	weightEVPoints = 0.35
	weightIXG      = 0.25
	weightShotAst  = 0.15
	weightEntries  = 0.15
	weightXGFPct   = 0.10
)

// minGamesForPFI excludes players with too thin a sample to standardize.
const minGamesForPFI = 3

type playerWindow struct {
	id        string
	name      string
	team      string
	games     []models.PlayerGameRow
	perGame   []float64 // per-game composite inputs for trend halves
	composite float64
}

// PlayerForm computes the form leaderboard for a set of player game logs.
// Rows must be ordered newest first within each player (the warehouse reader
// guarantees this). Players with fewer than three games are excluded; the
// result is the top n by display score.
func PlayerForm(rows []models.PlayerGameRow, n int) []models.PlayerFormIndex {
	if n <= 0 {
		n = 10
	}

	byPlayer := map[string]*playerWindow{}
	var order []string
	for _, r := range rows {
		w, ok := byPlayer[r.PlayerID]
		if !ok {
			w = &playerWindow{id: r.PlayerID, name: r.PlayerName, team: r.TeamCode}
			byPlayer[r.PlayerID] = w
			order = append(order, r.PlayerID)
		}
		w.games = append(w.games, r)
	}

	var cohort []*playerWindow
	for _, id := range order {
		w := byPlayer[id]
		if len(w.games) >= minGamesForPFI {
			cohort = append(cohort, w)
		}
	}
	if len(cohort) == 0 {
		return []models.PlayerFormIndex{}
	}

	// Window-aggregate per-60 rates per player.
	evRates := make([]float64, len(cohort))
	ixgRates := make([]float64, len(cohort))
	astRates := make([]float64, len(cohort))
	entryRates := make([]float64, len(cohort))
	xgfPcts := make([]float64, len(cohort))
	for i, w := range cohort {
		var minutes, ev, ixg, ast, entries, xgf float64
		for _, g := range w.games {
			minutes += parseTOIMinutes(g.TOI)
			ev += finiteOr(g.EVPrimaryPoints, 0)
			ixg += finiteOr(g.IndividualXG, 0)
			ast += finiteOr(g.ShotAssists, 0)
			entries += finiteOr(g.ControlledEntries, 0)
			xgf += finiteOr(g.OnIceXGFPct, 50)
		}
		evRates[i] = safeDiv(ev*60, minutes, 0)
		ixgRates[i] = safeDiv(ixg*60, minutes, 0)
		astRates[i] = safeDiv(ast*60, minutes, 0)
		entryRates[i] = safeDiv(entries*60, minutes, 0)
		xgfPcts[i] = safeDiv(xgf, float64(len(w.games)), 50)
	}

	zEV := zscores(evRates)
	zIXG := zscores(ixgRates)
	zAst := zscores(astRates)
	zEntry := zscores(entryRates)
	zXGF := zscores(xgfPcts)

	composites := make([]float64, len(cohort))
	for i, w := range cohort {
		w.composite = weightEVPoints*zEV[i] + weightIXG*zIXG[i] +
			weightShotAst*zAst[i] + weightEntries*zEntry[i] + weightXGFPct*zXGF[i]
		composites[i] = w.composite
		w.perGame = perGameComposites(w.games)
	}

	// 0-100 display scale around the cohort.
	cMean := mean(composites)
	cStd := stddev(composites)

	out := make([]models.PlayerFormIndex, 0, len(cohort))
	for _, w := range cohort {
		score := 50.0
		if cStd > 0 {
			score = 50 + 15*(w.composite-cMean)/cStd
		}
		out = append(out, models.PlayerFormIndex{
			PlayerID:   w.id,
			PlayerName: w.name,
			TeamCode:   w.team,
			Games:      len(w.games),
			Composite:  finiteOr(w.composite, 0),
			Score:      clip(finiteOr(score, 50), 0, 100),
			Trend:      trendFor(w.perGame),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// perGameComposites reduces each game to an unweighted per-60 composite used
// only for the trend split.
func perGameComposites(games []models.PlayerGameRow) []float64 {
	out := make([]float64, len(games))
	for i, g := range games {
		minutes := parseTOIMinutes(g.TOI)
		out[i] = safeDiv(finiteOr(g.EVPrimaryPoints, 0)*60, minutes, 0) +
			safeDiv(finiteOr(g.IndividualXG, 0)*60, minutes, 0) +
			safeDiv(finiteOr(g.ShotAssists, 0)*60, minutes, 0) +
			safeDiv(finiteOr(g.ControlledEntries, 0)*60, minutes, 0)
	}
	return out
}

// trendFor splits the window into recent and prior halves of size
// k = clamp(n/2, 2, 5). Games arrive newest first, so the recent half is the
// head of the slice. The threshold scales with the spread of the deltas so a
// noisy window does not flip to up/down on ordinary variance.
func trendFor(perGame []float64) string {
	k := len(perGame) / 2
	if k < 2 {
		k = 2
	}
	if k > 5 {
		k = 5
	}
	if len(perGame) < 2*k {
		return models.TrendStable
	}

	recent := perGame[:k]
	prior := perGame[len(perGame)-k:]
	delta := mean(recent) - mean(prior)

	deltas := make([]float64, 0, len(perGame)-1)
	for i := 1; i < len(perGame); i++ {
		deltas = append(deltas, perGame[i-1]-perGame[i])
	}
	threshold := 0.35 * stddev(deltas)
	if threshold < 0.05 {
		threshold = 0.05
	}

	switch {
	case delta > threshold:
		return models.TrendUp
	case delta < -threshold:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}
