// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package market

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/warehouse"
)

// ComparableInput is the target player profile comparables are scored
// against.
type ComparableInput struct {
	Position      string
	Age           float64
	PointsPerGame float64
	SigningYear   int
	CapHitPct     float64
}

// Similarity scores a candidate against the target on the 0-100 scale.
// Component budgets: 25 age, 35 production, 15 position, 10 signing era,
// 15 cap-hit share.
func Similarity(target ComparableInput, cand models.MarketComparable) float64 {
	var score float64

	// Age proximity: full 25 at equal age, minus 3 per year of gap.
	score += math.Max(0, 25-math.Abs(target.Age-cand.Age)*3)

	// Production similarity as min/max ratio of points per game.
	score += 35 * minMaxRatio(target.PointsPerGame, cand.PointsPerGame)

	// Position: full 15 on exact match, half credit for same type
	// (forward vs forward).
	switch {
	case strings.EqualFold(target.Position, cand.Position):
		score += 15
	case positionGroup(target.Position) == positionGroup(cand.Position):
		score += 7.5
	}

	// Contract-era proximity: minus 1 per year between signings.
	score += math.Max(0, 10-math.Abs(float64(target.SigningYear-cand.SigningYear)))

	// Cap-hit-percentage similarity.
	score += 15 * minMaxRatio(target.CapHitPct, cand.CapHitPct)

	return clipComponent100(score)
}

func minMaxRatio(a, b float64) float64 {
	if a <= 0 || b <= 0 || math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	return math.Min(a, b) / math.Max(a, b)
}

func clipComponent100(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Comparables ranks the league's contracts by similarity to the target and
// returns the top limit rows above the floor score of 40.
func (s *Service) Comparables(ctx context.Context, target ComparableInput, season string, limit int) ([]models.MarketComparable, error) {
	if s.db.Disabled() {
		return nil, warehouse.ErrDisabled
	}
	if limit <= 0 {
		limit = 5
	}

	contracts, err := s.db.LeagueContracts(ctx, season, "")
	if err != nil {
		return nil, err
	}

	out := make([]models.MarketComparable, 0, len(contracts))
	for _, c := range contracts {
		cand := models.MarketComparable{
			PlayerID:    c.PlayerID,
			PlayerName:  c.PlayerName,
			TeamCode:    c.TeamCode,
			Position:    c.Position,
			Age:         c.Age,
			CapHit:      c.CapHit,
			CapHitPct:   c.CapHitPct,
			SigningYear: c.SigningYear,
			// Points per game is not carried on the contract row; the
			// production term falls out unless callers enrich it.
			PointsPerGame: 0,
		}
		cand.Similarity = Similarity(target, cand)
		if cand.Similarity >= 40 {
			out = append(out, cand)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
