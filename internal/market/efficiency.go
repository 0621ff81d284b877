// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package market

import (
	"math"
	"strings"

	"github.com/rinkside/rinkside/internal/models"
)

// SeasonStats carries the per-season production inputs for the efficiency
// model. Skaters use the per-60 rates and defensive rating; goalies use
// save percentage and goals saved above expected.
type SeasonStats struct {
	PointsPer60     float64
	XGPer60         float64
	DefensiveRating float64
	SavePct         float64
	GSAx            float64
}

// Position-group league baselines the sub-scores are measured against.
// Cap-hit-relative: a player producing exactly the baseline per dollar of a
// league-median contract scores 100 on that component.
type baselines struct {
	pointsPer60 float64
	xgPer60     float64
	defense     float64
	savePct     float64
	gsax        float64
	medianCap   float64
}

var positionBaselines = map[string]baselines{
	"F": {pointsPer60: 1.8, xgPer60: 0.85, defense: 50, medianCap: 3_250_000},
	"D": {pointsPer60: 1.0, xgPer60: 0.45, defense: 55, medianCap: 3_000_000},
	"G": {savePct: 0.905, gsax: 0, medianCap: 2_750_000},
}

// Component weights. Skater and goalie composites both sum to 1 so the
// composite stays on the same 0-200 component scale.
const (
	wPoints  = 0.30
	wXG      = 0.25
	wDefense = 0.20
	wAge     = 0.15
	wTerm    = 0.10

	wSavePct = 0.35
	wGSAx    = 0.30
	wAgeG    = 0.20
	wTermG   = 0.15
)

func positionGroup(position string) string {
	switch strings.ToUpper(position) {
	case "D":
		return "D"
	case "G":
		return "G"
	default:
		return "F"
	}
}

func clipComponent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 200 {
		return 200
	}
	return v
}

// ageAdjustment maps age onto the 24-28 prime plateau curve.
func ageAdjustment(age float64) float64 {
	switch {
	case age >= 24 && age <= 28:
		return 100
	case age < 24:
		return 85 + (age-20)*3.75
	default:
		return math.Max(50, 100-(age-28)*5)
	}
}

// termPenalty scores remaining contract length; 3-5 years is the sweet
// spot, very short deals carry re-signing risk and very long ones decline
// risk.
func termPenalty(yearsLeft int) float64 {
	y := float64(yearsLeft)
	switch {
	case yearsLeft >= 3 && yearsLeft <= 5:
		return 100
	case yearsLeft < 3:
		return 70 + y*10
	default:
		return math.Max(60, 100-(y-5)*5)
	}
}

// capRatio scales a production ratio by how the contract compares to the
// position's median cap hit. Cheap contracts amplify value, expensive ones
// dilute it.
func capRatio(capHit, median float64) float64 {
	if capHit <= 0 {
		return 1
	}
	return median / capHit
}

// ContractEfficiency scores one contract against position baselines. The
// composite is the weighted sum of the component scores, so it inherits
// their 0-200 range and the ≥120 / ≥80 status bands apply directly.
func ContractEfficiency(contract models.ContractRecord, stats SeasonStats) models.ContractEfficiency {
	group := positionGroup(contract.Position)
	base := positionBaselines[group]
	ratio := capRatio(contract.CapHit, base.medianCap)

	out := models.ContractEfficiency{
		PlayerID:      contract.PlayerID,
		PlayerName:    contract.PlayerName,
		Position:      contract.Position,
		Season:        contract.Season,
		CapHit:        contract.CapHit,
		AgeAdjustment: clipComponent(ageAdjustment(contract.Age)),
		TermPenalty:   clipComponent(termPenalty(contract.YearsLeft)),
	}

	if group == "G" {
		savePct := stats.SavePct
		if savePct <= 0 {
			savePct = base.savePct
		}
		out.PointsValue = clipComponent(100 * (savePct / base.savePct) * ratio)
		// GSAx is centered on zero; +10 over a season is elite.
		out.XGValue = clipComponent((100 + stats.GSAx*10) * ratio)
		out.Composite = wSavePct*out.PointsValue + wGSAx*out.XGValue +
			wAgeG*out.AgeAdjustment + wTermG*out.TermPenalty
	} else {
		out.PointsValue = clipComponent(100 * (stats.PointsPer60 / base.pointsPer60) * ratio)
		out.XGValue = clipComponent(100 * (stats.XGPer60 / base.xgPer60) * ratio)
		defense := stats.DefensiveRating
		if defense <= 0 {
			defense = base.defense
		}
		out.DefenseValue = clipComponent(100 * (defense / base.defense))
		out.Composite = wPoints*out.PointsValue + wXG*out.XGValue +
			wDefense*out.DefenseValue + wAge*out.AgeAdjustment + wTerm*out.TermPenalty
	}

	out.Composite = clipComponent(out.Composite)
	switch {
	case out.Composite >= 120:
		out.Status = models.EfficiencyOverperforming
	case out.Composite >= 80:
		out.Status = models.EfficiencyFair
	default:
		out.Status = models.EfficiencyUnderperforming
	}
	return out
}
