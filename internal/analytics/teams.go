// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package analytics

import (
	"sort"
	"strings"

	"github.com/rinkside/rinkside/internal/models"
)

// League special-teams baseline (PP 20 / PK 80).
const stBaseline = 100.0

// TeamTrends aggregates one team's game rows over the window. Rows must all
// belong to the same team.
func ComputeTeamTrends(team string, rows []models.TeamGameRow) models.TeamTrends {
	out := models.TeamTrends{
		TeamCode:  strings.ToUpper(team),
		Window:    len(rows),
		XGFPct:    50,
		PaceCFPct: 50,
		PDO:       100,
		PDOStatus: models.PDOSustainable,
	}
	if len(rows) == 0 {
		return out
	}

	var xgf, xga, ppSum, pkSum, cfSum, caSum, shootSum, saveSum float64
	for _, r := range rows {
		xgf += finiteOr(r.XGF, 0)
		xga += finiteOr(r.XGA, 0)
		ppSum += finiteOr(r.PPPct, 20)
		pkSum += finiteOr(r.PKPct, 80)
		cfSum += finiteOr(r.CF60, 0)
		caSum += finiteOr(r.CA60, 0)
		shootSum += finiteOr(r.ShootPct, 0)
		saveSum += finiteOr(r.SavePct, 0)
	}
	n := float64(len(rows))

	out.XGFPct = safeDiv(xgf*100, xgf+xga, 50)
	out.SpecialTeamsNet = safeDiv(ppSum, n, 20) + safeDiv(pkSum, n, 80) - stBaseline
	out.PaceCF60 = safeDiv(cfSum, n, 0)
	out.PaceCA60 = safeDiv(caSum, n, 0)
	out.PaceCFPct = safeDiv(out.PaceCF60*100, out.PaceCF60+out.PaceCA60, 50)
	out.PDO = safeDiv(shootSum, n, 0) + safeDiv(saveSum, n, 0)

	switch {
	case out.PDO > 102:
		out.PDOStatus = models.PDOHot
	case out.PDO < 98:
		out.PDOStatus = models.PDOCold
	default:
		out.PDOStatus = models.PDOSustainable
	}
	return out
}

// atlanticTeams is the fixed fallback ranking emitted when no game data is
// available at all, preserving the shape the UI expects.
var atlanticTeams = []string{"BOS", "BUF", "DET", "FLA", "MTL", "OTT", "TBL", "TOR"}

// RivalThreats ranks teams by threat index over their windowed game rows,
// grouped by team. When rows is empty the fixed division list is emitted
// with the neutral score.
func RivalThreats(rows []models.TeamGameRow) []models.RivalThreat {
	if len(rows) == 0 {
		out := make([]models.RivalThreat, 0, len(atlanticTeams))
		for _, code := range atlanticTeams {
			out = append(out, models.RivalThreat{TeamCode: code, RTIScore: 50})
		}
		return out
	}

	byTeam := map[string][]models.TeamGameRow{}
	var order []string
	for _, r := range rows {
		if _, ok := byTeam[r.TeamCode]; !ok {
			order = append(order, r.TeamCode)
		}
		byTeam[r.TeamCode] = append(byTeam[r.TeamCode], r)
	}

	out := make([]models.RivalThreat, 0, len(order))
	for _, code := range order {
		out = append(out, threatFor(code, byTeam[code]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RTIScore > out[j].RTIScore })
	return out
}

func threatFor(team string, rows []models.TeamGameRow) models.RivalThreat {
	trends := ComputeTeamTrends(team, rows)

	var points, pointsMax, gf, ga float64
	for _, r := range rows {
		points += finiteOr(r.Points, 0)
		pointsMax += finiteOr(r.PointsMax, 0)
		gf += finiteOr(r.GF5v5, 0)
		ga += finiteOr(r.GA5v5, 0)
	}
	pointsPct := safeDiv(points*100, pointsMax, 50)
	goalShare := safeDiv(gf*100, gf+ga, 50)

	// The final term is a goalie-workload placeholder held at the neutral
	// value so missing goalie data never drops a team out of the ranking.
	rti := 0.30*trends.XGFPct +
		0.20*pointsPct +
		0.20*(trends.SpecialTeamsNet+100) +
		0.15*goalShare +
		0.15*50

	return models.RivalThreat{
		TeamCode:        strings.ToUpper(team),
		RTIScore:        clip(finiteOr(rti, 50), 0, 100),
		XGFPct:          trends.XGFPct,
		PointsPct:       pointsPct,
		SpecialTeamsNet: trends.SpecialTeamsNet,
		GoalShare5v5:    goalShare,
		Games:           len(rows),
	}
}

// FanSentiment derives the 0-100 sentiment proxy from a team's trends and
// its top player form rows.
func FanSentiment(trends models.TeamTrends, topForm []models.PlayerFormIndex) models.FanSentiment {
	score := 50.0
	score += (trends.XGFPct - 50) * 0.4
	stImpact := trends.SpecialTeamsNet * 0.75
	score += stImpact

	switch trends.PDOStatus {
	case models.PDOHot:
		score += 5
	case models.PDOCold:
		score -= 5
	}

	if len(topForm) > 0 {
		k := len(topForm)
		if k > 3 {
			k = 3
		}
		var sum float64
		for _, p := range topForm[:k] {
			sum += p.Score
		}
		score += (sum/float64(k) - 50) * 0.3
	}

	score = clip(finiteOr(score, 50), 0, 100)
	return models.FanSentiment{
		TeamCode: trends.TeamCode,
		Score:    score,
		Band:     sentimentBand(score),
		XGFPct:   trends.XGFPct,
		STImpact: stImpact,
		PDOBand:  trends.PDOStatus,
	}
}

func sentimentBand(score float64) string {
	switch {
	case score >= 70:
		return models.SentimentVeryPositive
	case score >= 55:
		return models.SentimentPositive
	case score >= 45:
		return models.SentimentNeutral
	case score >= 30:
		return models.SentimentConcerned
	default:
		return models.SentimentVeryConcerned
	}
}
