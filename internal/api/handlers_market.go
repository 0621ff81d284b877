// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rinkside/rinkside/internal/cache"
	"github.com/rinkside/rinkside/internal/market"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/warehouse"
)

// handleContractLookup resolves a contract by ?name= with optional ?team=
// disambiguation.
func (s *Server) handleContractLookup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		rw.BadRequest("name query parameter is required")
		return
	}
	team := strings.ToUpper(r.URL.Query().Get("team"))

	contract, err := s.market.ResolveContract(r.Context(), "", name, team, seasonParam(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	rw.Success(contract)
}

func (s *Server) handleContract(w http.ResponseWriter, r *http.Request) {
	contract, err := s.market.ResolveContract(r.Context(), chi.URLParam(r, "playerID"), "", "", seasonParam(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(contract)
}

// handleContractSheet serves the raw scouting sheet for a player, parsed
// from the contract CSV drop.
func (s *Server) handleContractSheet(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		rw.BadRequest("name query parameter is required")
		return
	}

	sheet, err := s.market.ContractSheet(name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	rw.Success(sheet)
}

// handleCapSummary serves a team's cap sheet with a conditional-GET
// validator; cap numbers move on transactions, not on every poll.
func (s *Server) handleCapSummary(w http.ResponseWriter, r *http.Request) {
	team := strings.ToUpper(chi.URLParam(r, "team"))

	summary, err := s.market.TeamCapSummary(r.Context(), team, seasonParam(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	maxAge := int(s.cfg.Cache.CapSnapshots.Seconds())
	if cache.ConditionalGet(w, r, cache.ComputeETag(summary), maxAge, maxAge/2) {
		return
	}
	NewResponseWriter(w, r).Success(summary)
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	team := strings.ToUpper(r.URL.Query().Get("team"))
	if team == "" {
		rw.BadRequest("team query parameter is required")
		return
	}
	limit := intParam(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	trades, err := s.market.Trades(r.Context(), team, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	rw.SuccessWithPagination(trades, &models.PaginationMeta{Count: len(trades)})
}

type positionGroupOverview struct {
	Group        string  `json:"group"`
	Contracts    int     `json:"contracts"`
	TotalCapHit  float64 `json:"total_cap_hit"`
	AvgCapHit    float64 `json:"avg_cap_hit"`
	MedianCapHit float64 `json:"median_cap_hit"`
}

// handleLeagueOverview aggregates the league contract table into per
// position-group spending figures.
func (s *Server) handleLeagueOverview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.warehouse == nil {
		rw.ServiceUnavailable("warehouse is not configured")
		return
	}

	season := seasonParam(r)
	contracts, err := s.warehouse.LeagueContracts(r.Context(), season, "")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	hits := map[string][]float64{}
	for _, c := range contracts {
		group := positionGroupFor(c.Position)
		hits[group] = append(hits[group], c.CapHit)
	}

	groups := make([]positionGroupOverview, 0, 3)
	for _, group := range []string{"F", "D", "G"} {
		caps := hits[group]
		if len(caps) == 0 {
			continue
		}
		sort.Float64s(caps)
		var total float64
		for _, v := range caps {
			total += v
		}
		groups = append(groups, positionGroupOverview{
			Group:        group,
			Contracts:    len(caps),
			TotalCapHit:  total,
			AvgCapHit:    total / float64(len(caps)),
			MedianCapHit: medianOf(caps),
		})
	}

	rw.Success(map[string]interface{}{
		"season":          season,
		"total_contracts": len(contracts),
		"position_groups": groups,
	})
}

// handleEfficiency scores a contract against the player's windowed per-60
// production.
func (s *Server) handleEfficiency(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.warehouse == nil {
		rw.ServiceUnavailable("warehouse is not configured")
		return
	}

	playerID := chi.URLParam(r, "playerID")
	contract, err := s.market.ResolveContract(r.Context(), playerID, "", "", seasonParam(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	rows, err := s.warehouse.PlayerGameLogs(r.Context(), warehouse.GameLogFilter{
		PlayerIDs: []string{playerID},
		Limit:     intParam(r, "window", 20),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	rw.Success(market.ContractEfficiency(*contract, seasonStatsFor(rows)))
}

// seasonStatsFor folds game logs into the per-60 inputs the efficiency
// model expects. OnIceXGFPct doubles as the defensive rating proxy.
func seasonStatsFor(rows []models.PlayerGameRow) market.SeasonStats {
	var points, xg, toi, xgfPct float64
	for _, row := range rows {
		points += row.EVPrimaryPoints
		xg += row.IndividualXG
		toi += toiMinutes(row.TOI)
		xgfPct += row.OnIceXGFPct
	}
	if toi <= 0 {
		return market.SeasonStats{}
	}
	stats := market.SeasonStats{
		PointsPer60: points * 60 / toi,
		XGPer60:     xg * 60 / toi,
	}
	if len(rows) > 0 {
		stats.DefensiveRating = xgfPct / float64(len(rows)) * 100
	}
	return stats
}

// toiMinutes parses "mm:ss" into fractional minutes. Malformed values read
// as zero ice time.
func toiMinutes(toi string) float64 {
	parts := strings.SplitN(toi, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil || mins < 0 {
		return 0
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil || secs < 0 || secs > 59 {
		return 0
	}
	return float64(mins) + float64(secs)/60
}

func (s *Server) handleComparables(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.warehouse == nil {
		rw.ServiceUnavailable("warehouse is not configured")
		return
	}

	playerID := chi.URLParam(r, "playerID")
	season := seasonParam(r)
	contract, err := s.market.ResolveContract(r.Context(), playerID, "", "", season)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	rows, err := s.warehouse.PlayerGameLogs(r.Context(), warehouse.GameLogFilter{
		PlayerIDs: []string{playerID},
		Limit:     intParam(r, "window", 20),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	var ppg float64
	if len(rows) > 0 {
		var points float64
		for _, row := range rows {
			points += row.EVPrimaryPoints
		}
		ppg = points / float64(len(rows))
	}

	limit := intParam(r, "limit", 5)
	if limit < 1 || limit > 25 {
		limit = 5
	}
	comps, err := s.market.Comparables(r.Context(), market.ComparableInput{
		Position:      contract.Position,
		Age:           contract.Age,
		PointsPerGame: ppg,
		SigningYear:   contract.SigningYear,
		CapHitPct:     contract.CapHitPct,
	}, season, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	rw.Success(map[string]interface{}{
		"target":      contract,
		"comparables": comps,
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "points"
	}

	forecast, err := s.market.Forecast(r.Context(), chi.URLParam(r, "playerID"), seasonParam(r), metric)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"metric": metric,
		"rows":   forecast,
	})
}

// handleDepthChart groups a team's active contracts by position group; rows
// arrive cap-hit sorted, which is the depth ordering we want.
func (s *Server) handleDepthChart(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.warehouse == nil {
		rw.ServiceUnavailable("warehouse is not configured")
		return
	}

	team := strings.ToUpper(chi.URLParam(r, "team"))
	season := seasonParam(r)
	contracts, err := s.warehouse.ActiveContracts(r.Context(), team, season)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	chart := map[string][]models.ContractRecord{"F": {}, "D": {}, "G": {}}
	for _, c := range contracts {
		group := positionGroupFor(c.Position)
		chart[group] = append(chart[group], c)
	}

	rw.Success(map[string]interface{}{
		"team_code":   team,
		"season":      season,
		"forwards":    chart["F"],
		"defense":     chart["D"],
		"goalies":     chart["G"],
		"roster_size": len(contracts),
	})
}

func positionGroupFor(position string) string {
	switch strings.ToUpper(position) {
	case "G":
		return "G"
	case "D", "LD", "RD":
		return "D"
	default:
		return "F"
	}
}

func medianOf(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
