// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"net/http"
	"strings"

	"github.com/rinkside/rinkside/internal/analytics"
	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/cache"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/validation"
	"github.com/rinkside/rinkside/internal/warehouse"
)

type advancedRequest struct {
	Team   string `validate:"required,nhlteam"`
	Season string `validate:"omitempty,nhlseason"`
	Window int    `validate:"min=1,max=82"`
}

// handleAnalyticsPlayers serves the player form leaderboard over the
// windowed game logs.
func (s *Server) handleAnalyticsPlayers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.warehouse == nil {
		rw.ServiceUnavailable("warehouse is not configured")
		return
	}

	team := strings.ToUpper(r.URL.Query().Get("team"))
	window := clampWindow(intParam(r, "window", s.cfg.Orchestrator.DefaultWindow))
	limit := intParam(r, "limit", 10)

	rows, err := s.warehouse.PlayerGameLogs(r.Context(), warehouse.GameLogFilter{
		TeamCode: team,
		Limit:    window,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	form := analytics.PlayerForm(rows, limit)
	rw.SuccessWithPagination(form, &models.PaginationMeta{Count: len(form)})
}

// handleAnalyticsTeams serves windowed team trends, one row per team, or a
// single team when ?team= is given.
func (s *Server) handleAnalyticsTeams(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.warehouse == nil {
		rw.ServiceUnavailable("warehouse is not configured")
		return
	}

	window := clampWindow(intParam(r, "window", s.cfg.Orchestrator.DefaultWindow))
	var teams []string
	if team := strings.ToUpper(r.URL.Query().Get("team")); team != "" {
		teams = []string{team}
	}

	rows, err := s.warehouse.TeamGameLogs(r.Context(), teams, window)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := teamTrendsFor(rows)
	rw.SuccessWithPagination(out, &models.PaginationMeta{Count: len(out)})
}

// teamTrendsFor groups rows by team and computes trends per team,
// preserving first-seen order.
func teamTrendsFor(rows []models.TeamGameRow) []models.TeamTrends {
	byTeam := map[string][]models.TeamGameRow{}
	var order []string
	for _, row := range rows {
		if _, ok := byTeam[row.TeamCode]; !ok {
			order = append(order, row.TeamCode)
		}
		byTeam[row.TeamCode] = append(byTeam[row.TeamCode], row)
	}
	out := make([]models.TeamTrends, 0, len(order))
	for _, code := range order {
		out = append(out, analytics.ComputeTeamTrends(code, byTeam[code]))
	}
	return out
}

// handleAnalyticsQuery runs a one-shot query through the pipeline. Same
// semantics as POST /query; kept on the analytics group for dashboard
// clients that only hold the analytics grant.
func (s *Server) handleAnalyticsQuery(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, problem := decodeQueryRequest(r)
	if problem != "" {
		rw.BadRequest(problem)
		return
	}

	user := auth.UserFromContext(r.Context())
	resp := s.orchestrator.Process(r.Context(), req, user)
	rw.JSON(http.StatusOK, resp)
}

// handleMTLAdvanced is the composed Canadiens dashboard surface: team
// trends, the player form leaderboard, the division threat ranking, and the
// fan sentiment proxy, served with a conditional-GET validator.
func (s *Server) handleMTLAdvanced(w http.ResponseWriter, r *http.Request) {
	s.serveTeamAdvanced(w, r, "MTL")
}

func (s *Server) serveTeamAdvanced(w http.ResponseWriter, r *http.Request, team string) {
	rw := NewResponseWriter(w, r)
	if s.warehouse == nil {
		rw.ServiceUnavailable("warehouse is not configured")
		return
	}

	req := advancedRequest{
		Team:   team,
		Season: r.URL.Query().Get("season"),
		Window: clampWindow(intParam(r, "window", s.cfg.Orchestrator.DefaultWindow)),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr.Error(), verr.Details())
		return
	}
	team = strings.ToUpper(req.Team)

	user := auth.UserFromContext(r.Context())
	if !user.HasTeamAccess(team) {
		rw.Forbidden("no access to team " + team)
		return
	}

	// Threat ranking needs every team's window, not just ours.
	allRows, err := s.warehouse.TeamGameLogs(r.Context(), nil, req.Window)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	var teamRows []models.TeamGameRow
	for _, row := range allRows {
		if row.TeamCode == team {
			teamRows = append(teamRows, row)
		}
	}

	playerRows, err := s.warehouse.PlayerGameLogs(r.Context(), warehouse.GameLogFilter{
		TeamCode: team,
		Limit:    req.Window,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	trends := analytics.ComputeTeamTrends(team, teamRows)
	form := analytics.PlayerForm(playerRows, 10)
	threats := analytics.RivalThreats(allRows)
	sentiment := analytics.FanSentiment(trends, form)

	payload := map[string]interface{}{
		"team_code":     team,
		"window":        req.Window,
		"trends":        trends,
		"player_form":   form,
		"rival_threats": threats,
		"fan_sentiment": sentiment,
	}

	maxAge := int(s.cfg.Cache.TeamAdvanced.Seconds())
	if cache.ConditionalGet(w, r, cache.ComputeETag(payload), maxAge, maxAge/2) {
		return
	}
	rw.Success(payload)
}

func clampWindow(window int) int {
	if window < 1 {
		return 10
	}
	if window > 82 {
		return 82
	}
	return window
}
