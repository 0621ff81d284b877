// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/warehouse"
)

func (s *Server) handleTeamAdvanced(w http.ResponseWriter, r *http.Request) {
	s.serveTeamAdvanced(w, r, strings.ToUpper(chi.URLParam(r, "team")))
}

type rotationRow struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Games      int     `json:"games"`
	AvgTOIMin  float64 `json:"avg_toi_min"`
	UsageBand  string  `json:"usage_band"`
}

// handleTeamRotations summarizes per-player deployment over the window:
// games played, average ice time, and a usage band.
func (s *Server) handleTeamRotations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.warehouse == nil {
		rw.ServiceUnavailable("warehouse is not configured")
		return
	}

	team := strings.ToUpper(chi.URLParam(r, "team"))
	user := auth.UserFromContext(r.Context())
	if !user.HasTeamAccess(team) {
		rw.Forbidden("no access to team " + team)
		return
	}

	window := clampWindow(intParam(r, "window", s.cfg.Orchestrator.DefaultWindow))
	rows, err := s.warehouse.PlayerGameLogs(r.Context(), warehouse.GameLogFilter{
		TeamCode: team,
		Limit:    window,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	type acc struct {
		name  string
		games int
		toi   float64
	}
	byPlayer := map[string]*acc{}
	var order []string
	for _, row := range rows {
		a, ok := byPlayer[row.PlayerID]
		if !ok {
			a = &acc{name: row.PlayerName}
			byPlayer[row.PlayerID] = a
			order = append(order, row.PlayerID)
		}
		a.games++
		a.toi += toiMinutes(row.TOI)
	}

	rotations := make([]rotationRow, 0, len(order))
	for _, id := range order {
		a := byPlayer[id]
		avg := a.toi / float64(a.games)
		rotations = append(rotations, rotationRow{
			PlayerID:   id,
			PlayerName: a.name,
			Games:      a.games,
			AvgTOIMin:  avg,
			UsageBand:  usageBand(avg),
		})
	}
	sort.Slice(rotations, func(i, j int) bool {
		return rotations[i].AvgTOIMin > rotations[j].AvgTOIMin
	})

	rw.Success(map[string]interface{}{
		"team_code": team,
		"window":    window,
		"rotations": rotations,
	})
}

func usageBand(avgTOIMin float64) string {
	switch {
	case avgTOIMin >= 20:
		return "heavy"
	case avgTOIMin >= 16:
		return "top-six"
	case avgTOIMin >= 12:
		return "middle"
	default:
		return "depth"
	}
}

// handleGameDeployments proxies the boxscore for deployment review; the
// shift-level breakdown lives upstream.
func (s *Server) handleGameDeployments(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		NewResponseWriter(w, r).BadRequest("game id must be a positive integer")
		return
	}
	env, err := s.nhl.Boxscore(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(env)
}

type scenarioRequest struct {
	Actions []models.ScenarioAction `json:"actions"`
	Roster  []models.RosterPlayer   `json:"roster,omitempty"`
	AsOf    string                  `json:"as_of,omitempty"`
}

type acquisitionRequest struct {
	Target models.RosterPlayer   `json:"target"`
	Roster []models.RosterPlayer `json:"roster,omitempty"`
	AsOf   string                `json:"as_of,omitempty"`
}

// scenarioSetup resolves the shared simulate/acquisition preamble: team
// access, the as-of date, and the roster (explicit or loaded from the
// active contract table).
func (s *Server) scenarioSetup(w http.ResponseWriter, r *http.Request, roster []models.RosterPlayer, asOfRaw string) (string, []models.RosterPlayer, time.Time, bool) {
	rw := NewResponseWriter(w, r)

	team := strings.ToUpper(chi.URLParam(r, "team"))
	user := auth.UserFromContext(r.Context())
	if !user.HasTeamAccess(team) {
		rw.Forbidden("no access to team " + team)
		return "", nil, time.Time{}, false
	}

	asOf := time.Now().UTC()
	if asOfRaw != "" {
		parsed, err := time.Parse("2006-01-02", asOfRaw)
		if err != nil {
			rw.BadRequest("as_of must be YYYY-MM-DD")
			return "", nil, time.Time{}, false
		}
		asOf = parsed
	}

	if len(roster) == 0 {
		if s.warehouse == nil {
			rw.ServiceUnavailable("warehouse is not configured")
			return "", nil, time.Time{}, false
		}
		contracts, err := s.warehouse.ActiveContracts(r.Context(), team, seasonParam(r))
		if err != nil {
			writeDomainError(w, r, err)
			return "", nil, time.Time{}, false
		}
		roster = rosterFromContracts(contracts)
	}
	return team, roster, asOf, true
}

// rosterFromContracts maps contract rows onto simulation inputs. The
// contract table has no games-played column, so pro seasons stand in for
// waiver tenure and cap hit in millions is the value proxy.
func rosterFromContracts(contracts []models.ContractRecord) []models.RosterPlayer {
	roster := make([]models.RosterPlayer, 0, len(contracts))
	for _, c := range contracts {
		roster = append(roster, models.RosterPlayer{
			PlayerID:     c.PlayerID,
			PlayerName:   c.PlayerName,
			Position:     c.Position,
			CapHit:       c.CapHit,
			RosterStatus: c.RosterStatus,
			Age:          c.Age,
			SigningAge:   c.SigningAge,
			NHLGames:     c.YearsTotal * 60,
			ProSeasons:   c.YearsTotal,
			ValueProxy:   c.CapHit / 1e6,
		})
	}
	return roster
}

// handleScenarioSimulate applies a hypothetical action sequence to the
// roster and reports the cap and compliance deltas.
func (s *Server) handleScenarioSimulate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if len(req.Actions) == 0 {
		rw.BadRequest("at least one action is required")
		return
	}

	team, roster, asOf, ok := s.scenarioSetup(w, r, req.Roster, req.AsOf)
	if !ok {
		return
	}
	rw.Success(s.scenario.Simulate(r.Context(), team, roster, req.Actions, asOf))
}

// handleScenarioAcquisition searches for cap-compliant ways to fit a target
// player onto the roster.
func (s *Server) handleScenarioAcquisition(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req acquisitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if req.Target.PlayerName == "" && req.Target.PlayerID == "" {
		rw.BadRequest("target player is required")
		return
	}
	if req.Target.CapHit <= 0 {
		rw.BadRequest("target cap_hit must be positive")
		return
	}

	team, roster, asOf, ok := s.scenarioSetup(w, r, req.Roster, req.AsOf)
	if !ok {
		return
	}
	rw.Success(s.scenario.EvaluateAcquisition(r.Context(), team, roster, req.Target, asOf))
}
