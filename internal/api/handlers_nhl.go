// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/cache"
)

// dateParam reads ?date= or defaults to today in the caller's timezone.
// "Today" depends on where the caller is; a game that is tonight in Montreal
// is tomorrow in UTC.
func dateParam(r *http.Request) string {
	if date := r.URL.Query().Get("date"); date != "" {
		return date
	}
	loc := time.UTC
	if user := auth.UserFromContext(r.Context()); user != nil && user.Preferences.Timezone != "" {
		if l, err := time.LoadLocation(user.Preferences.Timezone); err == nil {
			loc = l
		}
	}
	return time.Now().In(loc).Format("2006-01-02")
}

func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func gameIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) handleNHLScores(w http.ResponseWriter, r *http.Request) {
	env, err := s.nhl.Scores(r.Context(), dateParam(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(env)
}

func (s *Server) handleNHLSchedule(w http.ResponseWriter, r *http.Request) {
	env, err := s.nhl.Schedule(r.Context(), dateParam(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(env)
}

// handleNHLStandings serves standings with a conditional-GET validator so
// dashboard pollers revalidate instead of re-downloading.
func (s *Server) handleNHLStandings(w http.ResponseWriter, r *http.Request) {
	env, err := s.nhl.Standings(r.Context(), dateParam(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	maxAge := int(s.cfg.Cache.Standings.Seconds())
	if cache.ConditionalGet(w, r, cache.ComputeETag(env), maxAge, maxAge/2) {
		return
	}
	NewResponseWriter(w, r).Success(env)
}

func (s *Server) handleNHLLeaders(w http.ResponseWriter, r *http.Request) {
	position := r.URL.Query().Get("position")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = "points"
	}
	env, err := s.nhl.Leaders(r.Context(), position, category, intParam(r, "limit", 10))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(env)
}

func (s *Server) handleNHLBoxscore(w http.ResponseWriter, r *http.Request) {
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

func (s *Server) handleNHLPlayByPlay(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		NewResponseWriter(w, r).BadRequest("game id must be a positive integer")
		return
	}
	env, err := s.nhl.PlayByPlay(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(env)
}

func (s *Server) handleNHLGameLanding(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		NewResponseWriter(w, r).BadRequest("game id must be a positive integer")
		return
	}
	env, err := s.nhl.GameLanding(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(env)
}
