// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin verifies a username/secret pair and returns the opaque bearer
// token. Tokens are stateless; the expiry is advisory.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		rw.BadRequest("username and password are required")
		return
	}

	principal, err := s.principals.Verify(req.Username, req.Password)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Str("username", req.Username).Msg("Login failed")
		rw.Unauthorized("invalid credentials")
		return
	}

	ttl := s.cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	rw.JSON(http.StatusOK, models.LoginResponse{
		Success:     true,
		AccessToken: auth.EncodeToken(req.Username, req.Password),
		UserInfo:    *principal.User(),
		ExpiresIn:   int(ttl.Seconds()),
		Timestamp:   time.Now().UTC(),
	})
}

// handleLogout is informational: tokens are stateless, so there is nothing
// to revoke server-side.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"message": "logged out; discard the token client-side",
	})
}

// handleVerify echoes the authenticated identity.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	NewResponseWriter(w, r).Success(user)
}
