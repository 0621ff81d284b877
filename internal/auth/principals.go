// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package auth provides stateless request authentication for Rinkside.
//
// Credentials are opaque bearer tokens: base64("username:secret") validated
// against an in-memory principal table. A User is constructed per request
// and discarded with it; there are no sessions.
package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/rinkside/rinkside/internal/models"
)

// Principal is one row of the in-memory principal table.
type Principal struct {
	Username    string
	SecretHash  []byte
	Role        string
	DisplayName string
	TeamAccess  []string
	PlayerID    string
}

// PrincipalTable holds the known principals. Reads vastly outnumber writes
// (writes happen only at startup), hence the RWMutex.
type PrincipalTable struct {
	mu         sync.RWMutex
	principals map[string]Principal
}

// NewPrincipalTable creates an empty table.
func NewPrincipalTable() *PrincipalTable {
	return &PrincipalTable{principals: make(map[string]Principal)}
}

// Add registers a principal, hashing the secret with bcrypt.
func (t *PrincipalTable) Add(username, secret, role, displayName string, teamAccess []string, playerID string) error {
	if username == "" || secret == "" {
		return fmt.Errorf("username and secret are required")
	}
	if !validRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash secret: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.principals[username] = Principal{
		Username:    username,
		SecretHash:  hash,
		Role:        role,
		DisplayName: displayName,
		TeamAccess:  teamAccess,
		PlayerID:    playerID,
	}
	return nil
}

// Verify checks the secret for a username and returns the principal.
func (t *PrincipalTable) Verify(username, secret string) (Principal, error) {
	t.mu.RLock()
	p, ok := t.principals[username]
	t.mu.RUnlock()

	if !ok {
		return Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(p.SecretHash, []byte(secret)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return p, nil
}

// User materializes the request-scoped identity for a principal.
func (p Principal) User() *models.User {
	access := make(map[string]bool, len(p.TeamAccess))
	for _, team := range p.TeamAccess {
		access[team] = true
	}
	return &models.User{
		UserID:      p.Username,
		Role:        p.Role,
		DisplayName: p.DisplayName,
		TeamAccess:  access,
		Preferences: models.Preferences{PlayerID: p.PlayerID},
	}
}

func validRole(role string) bool {
	for _, r := range models.ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// SeedDevPrincipals installs the development principal set used when no
// principals file is configured.
func SeedDevPrincipals(t *PrincipalTable) error {
	seeds := []struct {
		username, secret, role, display string
		teams                           []string
		playerID                        string
	}{
		{"coach_martin", "coach-dev-secret", models.RoleCoach, "Coach Martin", []string{"MTL"}, ""},
		{"analyst_dubois", "analyst-dev-secret", models.RoleAnalyst, "C. Dubois", []string{"MTL", "TOR", "BOS"}, ""},
		{"scout_tremblay", "scout-dev-secret", models.RoleScout, "J. Tremblay", []string{"MTL", "OTT", "BUF", "DET", "FLA", "TBL", "TOR", "BOS"}, ""},
		{"staff_ops", "staff-dev-secret", models.RoleStaff, "Hockey Ops", []string{"MTL"}, ""},
		{"player_suzuki", "player-dev-secret", models.RolePlayer, "N. Suzuki", []string{"MTL"}, "8480018"},
	}
	for _, s := range seeds {
		if err := t.Add(s.username, s.secret, s.role, s.display, s.teams, s.playerID); err != nil {
			return err
		}
	}
	return nil
}
