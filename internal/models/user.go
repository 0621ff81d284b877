// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package models

// Role constants for the principal table. Roles are flat (no hierarchy);
// clip access additionally depends on the player-ID binding for RolePlayer.
const (
	RoleCoach   = "coach"
	RolePlayer  = "player"
	RoleAnalyst = "analyst"
	RoleScout   = "scout"
	RoleStaff   = "staff"
)

// ValidRoles lists every role the principal table may assign.
var ValidRoles = []string{RoleCoach, RolePlayer, RoleAnalyst, RoleScout, RoleStaff}

// Preferences carries per-user request-scoped settings.
type Preferences struct {
	Timezone string `json:"timezone,omitempty"`
	// PlayerID binds a player-role user to their own clips. Stored as a
	// string because upstream exports alternate between "8480018" and
	// "8480018.0" for the same player.
	PlayerID string `json:"player_id,omitempty"`
}

// User is the authenticated identity for a single request. Sessions are
// stateless: a User is built at token validation time and discarded with
// the request.
type User struct {
	UserID      string          `json:"user_id"`
	Role        string          `json:"role"`
	DisplayName string          `json:"display_name"`
	TeamAccess  map[string]bool `json:"team_access"`
	Preferences Preferences     `json:"preferences"`
}

// HasTeamAccess reports whether the user's team scope includes the team.
func (u *User) HasTeamAccess(teamCode string) bool {
	if u == nil {
		return false
	}
	return u.TeamAccess[teamCode]
}

// IsStaffRole reports whether the role grants blanket clip access.
func (u *User) IsStaffRole() bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case RoleCoach, RoleAnalyst, RoleScout, RoleStaff:
		return true
	}
	return false
}
