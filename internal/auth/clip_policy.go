// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package auth

import (
	"strings"

	"github.com/rinkside/rinkside/internal/models"
)

// ClipPolicy decides clip access. Both the strict and permissive resolvers
// share this single policy function.
type ClipPolicy struct {
	// OverrideAll allows every request (CLIPS_OPEN_ACCESS dev flag).
	OverrideAll bool
}

// CanAccessClip applies the clip access rules:
//   - coach / analyst / staff / scout: allow
//   - player: allow iff the user's bound player_id matches the clip's,
//     after numeric normalization (trailing ".0" stripped)
//   - anything else: deny
//
// Existence ordering is the caller's concern: an absent clip is 404 for
// everyone; only an existing clip produces 403.
func (p ClipPolicy) CanAccessClip(user *models.User, clip *models.ClipMetadata) bool {
	if p.OverrideAll {
		return true
	}
	if user == nil || clip == nil {
		return false
	}
	if user.IsStaffRole() {
		return true
	}
	if user.Role == models.RolePlayer {
		return NormalizePlayerID(user.Preferences.PlayerID) != "" &&
			NormalizePlayerID(user.Preferences.PlayerID) == NormalizePlayerID(clip.PlayerID)
	}
	return false
}

// NormalizePlayerID canonicalizes player IDs that arrive as "8480018",
// "8480018.0", or with surrounding whitespace.
func NormalizePlayerID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimSuffix(id, ".0")
	return id
}
