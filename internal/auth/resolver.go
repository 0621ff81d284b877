// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/rinkside/rinkside/internal/models"
)

// Resolver authenticates requests against the principal table.
type Resolver struct {
	table *PrincipalTable
	// openMediaAccess enables the synthetic open-media user on the
	// permissive resolver (CLIPS_OPEN_ACCESS, dev only).
	openMediaAccess bool
}

// NewResolver creates a resolver over the given principal table.
func NewResolver(table *PrincipalTable, openMediaAccess bool) *Resolver {
	return &Resolver{table: table, openMediaAccess: openMediaAccess}
}

// WWWAuthenticate is the challenge header value for all 401 responses.
const WWWAuthenticate = "Bearer"

// ResolveUser authenticates a request from its Authorization header only.
// Returns ErrNoCredentials, ErrBadTokenFormat, or ErrInvalidCredentials on
// failure; the caller maps all three to 401 with WWW-Authenticate.
func (rs *Resolver) ResolveUser(r *http.Request) (*models.User, error) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return nil, ErrNoCredentials
	}
	return rs.resolveToken(r, token)
}

// ResolveUserPermissive also accepts a ?token= query credential; media
// players cannot set headers on <video> src URLs. When open media access is
// enabled and no credential is supplied at all, a synthetic open-media user
// with full team access is returned instead of 401.
func (rs *Resolver) ResolveUserPermissive(r *http.Request) (*models.User, error) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		if rs.openMediaAccess {
			return openMediaUser(), nil
		}
		return nil, ErrNoCredentials
	}
	return rs.resolveToken(r, token)
}

func (rs *Resolver) resolveToken(r *http.Request, token string) (*models.User, error) {
	username, secret, err := DecodeToken(token)
	if err != nil {
		return nil, err
	}
	principal, err := rs.table.Verify(username, secret)
	if err != nil {
		return nil, err
	}

	user := principal.User()
	applyTimezone(r, user)
	return user, nil
}

// applyTimezone sets preferences.timezone from the request. Invalid values
// are ignored silently; a bad timezone is never fatal.
func applyTimezone(r *http.Request, user *models.User) {
	tz := r.Header.Get("x-user-timezone")
	if tz == "" {
		tz = r.Header.Get("x-timezone")
	}
	if tz == "" {
		tz = r.Header.Get("x-tz")
	}
	if tz == "" {
		tz = r.URL.Query().Get("tz")
	}
	if tz == "" {
		return
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return
	}
	user.Preferences.Timezone = tz
}

func openMediaUser() *models.User {
	return &models.User{
		UserID:      "open_media",
		Role:        models.RoleStaff,
		DisplayName: "Open Media Access",
		TeamAccess:  allTeamAccess(),
	}
}

func allTeamAccess() map[string]bool {
	access := make(map[string]bool, len(nhlTeamCodes))
	for _, code := range nhlTeamCodes {
		access[code] = true
	}
	return access
}

var nhlTeamCodes = []string{
	"ANA", "BOS", "BUF", "CAR", "CBJ", "CGY", "CHI", "COL", "DAL", "DET",
	"EDM", "FLA", "LAK", "MIN", "MTL", "NJD", "NSH", "NYI", "NYR", "OTT",
	"PHI", "PIT", "SEA", "SJS", "STL", "TBL", "TOR", "UTA", "VAN", "VGK",
	"WPG", "WSH",
}

type contextKey string

const userContextKey contextKey = "rinkside_user"

// WithUser attaches the authenticated user to the request context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	if user, ok := ctx.Value(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}
