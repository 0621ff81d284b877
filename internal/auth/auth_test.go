// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package auth

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rinkside/rinkside/internal/models"
)

func newTestResolver(t *testing.T, openMedia bool) *Resolver {
	t.Helper()
	table := NewPrincipalTable()
	if err := SeedDevPrincipals(table); err != nil {
		t.Fatalf("seed principals: %v", err)
	}
	return NewResolver(table, openMedia)
}

func TestResolveUserValidToken(t *testing.T) {
	rs := newTestResolver(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/teams", nil)
	req.Header.Set("Authorization", "Bearer "+EncodeToken("coach_martin", "coach-dev-secret"))

	user, err := rs.ResolveUser(req)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if user.Role != models.RoleCoach {
		t.Errorf("role = %s, want coach", user.Role)
	}
	if !user.HasTeamAccess("MTL") {
		t.Error("coach_martin must have MTL access")
	}
}

func TestResolveUserFailureReasons(t *testing.T) {
	rs := newTestResolver(t, false)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"missing", "", ErrNoCredentials},
		{"not bearer", "Basic abc", ErrNoCredentials},
		{"not base64", "Bearer %%%not-base64%%%", ErrBadTokenFormat},
		{"no colon", "Bearer " + base64.StdEncoding.EncodeToString([]byte("nocolon")), ErrBadTokenFormat},
		{"wrong secret", "Bearer " + EncodeToken("coach_martin", "wrong"), ErrInvalidCredentials},
		{"unknown user", "Bearer " + EncodeToken("ghost", "secret"), ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			_, err := rs.ResolveUser(req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveUserPermissiveQueryToken(t *testing.T) {
	rs := newTestResolver(t, false)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v2/clips/c1/video?token="+EncodeToken("player_suzuki", "player-dev-secret"), nil)

	user, err := rs.ResolveUserPermissive(req)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if user.UserID != "player_suzuki" {
		t.Errorf("user = %s", user.UserID)
	}
	if user.Preferences.PlayerID != "8480018" {
		t.Errorf("player binding = %s", user.Preferences.PlayerID)
	}
}

func TestResolveUserPermissiveOpenAccess(t *testing.T) {
	rs := newTestResolver(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/clips/c1/video", nil)
	user, err := rs.ResolveUserPermissive(req)
	if err != nil {
		t.Fatalf("open access should synthesize a user, got %v", err)
	}
	if !user.HasTeamAccess("MTL") || !user.HasTeamAccess("BOS") {
		t.Error("open media user must carry full team access")
	}

	// Strict resolver must not honor the flag.
	if _, err := rs.ResolveUser(req); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("strict resolver should still require credentials, got %v", err)
	}
}

func TestTimezonePreference(t *testing.T) {
	rs := newTestResolver(t, false)

	tests := []struct {
		name   string
		setup  func(*http.Request)
		wantTZ string
	}{
		{"header x-user-timezone", func(r *http.Request) { r.Header.Set("x-user-timezone", "America/Montreal") }, "America/Montreal"},
		{"header x-tz", func(r *http.Request) { r.Header.Set("x-tz", "UTC") }, "UTC"},
		{"query tz", func(r *http.Request) { r.URL.RawQuery = "tz=America/Toronto" }, "America/Toronto"},
		{"invalid ignored", func(r *http.Request) { r.Header.Set("x-timezone", "Mars/Olympus") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+EncodeToken("coach_martin", "coach-dev-secret"))
			tt.setup(req)

			user, err := rs.ResolveUser(req)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if user.Preferences.Timezone != tt.wantTZ {
				t.Errorf("timezone = %q, want %q", user.Preferences.Timezone, tt.wantTZ)
			}
		})
	}
}

func TestClipPolicy(t *testing.T) {
	clip := &models.ClipMetadata{ClipID: "c1", PlayerID: "8480018.0"}
	other := &models.ClipMetadata{ClipID: "c2", PlayerID: "8481540"}

	playerUser := &models.User{Role: models.RolePlayer, Preferences: models.Preferences{PlayerID: "8480018"}}
	coachUser := &models.User{Role: models.RoleCoach}
	unboundPlayer := &models.User{Role: models.RolePlayer}

	policy := ClipPolicy{}

	if !policy.CanAccessClip(coachUser, clip) {
		t.Error("coach must access any clip")
	}
	if !policy.CanAccessClip(playerUser, clip) {
		t.Error("player must access own clip after .0 normalization")
	}
	if policy.CanAccessClip(playerUser, other) {
		t.Error("player must not access another player's clip")
	}
	if policy.CanAccessClip(unboundPlayer, clip) {
		t.Error("player with no binding must be denied")
	}
	if policy.CanAccessClip(nil, clip) {
		t.Error("nil user must be denied")
	}

	override := ClipPolicy{OverrideAll: true}
	if !override.CanAccessClip(unboundPlayer, other) {
		t.Error("override flag must allow")
	}
}

func TestNormalizePlayerID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"8480018", "8480018"},
		{"8480018.0", "8480018"},
		{"  8480018.0 ", "8480018"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePlayerID(tt.in); got != tt.want {
			t.Errorf("NormalizePlayerID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token := EncodeToken("analyst_dubois", "s3cret")
	username, secret, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if username != "analyst_dubois" || secret != "s3cret" {
		t.Errorf("round trip lost data: %s / %s", username, secret)
	}
}
