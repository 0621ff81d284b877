// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package authz

import "testing"

func TestEnforcerPolicy(t *testing.T) {
	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	tests := []struct {
		role     string
		resource string
		want     bool
	}{
		{"coach", ResourceScenario, true},
		{"coach", ResourceMarket, true},
		{"analyst", ResourceAnalytics, true},
		{"scout", ResourceMarket, true},
		{"scout", ResourceScenario, false},
		{"player", ResourceQuery, true},
		{"player", ResourceMarket, false},
		{"player", ResourceScenario, false},
		{"staff", ResourceClips, true},
		{"unknown_role", ResourceAnalytics, false},
	}

	for _, tt := range tests {
		if got := e.Allowed(tt.role, tt.resource, ActionRead); got != tt.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", tt.role, tt.resource, got, tt.want)
		}
	}
}
