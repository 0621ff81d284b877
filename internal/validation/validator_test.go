// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package validation

import (
	"strings"
	"testing"
)

type advancedRequest struct {
	Team   string `validate:"required,nhlteam"`
	Season string `validate:"omitempty,nhlseason"`
	Date   string `validate:"omitempty,gamedate"`
	Window int    `validate:"min=1,max=82"`
}

func TestValidateStructOK(t *testing.T) {
	req := advancedRequest{Team: "MTL", Season: "20252026", Date: "2026-01-15", Window: 10}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	// Lowercase team codes pass too.
	req.Team = "mtl"
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("lowercase team rejected: %v", err)
	}
}

func TestValidateStructFailures(t *testing.T) {
	tests := []struct {
		name string
		req  advancedRequest
		want string
	}{
		{"missing team", advancedRequest{Window: 10}, "Team is required"},
		{"bad team", advancedRequest{Team: "XXX", Window: 10}, "valid NHL team code"},
		{"bad season", advancedRequest{Team: "MTL", Season: "2025-26", Window: 10}, "eight-digit season"},
		{"bad date", advancedRequest{Team: "MTL", Date: "Jan 15", Window: 10}, "YYYY-MM-DD"},
		{"window too large", advancedRequest{Team: "MTL", Window: 100}, "at most 82"},
		{"window zero", advancedRequest{Team: "MTL"}, "at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("expected validation failure")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestMultipleFailuresAggregated(t *testing.T) {
	err := ValidateStruct(&advancedRequest{Team: "XXX", Window: 0})
	if err == nil {
		t.Fatal("expected failure")
	}
	if len(err.Fields) != 2 {
		t.Errorf("fields = %d, want 2", len(err.Fields))
	}
}
