// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package logging

import (
	"strings"
	"testing"
)

func TestRedactToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", ""},
		{"short", "abc", "****"},
		{"boundary", "12345678", "****"},
		{"long", "Y29hY2hfbWFydGluOnNlY3JldA==", "Y29h****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactToken(tt.token); got != tt.want {
				t.Errorf("RedactToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestRedactURL(t *testing.T) {
	got := RedactURL("https://example.com/clips/1/video?token=supersecret&limit=5")
	if strings.Contains(got, "supersecret") {
		t.Errorf("RedactURL leaked credential: %s", got)
	}
	if !strings.Contains(got, "limit=5") {
		t.Errorf("RedactURL dropped benign parameter: %s", got)
	}
}

func TestRedactURLUnparseable(t *testing.T) {
	if got := RedactURL("://not a url"); got != "****" {
		t.Errorf("expected full mask for unparseable URL, got %q", got)
	}
}
