// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package cache

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestComputeETagStableAcrossTimestamps(t *testing.T) {
	a := map[string]interface{}{
		"standings": []interface{}{map[string]interface{}{"team_abbrev": "MTL", "points": 62.0}},
		"timestamp": "2025-01-15T10:00:00Z",
	}
	b := map[string]interface{}{
		"standings": []interface{}{map[string]interface{}{"team_abbrev": "MTL", "points": 62.0}},
		"timestamp": "2025-01-15T10:05:00Z",
	}

	if ComputeETag(a) != ComputeETag(b) {
		t.Error("ETag must ignore volatile timestamp fields")
	}
}

func TestComputeETagSanitizesNaN(t *testing.T) {
	// NaN payloads must still hash deterministically (NaN -> null).
	a := map[string]interface{}{"v": math.NaN()}
	b := map[string]interface{}{"v": math.NaN()}
	if ComputeETag(a) == "" || ComputeETag(a) != ComputeETag(b) {
		t.Error("sanitized NaN payloads must produce a stable ETag")
	}
}

func TestComputeETagDiffersOnContent(t *testing.T) {
	a := map[string]interface{}{"points": 62.0}
	b := map[string]interface{}{"points": 63.0}
	if ComputeETag(a) == ComputeETag(b) {
		t.Error("different payloads must produce different ETags")
	}
}

func TestConditionalGetMatch(t *testing.T) {
	payload := map[string]interface{}{"points": 62.0}
	etag := ComputeETag(payload)

	req := httptest.NewRequest(http.MethodGet, "/standings", nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()

	if !ConditionalGet(rec, req, etag, 120, 60) {
		t.Fatal("expected 304 short-circuit")
	}
	if rec.Code != http.StatusNotModified {
		t.Errorf("expected 304, got %d", rec.Code)
	}
	if rec.Header().Get("ETag") != etag {
		t.Error("ETag header missing on 304")
	}
}

func TestConditionalGetMiss(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/standings", nil)
	rec := httptest.NewRecorder()

	if ConditionalGet(rec, req, `"abc"`, 120, 60) {
		t.Fatal("no If-None-Match should not short-circuit")
	}
	cc := rec.Header().Get("Cache-Control")
	if cc != "public, max-age=120, stale-while-revalidate=60" {
		t.Errorf("unexpected Cache-Control: %s", cc)
	}
}
