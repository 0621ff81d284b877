// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package cache

import (
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(1 * time.Minute)

	c.Set("scores:2025-01-15", "payload")
	value, exists := c.Get("scores:2025-01-15")
	if !exists {
		t.Error("expected key to exist")
	}
	if value != "payload" {
		t.Errorf("expected payload, got %v", value)
	}

	_, exists = c.Get("scores:2025-01-16")
	if exists {
		t.Error("expected absent key to miss")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(50 * time.Millisecond)

	c.Set("k", "v")
	if _, exists := c.Get("k"); !exists {
		t.Error("expected entry immediately after set")
	}

	time.Sleep(80 * time.Millisecond)

	if _, exists := c.Get("k"); exists {
		t.Error("expected entry to be expired")
	}
}

func TestCacheGetValidatedEvictsPoisonedEntry(t *testing.T) {
	c := New(1 * time.Minute)
	c.Set("rti", map[string]interface{}{"rti_score": nil})

	_, ok := c.GetValidated("rti", func(v interface{}) bool {
		m, isMap := v.(map[string]interface{})
		if !isMap {
			return false
		}
		_, numeric := m["rti_score"].(float64)
		return numeric
	})
	if ok {
		t.Fatal("poisoned entry should fail validation")
	}

	// Entry must have been evicted, not just skipped.
	if _, exists := c.Get("rti"); exists {
		t.Error("expected poisoned entry to be evicted")
	}
}

func TestCacheGetValidatedPasses(t *testing.T) {
	c := New(1 * time.Minute)
	c.Set("rti", map[string]interface{}{"rti_score": 61.5})

	v, ok := c.GetValidated("rti", func(v interface{}) bool {
		m := v.(map[string]interface{})
		_, numeric := m["rti_score"].(float64)
		return numeric
	})
	if !ok {
		t.Fatal("valid entry should pass")
	}
	if v.(map[string]interface{})["rti_score"] != 61.5 {
		t.Error("value altered by validation")
	}
}

func TestCacheSweepExpired(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	c.SetWithTTL("c", 3, time.Minute)

	time.Sleep(30 * time.Millisecond)

	if evicted := c.SweepExpired(); evicted != 2 {
		t.Errorf("expected 2 evictions, got %d", evicted)
	}
	if _, exists := c.Get("c"); !exists {
		t.Error("long-TTL entry should survive sweep")
	}
}

func TestCacheStats(t *testing.T) {
	c := New(1 * time.Minute)

	c.Set("k", "v")
	c.Get("k") // hit
	c.Get("x") // miss
	c.Get("k") // hit

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestGenerateKeyDeterministic(t *testing.T) {
	type params struct {
		Date string `json:"date"`
	}
	k1 := GenerateKey("nhl_scores", params{Date: "2025-01-15"})
	k2 := GenerateKey("nhl_scores", params{Date: "2025-01-15"})
	k3 := GenerateKey("nhl_scores", params{Date: "2025-01-16"})

	if k1 != k2 {
		t.Error("identical params must yield identical keys")
	}
	if k1 == k3 {
		t.Error("different params must yield different keys")
	}
}
