// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package sanitize

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
)

func TestScrubReplacesNonFiniteFloats(t *testing.T) {
	payload := map[string]interface{}{
		"rti_score": math.NaN(),
		"pace":      math.Inf(1),
		"deficit":   math.Inf(-1),
		"xgf_pct":   54.2,
		"nested": map[string]interface{}{
			"pdo": math.NaN(),
			"ok":  100.5,
		},
		"series": []interface{}{1.0, math.NaN(), 3.0},
	}

	out, ok := Scrub(payload).(map[string]interface{})
	if !ok {
		t.Fatal("expected map output")
	}
	if out["rti_score"] != nil || out["pace"] != nil || out["deficit"] != nil {
		t.Errorf("non-finite floats not nilled: %+v", out)
	}
	if out["xgf_pct"] != 54.2 {
		t.Errorf("finite float altered: %v", out["xgf_pct"])
	}
	nested := out["nested"].(map[string]interface{})
	if nested["pdo"] != nil || nested["ok"] != 100.5 {
		t.Errorf("nested scrub wrong: %+v", nested)
	}
	series := out["series"].([]interface{})
	if series[1] != nil || series[0] != 1.0 || series[2] != 3.0 {
		t.Errorf("slice scrub wrong: %+v", series)
	}
}

func TestScrubStruct(t *testing.T) {
	type teamRow struct {
		TeamCode string  `json:"team_code"`
		RTIScore float64 `json:"rti_score"`
		Hidden   string  `json:"-"`
		Optional string  `json:"optional,omitempty"`
	}

	out, ok := Scrub(teamRow{TeamCode: "MTL", RTIScore: math.NaN(), Hidden: "x"}).(map[string]interface{})
	if !ok {
		t.Fatal("expected map output")
	}
	if out["team_code"] != "MTL" {
		t.Errorf("team_code = %v", out["team_code"])
	}
	if out["rti_score"] != nil {
		t.Errorf("rti_score not nilled: %v", out["rti_score"])
	}
	if _, present := out["Hidden"]; present {
		t.Error("json:\"-\" field leaked")
	}
	if _, present := out["optional"]; present {
		t.Error("omitempty zero field leaked")
	}
}

func TestScrubOutputSerializes(t *testing.T) {
	out := Scrub(map[string]interface{}{"v": math.NaN()})
	if _, err := json.Marshal(out); err != nil {
		t.Fatalf("scrubbed payload must serialize: %v", err)
	}
}

func TestScrubNil(t *testing.T) {
	if got := Scrub(nil); got != nil {
		t.Errorf("Scrub(nil) = %v", got)
	}
}
