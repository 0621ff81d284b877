// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package analytics

import (
	"math"
	"strconv"
	"strings"
)

// defaultTOIMinutes stands in for missing or zero ice time. Assuming a full
// 20-minute share keeps per-60 rates finite without inflating low-minute
// players.
const defaultTOIMinutes = 20.0

// parseTOIMinutes reads ice time from the formats the game-log datasets
// actually contain: "MM:SS", bare seconds, or fractional minutes. Anything
// unparseable or non-positive falls back to the default.
func parseTOIMinutes(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultTOIMinutes
	}

	if strings.Contains(raw, ":") {
		parts := strings.SplitN(raw, ":", 2)
		mins, err1 := strconv.ParseFloat(parts[0], 64)
		secs, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return defaultTOIMinutes
		}
		total := mins + secs/60
		if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
			return defaultTOIMinutes
		}
		return total
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return defaultTOIMinutes
	}
	// Values above 60 cannot be minutes for a single game; treat as seconds.
	if v > 60 {
		return v / 60
	}
	return v
}

// safeDiv returns num/den, or fallback when the division is undefined.
func safeDiv(num, den, fallback float64) float64 {
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) || math.IsNaN(num) || math.IsInf(num, 0) {
		return fallback
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// finiteOr replaces NaN and infinities with fallback.
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// clip bounds v to [lo, hi].
func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev returns the population standard deviation, 0 for fewer than two
// values.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// zscores standardizes values across the cohort. An undefined standard
// deviation maps every z to 0.
func zscores(values []float64) []float64 {
	out := make([]float64, len(values))
	m := mean(values)
	sd := stddev(values)
	if sd == 0 {
		return out
	}
	for i, v := range values {
		out[i] = finiteOr((v-m)/sd, 0)
	}
	return out
}
