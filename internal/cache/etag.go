// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package cache

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rinkside/rinkside/internal/sanitize"
)

// Volatile fields excluded from ETag hashing. Serving the same payload must
// yield the same validator even across recomputes.
var volatileFields = map[string]bool{
	"timestamp":          true,
	"ts":                 true,
	"generated_at":       true,
	"processing_time_ms": true,
	"duration_ms":        true,
}

// ComputeETag returns a strong validator for a payload: a stable SHA-256
// over the sanitized payload with volatile fields stripped.
func ComputeETag(payload interface{}) string {
	stable := stripVolatile(sanitize.Scrub(payload))
	data, err := json.Marshal(stable)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf(`"%x"`, sum[:16])
}

func stripVolatile(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			if volatileFields[k] {
				continue
			}
			out[k] = stripVolatile(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = stripVolatile(item)
		}
		return out
	default:
		return v
	}
}

// ConditionalGet writes etag and cache-control headers and answers 304 when
// the client's If-None-Match matches. Returns true when the caller should
// skip writing the body.
func ConditionalGet(w http.ResponseWriter, r *http.Request, etag string, maxAge, staleWhileRevalidate int) bool {
	if etag == "" {
		return false
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, staleWhileRevalidate))

	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}
