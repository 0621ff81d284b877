// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"net/http"
	"time"
)

// handleHealthLive answers as long as the process is serving requests.
func (s *Server) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	})
}

// handleHealthReady reports per-component readiness. Optional components
// report degraded rather than failing the probe; the service stays useful
// without a warehouse or a clip index.
func (s *Server) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"nhl_api":       componentStatus(s.nhl != nil),
		"conversations": componentStatus(s.conversations != nil),
		"warehouse":     "ok",
		"clips":         componentStatus(s.clips != nil),
		"signed_media":  componentStatus(s.signer != nil),
	}
	if s.warehouse == nil || s.warehouse.Disabled() {
		components["warehouse"] = "disabled"
	}

	status := "ready"
	for _, v := range components {
		if v == "disabled" {
			status = "degraded"
			break
		}
	}

	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":         status,
		"components":     components,
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	})
}

func componentStatus(ok bool) string {
	if ok {
		return "ok"
	}
	return "disabled"
}
