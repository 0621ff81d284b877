// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"errors"
	"net/http"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/convstore"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/market"
	"github.com/rinkside/rinkside/internal/media"
	"github.com/rinkside/rinkside/internal/nhlapi"
	"github.com/rinkside/rinkside/internal/warehouse"
)

// writeDomainError maps a domain error onto the HTTP taxonomy. Upstream
// status codes and internal detail stay in the logs; the client only sees
// the class of failure.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	switch {
	case errors.Is(err, auth.ErrNoCredentials),
		errors.Is(err, auth.ErrBadTokenFormat),
		errors.Is(err, auth.ErrInvalidCredentials):
		rw.Unauthorized("authentication required")

	case errors.Is(err, nhlapi.ErrBadRequest):
		rw.BadRequest(err.Error())
	case errors.Is(err, nhlapi.ErrGatewayTimeout):
		rw.Error(http.StatusGatewayTimeout, ErrCodeUpstreamTimeout, "upstream timeout")
	case errors.Is(err, nhlapi.ErrBadGateway):
		rw.Error(http.StatusBadGateway, ErrCodeUpstreamFailed, "upstream failure")

	case errors.Is(err, convstore.ErrEmptyTitle):
		rw.BadRequest("title must not be empty")
	case errors.Is(err, convstore.ErrNotFound):
		rw.NotFound("conversation not found")
	case errors.Is(err, media.ErrClipNotFound):
		rw.NotFound("clip not found")
	case errors.Is(err, market.ErrNotFound), errors.Is(err, warehouse.ErrNotFound):
		rw.NotFound("not found")

	case errors.Is(err, warehouse.ErrDisabled):
		rw.ServiceUnavailable("warehouse is disabled")

	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled handler error")
		rw.InternalError("internal error")
	}
}
