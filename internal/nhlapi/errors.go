// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package nhlapi

import (
	"errors"
	"fmt"
)

// Upstream error kinds. Handlers map these to 504 / 502 respectively; the
// remote status is preserved in logs, never echoed to clients.
var (
	ErrGatewayTimeout  = errors.New("upstream timeout")
	ErrBadGateway      = errors.New("upstream failure")
	ErrInvalidResponse = fmt.Errorf("%w: invalid_response", ErrBadGateway)
)

// ErrBadRequest marks input validation failures before any upstream call.
var ErrBadRequest = errors.New("invalid request")

// UpstreamStatusError wraps a non-2xx upstream response.
type UpstreamStatusError struct {
	Endpoint string
	Status   int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.Endpoint, e.Status)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrBadGateway }
