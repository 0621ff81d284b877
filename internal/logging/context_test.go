// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Errorf("RequestIDFromContext = %q, want %q", got, "req-42")
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext on bare context = %q, want empty", got)
	}
}

func TestCtxChainsWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(prev)

	ctx := WithRequestID(context.Background(), "req-99")
	Ctx(ctx).Info().Str("team", "MTL").Msg("snapshot refreshed")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-99"`) {
		t.Errorf("log line missing request_id field: %s", out)
	}
	if !strings.Contains(out, "snapshot refreshed") {
		t.Errorf("log line missing message: %s", out)
	}
}

func TestCtxWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(prev)

	Ctx(context.Background()).Warn().Msg("upstream degraded")

	out := buf.String()
	if strings.Contains(out, "request_id") {
		t.Errorf("log line carries request_id without one in context: %s", out)
	}
	if !strings.Contains(out, "upstream degraded") {
		t.Errorf("log line missing message: %s", out)
	}
}
