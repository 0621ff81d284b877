// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package tools defines the orchestrator's tool surface. A Tool runs one
// bounded retrieval or computation and reports a ToolResult; tools never
// panic the pipeline and never mutate shared state.
package tools

import (
	"context"
	"time"

	"github.com/rinkside/rinkside/internal/metrics"
	"github.com/rinkside/rinkside/internal/models"
)

// Tool is one orchestrator-invocable capability.
type Tool interface {
	Name() string
	// Run executes the tool for a query. The context carries the per-tool
	// deadline; implementations must return promptly after cancellation.
	Run(ctx context.Context, q Request) models.ToolResult
}

// Request is the normalized tool input derived from the classified query.
type Request struct {
	Query    string
	User     *models.User
	TeamCode string
	PlayerID string
	Window   int
	Season   string
}

// Execute wraps a tool invocation with timing and panic-free failure
// capture.
func Execute(ctx context.Context, t Tool, q Request) models.ToolResult {
	start := time.Now()
	result := t.Run(ctx, q)
	result.ToolName = t.Name()
	result.ElapsedMS = time.Since(start).Milliseconds()
	metrics.RecordToolRun(result.ToolName, time.Since(start), result.Success)
	return result
}

// failure builds the uniform failed result shape.
func failure(err error) models.ToolResult {
	return models.ToolResult{Success: false, Error: err.Error()}
}

// success builds the uniform successful result shape.
func success(data interface{}, citations ...string) models.ToolResult {
	return models.ToolResult{Success: true, Data: data, Citations: citations}
}
