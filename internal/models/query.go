// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package models

import "time"

// Query types produced by the orchestrator's classifier.
const (
	QueryTypePlayerPerformance = "player-performance"
	QueryTypeTeamAnalytics     = "team-analytics"
	QueryTypeGameAnalysis      = "game-analysis"
	QueryTypeMatchup           = "matchup"
	QueryTypeTactical          = "tactical"
	QueryTypeStatistical       = "statistical"
	QueryTypeClipRetrieval     = "clip-retrieval"
	QueryTypeClarification     = "clarification"
)

// ToolResult is the immutable output of one tool invocation. Failures are
// captured in Error with Success=false; the orchestrator downgrades them to
// response warnings.
type ToolResult struct {
	ToolName  string      `json:"tool_name"`
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	ElapsedMS int64       `json:"elapsed_ms"`
	Citations []string    `json:"citations,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// AnalyticsBlock types.
const (
	BlockTypeStat  = "stat"
	BlockTypeChart = "chart"
	BlockTypeTable = "table"
	BlockTypeClips = "clips"
)

// AnalyticsBlock is a structured fragment of a query response. Blocks are
// assembled once and never mutated after the response is built.
type AnalyticsBlock struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Payload  interface{}            `json:"payload,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Clips    []ClipSummary          `json:"clips,omitempty"`
}

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	Query          string `json:"query"`
	Mode           string `json:"mode,omitempty"`
	Model          string `json:"model,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// QueryResponse is the orchestrator's response envelope.
type QueryResponse struct {
	Success          bool             `json:"success"`
	Response         string           `json:"response"`
	QueryType        string           `json:"query_type"`
	ToolResults      []ToolResult     `json:"tool_results"`
	ProcessingTimeMS int64            `json:"processing_time_ms"`
	Evidence         []string         `json:"evidence,omitempty"`
	Citations        []string         `json:"citations,omitempty"`
	Analytics        []AnalyticsBlock `json:"analytics,omitempty"`
	UserRole         string           `json:"user_role"`
	ConversationID   string           `json:"conversation_id"`
	Timestamp        time.Time        `json:"ts"`
	Errors           []string         `json:"errors,omitempty"`
	Warnings         []string         `json:"warnings,omitempty"`
}

// Stream event kinds emitted by the streaming query variant. The final
// event always carries the assembled QueryResponse and is always last.
const (
	StreamEventStatus        = "status"
	StreamEventToolResult    = "tool_result"
	StreamEventFinalResponse = "final_response"
	StreamEventError         = "error"
)

// StreamEvent is a single SSE payload from the streaming query path.
type StreamEvent struct {
	Kind       string         `json:"kind"`
	Message    string         `json:"message,omitempty"`
	ToolResult *ToolResult    `json:"tool_result,omitempty"`
	Response   *QueryResponse `json:"response,omitempty"`
	Timestamp  time.Time      `json:"ts"`
}
