// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package models

import "time"

// Turn roles within a conversation.
const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"
)

// Turn is a single exchange entry in a conversation. Turns are appended in
// receipt order and never mutated afterwards.
type Turn struct {
	Role        string           `json:"role"`
	Text        string           `json:"text"`
	ToolResults []ToolResult     `json:"tool_results,omitempty"`
	Analytics   []AnalyticsBlock `json:"analytics,omitempty"`
	Citations   []string         `json:"citations,omitempty"`
	Timestamp   time.Time        `json:"ts"`
}

// Conversation is an ordered sequence of turns owned by exactly one user.
// All list/get/rename/delete operations are owner-scoped; other users
// observe not-found rather than forbidden so existence is never disclosed.
type Conversation struct {
	ConversationID string    `json:"conversation_id"`
	OwnerUserID    string    `json:"owner_user_id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_ts"`
	UpdatedAt      time.Time `json:"updated_ts"`
	Turns          []Turn    `json:"turns"`
}

// ConversationSummary is the listing view: metadata without turns.
type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_ts"`
	UpdatedAt      time.Time `json:"updated_ts"`
	TurnCount      int       `json:"turn_count"`
}

// Summary derives the listing view of a conversation.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ConversationID: c.ConversationID,
		Title:          c.Title,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		TurnCount:      len(c.Turns),
	}
}
