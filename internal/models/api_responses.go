// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package models

import "time"

// APIResponse is the standardized wrapper for non-query endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIMeta is optional response metadata.
type APIMeta struct {
	RequestID  string          `json:"request_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	DurationMS int64           `json:"duration_ms,omitempty"`
	Cached     bool            `json:"cached,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// PaginationMeta describes list responses.
type PaginationMeta struct {
	Total   int64 `json:"total,omitempty"`
	Count   int   `json:"count"`
	Offset  int   `json:"offset,omitempty"`
	Limit   int   `json:"limit,omitempty"`
	HasMore bool  `json:"has_more"`
}

// LoginResponse is the body of POST /api/v1/auth/login.
type LoginResponse struct {
	Success     bool      `json:"success"`
	AccessToken string    `json:"access_token"`
	UserInfo    User      `json:"user_info"`
	ExpiresIn   int       `json:"expires_in"`
	Timestamp   time.Time `json:"ts"`
}
