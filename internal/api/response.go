// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package api is the HTTP surface: the chi router, route-group middleware,
// and the handlers that wire the analytics, query, clip, market, and
// scenario engines to their endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/sanitize"
)

// Error codes carried in the error envelope.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeUpstreamTimeout    = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamFailed     = "UPSTREAM_FAILED"
)

// ResponseWriter writes the standardized response envelope. Every payload
// passes through sanitize.Scrub exactly once before serialization, so no
// non-finite float ever leaves the process.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a response writer for one request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, startTime: time.Now()}
}

// Success writes a 200 envelope with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.SuccessWithMeta(data, nil)
}

// SuccessWithMeta writes a 200 envelope with data and metadata.
func (rw *ResponseWriter) SuccessWithMeta(data interface{}, meta *models.APIMeta) {
	if meta == nil {
		meta = &models.APIMeta{}
	}
	meta.Timestamp = time.Now().UTC()
	meta.DurationMS = time.Since(rw.startTime).Milliseconds()
	meta.RequestID = logging.RequestIDFromContext(rw.r.Context())

	rw.writeJSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// SuccessWithPagination writes a 200 envelope for a list response.
func (rw *ResponseWriter) SuccessWithPagination(data interface{}, pagination *models.PaginationMeta) {
	rw.SuccessWithMeta(data, &models.APIMeta{Pagination: pagination})
}

// Created writes a 201 envelope with data.
func (rw *ResponseWriter) Created(data interface{}) {
	requestID := logging.RequestIDFromContext(rw.r.Context())
	rw.writeJSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    data,
		Meta: &models.APIMeta{
			Timestamp:  time.Now().UTC(),
			DurationMS: time.Since(rw.startTime).Milliseconds(),
			RequestID:  requestID,
		},
	})
}

// NoContent writes a 204 with no body.
func (rw *ResponseWriter) NoContent() {
	rw.w.WriteHeader(http.StatusNoContent)
}

// JSON writes an arbitrary payload without the envelope. Used by the
// endpoints whose response shapes carry their own success field
// (login and the query pipeline).
func (rw *ResponseWriter) JSON(statusCode int, v interface{}) {
	rw.writeJSON(statusCode, v)
}

// Error writes an error envelope with the given status code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error envelope with additional details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details interface{}) {
	requestID := logging.RequestIDFromContext(rw.r.Context())
	rw.writeJSON(statusCode, models.APIResponse{
		Success: false,
		Error: &models.APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
		Meta: &models.APIMeta{
			Timestamp:  time.Now().UTC(),
			DurationMS: time.Since(rw.startTime).Milliseconds(),
			RequestID:  requestID,
		},
	})
}

// BadRequest writes a 400.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// ValidationError writes a 400 with field-level details.
func (rw *ResponseWriter) ValidationError(message string, details interface{}) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, message, details)
}

// Unauthorized writes a 401 with the Bearer challenge header.
func (rw *ResponseWriter) Unauthorized(message string) {
	rw.w.Header().Set("WWW-Authenticate", auth.WWWAuthenticate)
	rw.Error(http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden writes a 403.
func (rw *ResponseWriter) Forbidden(message string) {
	rw.Error(http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound writes a 404.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// TooManyRequests writes a 429.
func (rw *ResponseWriter) TooManyRequests(message string) {
	rw.Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, message)
}

// InternalError writes a 500.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable writes a 503.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

func (rw *ResponseWriter) writeJSON(statusCode int, v interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)
	if err := json.NewEncoder(rw.w).Encode(sanitize.Scrub(v)); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}
