// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/sanitize"
)

// maxQueryLength bounds query text; anything longer is rejected before the
// pipeline runs.
const maxQueryLength = 2000

func decodeQueryRequest(r *http.Request) (models.QueryRequest, string) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, "invalid JSON body"
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, "query is required"
	}
	if len(req.Query) > maxQueryLength {
		return req, "query is too long"
	}
	return req, ""
}

// handleQuery runs the full query pipeline and returns the assembled
// response. The QueryResponse is its own envelope; thin queries come back as
// a clarification with success=true, and tool failures surface as warnings.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, problem := decodeQueryRequest(r)
	if problem != "" {
		rw.BadRequest(problem)
		return
	}

	user := auth.UserFromContext(r.Context())
	resp := s.orchestrator.Process(r.Context(), req, user)
	rw.JSON(http.StatusOK, resp)
}

// handleQueryStream is the SSE variant: status and tool_result events as
// tools complete, then exactly one final_response event, always last.
func (s *Server) handleQueryStream(w http.ResponseWriter, r *http.Request) {
	req, problem := decodeQueryRequest(r)
	if problem != "" {
		NewResponseWriter(w, r).BadRequest(problem)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		NewResponseWriter(w, r).InternalError("streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Tool events arrive from concurrent goroutines; writes are serialized.
	var mu sync.Mutex
	sink := func(ev models.StreamEvent) {
		mu.Lock()
		defer mu.Unlock()
		data, err := json.Marshal(sanitize.Scrub(ev))
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Stream event encode failed")
			return
		}
		if _, err := w.Write([]byte("data: ")); err != nil {
			return
		}
		_, _ = w.Write(data)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}

	user := auth.UserFromContext(r.Context())
	s.orchestrator.ProcessStream(r.Context(), req, user, sink)
}

type conversationCreateRequest struct {
	Title string `json:"title"`
}

// handleConversationList returns the caller's conversation summaries,
// newest first.
func (s *Server) handleConversationList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := auth.UserFromContext(r.Context())

	summaries, err := s.conversations.List(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	rw.SuccessWithPagination(summaries, &models.PaginationMeta{
		Count:   len(summaries),
		HasMore: false,
	})
}

func (s *Server) handleConversationCreate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := auth.UserFromContext(r.Context())

	var req conversationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}

	conv, err := s.conversations.Create(r.Context(), user.UserID, req.Title)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	rw.Created(conv)
}

// handleConversationGet returns one conversation with its turns. Another
// user's id reads as not found, never forbidden.
func (s *Server) handleConversationGet(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	conv, err := s.conversations.Get(r.Context(), user.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(conv)
}

func (s *Server) handleConversationRename(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := auth.UserFromContext(r.Context())

	var req conversationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}

	conv, err := s.conversations.Rename(r.Context(), user.UserID, chi.URLParam(r, "id"), req.Title)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	rw.Success(conv)
}

func (s *Server) handleConversationDelete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	if err := s.conversations.Delete(r.Context(), user.UserID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}
