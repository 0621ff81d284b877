// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/media"
	"github.com/rinkside/rinkside/internal/models"
)

func clipFilterFromQuery(r *http.Request) models.ClipFilter {
	q := r.URL.Query()
	gameID, _ := strconv.ParseInt(q.Get("game_id"), 10, 64)
	limit := intParam(r, "limit", 50)
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		// The clip index caps pages at 500 rows.
		limit = 500
	}
	offset := intParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return models.ClipFilter{
		PlayerID:  q.Get("player_id"),
		TeamCode:  strings.ToUpper(q.Get("team")),
		GameID:    gameID,
		EventType: q.Get("event_type"),
		Status:    q.Get("status"),
		Limit:     limit,
		Offset:    offset,
	}
}

// visibleClips drops rows the caller may not see. Players only ever see
// their own clips; the filtered rows simply do not exist for them.
func (s *Server) visibleClips(user *models.User, rows []models.ClipMetadata) []models.ClipMetadata {
	out := make([]models.ClipMetadata, 0, len(rows))
	for i := range rows {
		if s.clipPolicy.CanAccessClip(user, &rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

// clipDetail fetches a clip and applies the access policy. Existence is
// checked before access, so a denied caller cannot distinguish a clip they
// may not see from one that does not exist by probing 403s.
func (s *Server) clipDetail(w http.ResponseWriter, r *http.Request) (*models.ClipDetail, bool) {
	if s.clips == nil {
		NewResponseWriter(w, r).ServiceUnavailable("clip index is not configured")
		return nil, false
	}

	detail, err := s.clips.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}

	user := auth.UserFromContext(r.Context())
	if !s.clipPolicy.CanAccessClip(user, &detail.ClipMetadata) {
		NewResponseWriter(w, r).Forbidden("no access to this clip")
		return nil, false
	}
	return detail, true
}

func (s *Server) handleClipList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.clips == nil {
		rw.ServiceUnavailable("clip index is not configured")
		return
	}

	filter := clipFilterFromQuery(r)
	rows, err := s.clips.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	user := auth.UserFromContext(r.Context())
	visible := s.visibleClips(user, rows)
	rw.SuccessWithPagination(visible, &models.PaginationMeta{
		Count:   len(visible),
		Offset:  filter.Offset,
		HasMore: len(rows) == filter.Limit,
	})
}

func (s *Server) handleClipStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.clips == nil {
		rw.ServiceUnavailable("clip index is not configured")
		return
	}

	stats, err := s.clips.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	rw.Success(stats)
}

func (s *Server) handleClipMetadata(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.clipDetail(w, r)
	if !ok {
		return
	}
	NewResponseWriter(w, r).Success(detail)
}

// handleClipVideo streams the playable rendition from local media storage
// with Range support for seeking players. The empty kind lets the clip
// index pick: HLS playlist first, MP4 fallback.
func (s *Server) handleClipVideo(w http.ResponseWriter, r *http.Request) {
	s.serveClipAsset(w, r, "")
}

func (s *Server) handleClipThumbnail(w http.ResponseWriter, r *http.Request) {
	s.serveClipAsset(w, r, models.AssetKindThumbnail)
}

func (s *Server) serveClipAsset(w http.ResponseWriter, r *http.Request, kind string) {
	detail, ok := s.clipDetail(w, r)
	if !ok {
		return
	}

	asset, err := s.clips.Asset(r.Context(), detail.ClipID, kind)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	// Storage URIs are index entries, not paths; only the basename is
	// trusted against the local media root.
	path := filepath.Join(s.cfg.Media.LocalMediaDir, filepath.Base(asset.StorageURI))
	media.ServeFileRange(w, r, path)
}

// handleClipListSigned is the v2 listing: metadata plus short-lived signed
// asset URLs, for clients that fetch media from the CDN instead of this
// process.
func (s *Server) handleClipListSigned(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.clips == nil {
		rw.ServiceUnavailable("clip index is not configured")
		return
	}
	if s.signer == nil {
		rw.ServiceUnavailable("signed media is not configured")
		return
	}

	filter := clipFilterFromQuery(r)
	if filter.Limit > 50 {
		filter.Limit = 50
	}
	rows, err := s.clips.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	user := auth.UserFromContext(r.Context())
	visible := s.visibleClips(user, rows)

	details := make([]*models.ClipDetail, 0, len(visible))
	for i := range visible {
		detail, err := s.clips.Get(r.Context(), visible[i].ClipID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		s.signer.SignAssets(r.Context(), detail.Assets)
		details = append(details, detail)
	}

	rw.SuccessWithPagination(details, &models.PaginationMeta{
		Count:   len(details),
		Offset:  filter.Offset,
		HasMore: len(rows) == filter.Limit,
	})
}

func (s *Server) handleClipDetailSigned(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if s.signer == nil {
		rw.ServiceUnavailable("signed media is not configured")
		return
	}

	detail, ok := s.clipDetail(w, r)
	if !ok {
		return
	}
	s.signer.SignAssets(r.Context(), detail.Assets)
	rw.Success(detail)
}
