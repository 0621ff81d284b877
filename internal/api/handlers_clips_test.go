// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/media"
	"github.com/rinkside/rinkside/internal/models"
)

type fakeClipStore struct {
	clips map[string]*models.ClipDetail
}

func (f *fakeClipStore) List(ctx context.Context, filter models.ClipFilter) ([]models.ClipMetadata, error) {
	var out []models.ClipMetadata
	for _, detail := range f.clips {
		if filter.PlayerID != "" && detail.PlayerID != filter.PlayerID {
			continue
		}
		if filter.TeamCode != "" && detail.TeamCode != filter.TeamCode {
			continue
		}
		out = append(out, detail.ClipMetadata)
	}
	return out, nil
}

func (f *fakeClipStore) Get(ctx context.Context, clipID string) (*models.ClipDetail, error) {
	detail, ok := f.clips[clipID]
	if !ok {
		return nil, fmt.Errorf("clip %s: %w", clipID, media.ErrClipNotFound)
	}
	return detail, nil
}

// Asset mirrors the repo contract: an empty kind means playable media,
// HLS playlist preferred with MP4 as the fallback.
func (f *fakeClipStore) Asset(ctx context.Context, clipID, kind string) (*models.ClipAsset, error) {
	detail, ok := f.clips[clipID]
	if !ok {
		return nil, fmt.Errorf("clip %s: %w", clipID, media.ErrClipNotFound)
	}
	if kind != "" {
		for i := range detail.Assets {
			if detail.Assets[i].Kind == kind {
				return &detail.Assets[i], nil
			}
		}
		return nil, fmt.Errorf("clip %s asset %s: %w", clipID, kind, media.ErrClipNotFound)
	}
	for _, want := range []string{models.AssetKindHLSPlaylist, models.AssetKindMP4} {
		for i := range detail.Assets {
			if detail.Assets[i].Kind == want {
				return &detail.Assets[i], nil
			}
		}
	}
	return nil, fmt.Errorf("clip %s has no playable asset: %w", clipID, media.ErrClipNotFound)
}

func (f *fakeClipStore) Stats(ctx context.Context) (*models.ClipStats, error) {
	return &models.ClipStats{TotalClips: int64(len(f.clips))}, nil
}

type fakeSigner struct{}

func (fakeSigner) SignAssets(ctx context.Context, assets []models.ClipAsset) {
	for i := range assets {
		assets[i].SignedURL = "https://cdn.example/" + assets[i].StorageURI + "?sig=test"
	}
}

func suzukiClip() *models.ClipDetail {
	return &models.ClipDetail{
		ClipMetadata: models.ClipMetadata{
			ClipID:           "clip-suzuki-1",
			PlayerID:         "8480018",
			PlayerName:       "N. Suzuki",
			TeamCode:         "MTL",
			GameID:           2026020101,
			EventType:        "goal",
			ProcessingStatus: models.ClipStatusReady,
		},
		Assets: []models.ClipAsset{
			{Kind: models.AssetKindMP4, StorageURI: "clips/clip-suzuki-1.mp4"},
			{Kind: models.AssetKindThumbnail, StorageURI: "clips/clip-suzuki-1.jpg"},
		},
	}
}

func caufieldClip() *models.ClipDetail {
	return &models.ClipDetail{
		ClipMetadata: models.ClipMetadata{
			ClipID:           "clip-caufield-1",
			PlayerID:         "8481540",
			PlayerName:       "C. Caufield",
			TeamCode:         "MTL",
			GameID:           2026020101,
			EventType:        "goal",
			ProcessingStatus: models.ClipStatusReady,
		},
		Assets: []models.ClipAsset{
			{Kind: models.AssetKindMP4, StorageURI: "clips/clip-caufield-1.mp4"},
		},
	}
}

func newClipServer(t *testing.T) (*Server, http.Handler, *fakeClipStore) {
	t.Helper()
	srv, _ := newTestServer(t)
	store := &fakeClipStore{clips: map[string]*models.ClipDetail{
		"clip-suzuki-1":   suzukiClip(),
		"clip-caufield-1": caufieldClip(),
	}}
	srv.clips = store
	return srv, srv.Routes(), store
}

// Players see only their own clips; existence is checked before access, so
// a foreign clip reads as 403 only when it exists and unknown ids stay 404.
func TestClipAccessOrdering(t *testing.T) {
	_, h, _ := newClipServer(t)
	player := bearer("player_suzuki", "player-dev-secret")

	rec := doJSON(t, h, http.MethodGet, "/api/v1/clips/clip-suzuki-1/metadata", player, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("own clip status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/clips/clip-caufield-1/metadata", player, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign clip status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/clips/no-such-clip/metadata", player, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown clip status = %d, want 404", rec.Code)
	}
}

func TestClipListFiltersByPolicy(t *testing.T) {
	_, h, _ := newClipServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/clips/", bearer("player_suzuki", "player-dev-secret"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	rows, ok := env.Data.([]interface{})
	if !ok {
		t.Fatalf("data = %T, want array", env.Data)
	}
	if len(rows) != 1 {
		t.Fatalf("player sees %d clips, want 1", len(rows))
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/clips/", bearer("coach_martin", "coach-dev-secret"), nil)
	env = decodeEnvelope(t, rec)
	rows, _ = env.Data.([]interface{})
	if len(rows) != 2 {
		t.Fatalf("coach sees %d clips, want 2", len(rows))
	}
}

func TestClipVideoRangeServing(t *testing.T) {
	srv, h, _ := newClipServer(t)

	payload := []byte("0123456789abcdef")
	path := filepath.Join(srv.cfg.Media.LocalMediaDir, "clip-suzuki-1.mp4")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write media file: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clips/clip-suzuki-1/video", nil)
	req.Header.Set("Authorization", bearer("coach_martin", "coach-dev-secret"))
	req.Header.Set("Range", "bytes=0-3")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206 (body %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "0123" {
		t.Errorf("range body = %q, want %q", got, "0123")
	}
}

// An HLS-only clip still plays: the video route asks for playable media
// and the index prefers the playlist, falling back to MP4 when absent.
func TestClipVideoPrefersHLSPlaylist(t *testing.T) {
	srv, h, store := newClipServer(t)
	store.clips["clip-hutson-1"] = &models.ClipDetail{
		ClipMetadata: models.ClipMetadata{
			ClipID:           "clip-hutson-1",
			PlayerID:         "8483457",
			PlayerName:       "L. Hutson",
			TeamCode:         "MTL",
			GameID:           2026020102,
			EventType:        "goal",
			ProcessingStatus: models.ClipStatusReady,
		},
		Assets: []models.ClipAsset{
			{Kind: models.AssetKindHLSPlaylist, StorageURI: "clips/clip-hutson-1.m3u8"},
		},
	}

	playlist := []byte("#EXTM3U\n#EXT-X-VERSION:3\n")
	path := filepath.Join(srv.cfg.Media.LocalMediaDir, "clip-hutson-1.m3u8")
	if err := os.WriteFile(path, playlist, 0o644); err != nil {
		t.Fatalf("write playlist file: %v", err)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/v1/clips/clip-hutson-1/video", bearer("coach_martin", "coach-dev-secret"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != string(playlist) {
		t.Errorf("body = %q, want playlist content", got)
	}
}

// The open-access flag bypasses row-level clip policy; players reach
// foreign clips when a deployment runs with it set.
func TestClipOpenAccessOverride(t *testing.T) {
	srv, _, _ := newClipServer(t)
	srv.clipPolicy = auth.ClipPolicy{OverrideAll: true}
	h := srv.Routes()

	rec := doJSON(t, h, http.MethodGet, "/api/v1/clips/clip-caufield-1/metadata", bearer("player_suzuki", "player-dev-secret"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 under open access (body %s)", rec.Code, rec.Body.String())
	}
}

func TestClipListLimitBounds(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"?limit=0", 50},
		{"?limit=-5", 50},
		{"?limit=300", 300},
		{"?limit=900", 500},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clips/"+tt.query, nil)
		if got := clipFilterFromQuery(req).Limit; got != tt.want {
			t.Errorf("limit for %q = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestClipStats(t *testing.T) {
	_, h, _ := newClipServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/clips/stats", bearer("analyst_dubois", "analyst-dev-secret"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("envelope = %+v, want success", env)
	}
}

func TestSignedClipsRequireSigner(t *testing.T) {
	_, h, _ := newClipServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v2/clips/clip-suzuki-1", bearer("coach_martin", "coach-dev-secret"), nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 without signer (body %s)", rec.Code, rec.Body.String())
	}
}

func TestSignedClipDetail(t *testing.T) {
	srv, _, _ := newClipServer(t)
	srv.signer = fakeSigner{}
	h := srv.Routes()

	rec := doJSON(t, h, http.MethodGet, "/api/v2/clips/clip-suzuki-1", bearer("coach_martin", "coach-dev-secret"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	detail, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", env.Data)
	}
	assets, _ := detail["assets"].([]interface{})
	if len(assets) == 0 {
		t.Fatal("signed detail has no assets")
	}
	first, _ := assets[0].(map[string]interface{})
	if url, _ := first["signed_url"].(string); url == "" {
		t.Error("asset signed_url is empty")
	}
}

func TestClipsUnavailableWithoutStore(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/clips/", bearer("coach_martin", "coach-dev-secret"), nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 without clip index", rec.Code)
	}
}
