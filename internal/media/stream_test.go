// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package media

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRange(t *testing.T) {
	const size = 1000
	tests := []struct {
		header    string
		wantOK    bool
		wantStart int64
		wantEnd   int64
	}{
		{"bytes=0-499", true, 0, 499},
		{"bytes=500-", true, 500, 999},
		{"bytes=-200", true, 800, 999},
		{"bytes=0-", true, 0, 999},
		{"bytes=990-2000", true, 990, 999}, // end clipped to file size
		{"", false, 0, 0},
		{"bytes=abc-def", false, 0, 0},
		{"bytes=1000-1100", false, 0, 0}, // start beyond EOF
		{"bytes=500-100", false, 0, 0},   // inverted
		{"bytes=0-100,200-300", false, 0, 0},
		{"items=0-100", false, 0, 0},
	}
	for _, tt := range tests {
		rng, ok := parseRange(tt.header, size)
		if ok != tt.wantOK {
			t.Errorf("parseRange(%q) ok = %v, want %v", tt.header, ok, tt.wantOK)
			continue
		}
		if ok && (rng.start != tt.wantStart || rng.end != tt.wantEnd) {
			t.Errorf("parseRange(%q) = [%d,%d], want [%d,%d]", tt.header, rng.start, rng.end, tt.wantStart, tt.wantEnd)
		}
	}
}

func writeClipFile(t *testing.T, n int) string {
	t.Helper()
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestServeFileRangePartial(t *testing.T) {
	path := writeClipFile(t, 5000)

	req := httptest.NewRequest(http.MethodGet, "/clip.mp4", nil)
	req.Header.Set("Range", "bytes=1000-1999")
	rec := httptest.NewRecorder()
	ServeFileRange(rec, req, path)

	if rec.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", rec.Code)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 1000-1999/5000" {
		t.Errorf("Content-Range = %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "1000" {
		t.Errorf("Content-Length = %q", got)
	}
	if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Errorf("Accept-Ranges = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
		t.Errorf("Content-Type = %q", got)
	}
	body := rec.Body.Bytes()
	if len(body) != 1000 || body[0] != byte(1000%251) {
		t.Errorf("wrong bytes served: len=%d first=%d", len(body), body[0])
	}
}

func TestServeFileRangeInvalidFallsBackToFull(t *testing.T) {
	path := writeClipFile(t, 2048)

	req := httptest.NewRequest(http.MethodGet, "/clip.mp4", nil)
	req.Header.Set("Range", "bytes=9999-") // beyond EOF
	rec := httptest.NewRecorder()
	ServeFileRange(rec, req, path)

	if rec.Code != http.StatusOK {
		t.Fatalf("invalid range should serve full file with 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Range") != "" {
		t.Error("full responses must not carry Content-Range")
	}
	if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Errorf("full responses still advertise ranges, got %q", got)
	}
	if rec.Body.Len() != 2048 {
		t.Errorf("body length = %d, want 2048", rec.Body.Len())
	}
}

func TestServeFileRangeSuffix(t *testing.T) {
	path := writeClipFile(t, 1024)

	req := httptest.NewRequest(http.MethodGet, "/clip.mp4", nil)
	req.Header.Set("Range", "bytes=-24")
	rec := httptest.NewRecorder()
	ServeFileRange(rec, req, path)

	if rec.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", rec.Code)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 1000-1023/1024" {
		t.Errorf("Content-Range = %q", got)
	}
	if rec.Body.Len() != 24 {
		t.Errorf("body length = %d, want 24", rec.Body.Len())
	}
}

func TestServeFileRangeMissingFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/clip.mp4", nil)
	rec := httptest.NewRecorder()
	ServeFileRange(rec, req, filepath.Join(t.TempDir(), "nope.mp4"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestContentTypeWhitelist(t *testing.T) {
	tests := map[string]string{
		"a/clip.mp4":      "video/mp4",
		"a/master.M3U8":   "application/vnd.apple.mpegurl",
		"a/seg001.ts":     "video/mp2t",
		"a/manifest.mpd":  "application/dash+xml",
		"a/thumb.jpg":     "image/jpeg",
		"a/unknown.xyz":   "application/octet-stream",
		"a/no-extension":  "application/octet-stream",
	}
	for path, want := range tests {
		if got := ContentTypeFor(path); got != want {
			t.Errorf("ContentTypeFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestSignerObjectKey(t *testing.T) {
	s := &Signer{bucket: "rinkside-media"}
	tests := []struct {
		uri  string
		want string
	}{
		{"s3://rinkside-media/clips/2026/goal.mp4", "clips/2026/goal.mp4"},
		{"gs://rinkside-media/clips/a.m3u8", "clips/a.m3u8"},
		{"s3://other-bucket/clips/a.mp4", ""},
		{"clips/bare-key.mp4", "clips/bare-key.mp4"},
		{"/clips/leading-slash.mp4", "clips/leading-slash.mp4"},
		{"https://example.com/a.mp4", ""},
	}
	for _, tt := range tests {
		if got := s.objectKey(tt.uri); got != tt.want {
			t.Errorf("objectKey(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
