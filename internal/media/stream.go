// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package media

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rinkside/rinkside/internal/logging"
)

// streamBufSize is the chunk size for byte serving.
const streamBufSize = 1 << 20

// contentTypes is the extension whitelist; unknown extensions serve as
// octet-stream.
var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".m3u8": "application/vnd.apple.mpegurl",
	".ts":   "video/mp2t",
	".mpd":  "application/dash+xml",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".vtt":  "text/vtt",
}

// ContentTypeFor resolves a response content type from the file extension.
func ContentTypeFor(path string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// byteRange is a resolved, clipped request range.
type byteRange struct {
	start int64
	end   int64
}

func (r byteRange) length() int64 { return r.end - r.start + 1 }

// parseRange reads a single "bytes=start-end" spec against size. Multipart
// ranges and anything malformed return ok=false, which callers treat as a
// full-file request rather than an error.
func parseRange(header string, size int64) (byteRange, bool) {
	if size <= 0 || !strings.HasPrefix(header, "bytes=") {
		return byteRange{}, false
	}
	spec := strings.TrimPrefix(header, "bytes=")
	if strings.Contains(spec, ",") {
		return byteRange{}, false
	}
	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return byteRange{}, false
	}
	startStr, endStr := strings.TrimSpace(spec[:dash]), strings.TrimSpace(spec[dash+1:])

	// Suffix form: bytes=-N is the final N bytes.
	if startStr == "" {
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return byteRange{}, false
		}
		if n > size {
			n = size
		}
		return byteRange{start: size - n, end: size - 1}, true
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 || start >= size {
		return byteRange{}, false
	}
	end := size - 1
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil || end < start {
			return byteRange{}, false
		}
		if end > size-1 {
			end = size - 1
		}
	}
	return byteRange{start: start, end: end}, true
}

// ServeFileRange streams a local file honoring a single byte range. Valid
// ranges get 206 with Content-Range; invalid or absent ranges get the full
// file with 200. Both paths advertise Accept-Ranges and cache headers.
func ServeFileRange(w http.ResponseWriter, r *http.Request, path string) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("path", path).Msg("Clip file open failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	size := info.Size()

	w.Header().Set("Content-Type", ContentTypeFor(path))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Cache-Control", "public, max-age=3600")

	rng, ok := parseRange(r.Header.Get("Range"), size)
	if !ok {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			copyChunked(w, f, size)
		}
		return
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.start, rng.end, size))
	w.Header().Set("Content-Length", strconv.FormatInt(rng.length(), 10))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := f.Seek(rng.start, io.SeekStart); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Clip seek failed")
		return
	}
	copyChunked(w, f, rng.length())
}

// copyChunked streams n bytes in fixed-size chunks, bounded by the client's
// consumption rate. Write errors mean the client went away; they are not
// surfaced.
func copyChunked(w io.Writer, r io.Reader, n int64) {
	buf := make([]byte, streamBufSize)
	_, _ = io.CopyBuffer(w, io.LimitReader(r, n), buf)
}
