// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package auth

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Authentication failure reasons. All map to 401 with a
// WWW-Authenticate: Bearer challenge; the reason is carried for logging
// and the error envelope.
var (
	ErrNoCredentials      = errors.New("missing credentials")
	ErrBadTokenFormat     = errors.New("bad token format")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// EncodeToken builds the opaque bearer token for a username/secret pair.
func EncodeToken(username, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + secret))
}

// DecodeToken splits an opaque token back into username and secret.
// Returns ErrBadTokenFormat for anything that is not base64("user:secret").
func DecodeToken(token string) (username, secret string, err error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", ErrBadTokenFormat
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrBadTokenFormat
	}
	return parts[0], parts[1], nil
}

// bearerToken extracts the token from an Authorization header value.
// Returns "" when the header is absent or not a Bearer scheme.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
