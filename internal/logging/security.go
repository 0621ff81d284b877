// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package logging

import (
	"net/url"
	"strings"
)

// RedactToken masks a credential so it can appear in logs without leaking.
// The first four characters are kept for correlation; everything else is
// replaced.
func RedactToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****"
}

// RedactURL strips credential-bearing query parameters from a URL before it
// is logged. Unparseable inputs are returned masked entirely rather than
// risking a leak.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "****"
	}
	q := u.Query()
	for key := range q {
		switch strings.ToLower(key) {
		case "token", "access_token", "api_key", "apikey", "secret":
			q.Set(key, "****")
		}
	}
	u.RawQuery = q.Encode()
	u.User = nil
	return u.String()
}
