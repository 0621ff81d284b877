// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package config

import (
	"os"
	"strings"
)

// Legacy environment variables kept for deployment parity. These predate
// the RINKSIDE_* scheme and win over it when set.
const (
	EnvDatabaseURL          = "DATABASE_URL"
	EnvMediaBucket          = "MEDIA_GCS_BUCKET"
	EnvMediaCDNDomain       = "MEDIA_CDN_DOMAIN"
	EnvClipsOpenAccess      = "CLIPS_OPEN_ACCESS"
	EnvMarketDisableBigQ    = "MARKET_DISABLE_BIGQUERY"
	EnvVectorBackend        = "VECTOR_BACKEND"
	EnvVectorEndpoint       = "VECTOR_ENDPOINT"
	EnvVectorAPIKey         = "VECTOR_API_KEY"
	EnvLogLevel             = "LOG_LEVEL"
	EnvLogFormat            = "LOG_FORMAT"
)

func applyCompatEnv(cfg *Config) {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Media.DatabaseURL = v
	}
	if v := os.Getenv(EnvMediaBucket); v != "" {
		cfg.Media.Bucket = v
	}
	if v := os.Getenv(EnvMediaCDNDomain); v != "" {
		cfg.Media.CDNDomain = v
	}
	if v := os.Getenv(EnvClipsOpenAccess); v != "" {
		cfg.Auth.ClipsOpenAccess = isTruthy(v)
	}
	if v := os.Getenv(EnvMarketDisableBigQ); v != "" {
		cfg.Warehouse.Disabled = isTruthy(v)
	}
	if v := os.Getenv(EnvVectorBackend); v != "" {
		cfg.Vector.Backend = v
	}
	if v := os.Getenv(EnvVectorEndpoint); v != "" {
		cfg.Vector.Endpoint = v
	}
	if v := os.Getenv(EnvVectorAPIKey); v != "" {
		cfg.Vector.APIKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
