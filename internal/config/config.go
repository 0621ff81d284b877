// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package config loads Rinkside configuration from struct defaults, an
// optional YAML file, and environment variables (in that order of
// precedence, lowest first) using koanf.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Auth         AuthConfig         `koanf:"auth"`
	NHL          NHLConfig          `koanf:"nhl"`
	Warehouse    WarehouseConfig    `koanf:"warehouse"`
	Media        MediaConfig        `koanf:"media"`
	Vector       VectorConfig       `koanf:"vector"`
	Orchestrator OrchestratorConfig `koanf:"orchestrator"`
	Cache        CacheConfig        `koanf:"cache"`
	Logging      LoggingConfig      `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// AuthConfig configures the principal table and media fallback auth.
type AuthConfig struct {
	// TokenTTL is the advisory expiry returned by /auth/login. Tokens are
	// stateless; the TTL is informational for clients.
	TokenTTL time.Duration `koanf:"token_ttl"`
	// ClipsOpenAccess enables the synthetic open-media user on the
	// permissive resolver (dev only). Env: CLIPS_OPEN_ACCESS.
	ClipsOpenAccess bool `koanf:"clips_open_access"`
	// PrincipalsFile optionally points at a YAML principal table; when
	// empty the built-in dev principals are used.
	PrincipalsFile string `koanf:"principals_file"`
}

// NHLConfig configures the upstream NHL API proxy.
type NHLConfig struct {
	BaseURL        string        `koanf:"base_url"`
	Timeout        time.Duration `koanf:"timeout"`
	RatePerSecond  float64       `koanf:"rate_per_second"`
	RateBurst      int           `koanf:"rate_burst"`
	BreakerEnabled bool          `koanf:"breaker_enabled"`
}

// WarehouseConfig configures the DuckDB columnar warehouse.
type WarehouseConfig struct {
	// Path is the DuckDB database file; empty means in-memory.
	Path string `koanf:"path"`
	// DataDir holds the Parquet datasets under well-known prefixes
	// (contracts/, cap/, rosters/, game_logs/, team_advanced/, forecasts/).
	DataDir string `koanf:"data_dir"`
	// ContractsCSVDir holds per-player dated contract CSV sheets.
	ContractsCSVDir string `koanf:"contracts_csv_dir"`
	// Disabled turns warehouse readers off; market lookups degrade to the
	// CSV contract sheets. Env: MARKET_DISABLE_BIGQUERY (legacy name kept
	// for deploy parity).
	Disabled     bool          `koanf:"disabled"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"`
}

// MediaConfig configures the relational clip store and object storage.
type MediaConfig struct {
	// DatabaseURL is the Postgres DSN for schema media. Env: DATABASE_URL.
	DatabaseURL string `koanf:"database_url"`
	// Bucket is the object-storage bucket holding clip blobs.
	// Env: MEDIA_GCS_BUCKET (S3-interoperable access).
	Bucket string `koanf:"bucket"`
	// CDNDomain optionally rewrites signed URLs. Env: MEDIA_CDN_DOMAIN.
	CDNDomain string `koanf:"cdn_domain"`
	// SignedURLTTL bounds presigned asset URLs; capped at 60 minutes.
	SignedURLTTL time.Duration `koanf:"signed_url_ttl"`
	// LocalMediaDir serves MP4 byte ranges for locally materialized clips.
	LocalMediaDir string `koanf:"local_media_dir"`
	// Endpoint overrides the S3 endpoint (interoperability mode).
	Endpoint string `koanf:"endpoint"`
	Region   string `koanf:"region"`
}

// VectorConfig configures the vector-search tool backend.
type VectorConfig struct {
	// Backend selects the vector backend. Env: VECTOR_BACKEND.
	Backend string `koanf:"backend"`
	// Endpoint is the HTTP search endpoint. Env: VECTOR_ENDPOINT.
	Endpoint string        `koanf:"endpoint"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"`
	TopK     int           `koanf:"top_k"`
}

// OrchestratorConfig bounds the query pipeline.
type OrchestratorConfig struct {
	GlobalDeadline  time.Duration `koanf:"global_deadline"`
	ToolDeadline    time.Duration `koanf:"tool_deadline"`
	DefaultWindow   int           `koanf:"default_window"`
	ConversationDir string        `koanf:"conversation_dir"`
}

// CacheConfig carries the per-surface TTL policy.
type CacheConfig struct {
	DefaultTTL     time.Duration `koanf:"default_ttl"`
	LiveScores     time.Duration `koanf:"live_scores"`
	Schedule       time.Duration `koanf:"schedule"`
	Standings      time.Duration `koanf:"standings"`
	Leaders        time.Duration `koanf:"leaders"`
	PlayerLanding  time.Duration `koanf:"player_landing"`
	TeamAdvanced   time.Duration `koanf:"team_advanced"`
	CapSnapshots   time.Duration `koanf:"cap_snapshots"`
	JanitorSweep   time.Duration `koanf:"janitor_sweep"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the full default tree. Defaults are applied first,
// then overridden by config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8787,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: 1 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL:        1 * time.Hour,
			ClipsOpenAccess: false,
		},
		NHL: NHLConfig{
			BaseURL:        "https://api-web.nhle.com/v1",
			Timeout:        10 * time.Second,
			RatePerSecond:  5,
			RateBurst:      10,
			BreakerEnabled: true,
		},
		Warehouse: WarehouseConfig{
			Path:         "", // in-memory; Parquet scans attach the data dir
			DataDir:      "/data/warehouse",
			QueryTimeout: 20 * time.Second,
			MaxMemory:    "2GB",
			Threads:      0, // 0 = runtime.NumCPU()
		},
		Media: MediaConfig{
			SignedURLTTL:  60 * time.Minute,
			LocalMediaDir: "/data/media",
			Region:        "auto",
		},
		Vector: VectorConfig{
			Backend: "http",
			Timeout: 10 * time.Second,
			TopK:    8,
		},
		Orchestrator: OrchestratorConfig{
			GlobalDeadline:  30 * time.Second,
			ToolDeadline:    20 * time.Second,
			DefaultWindow:   10,
			ConversationDir: "/data/conversations",
		},
		Cache: CacheConfig{
			DefaultTTL:    5 * time.Minute,
			LiveScores:    15 * time.Second,
			Schedule:      45 * time.Second,
			Standings:     120 * time.Second,
			Leaders:       120 * time.Second,
			PlayerLanding: 300 * time.Second,
			TeamAdvanced:  600 * time.Second,
			CapSnapshots:  600 * time.Second,
			JanitorSweep:  5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks cross-field constraints after load.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.NHL.Timeout <= 0 {
		return fmt.Errorf("nhl.timeout must be positive")
	}
	if c.Media.SignedURLTTL > 60*time.Minute {
		return fmt.Errorf("media.signed_url_ttl must not exceed 60m, got %s", c.Media.SignedURLTTL)
	}
	if c.Orchestrator.GlobalDeadline <= 0 {
		return fmt.Errorf("orchestrator.global_deadline must be positive")
	}
	if c.Orchestrator.ToolDeadline > c.Orchestrator.GlobalDeadline {
		return fmt.Errorf("orchestrator.tool_deadline exceeds global deadline")
	}
	if !strings.HasPrefix(c.NHL.BaseURL, "http") {
		return fmt.Errorf("nhl.base_url must be an http(s) URL")
	}
	return nil
}
