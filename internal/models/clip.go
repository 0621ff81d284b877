// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package models

import "time"

// Clip processing states. Transitions are monotone
// (pending -> processing -> ready) except failed, which is terminal.
const (
	ClipStatusPending    = "pending"
	ClipStatusProcessing = "processing"
	ClipStatusReady      = "ready"
	ClipStatusFailed     = "failed"
)

// Asset kinds stored per clip.
const (
	AssetKindMP4           = "mp4"
	AssetKindHLSPlaylist   = "hls_playlist"
	AssetKindHLSSegment    = "hls_segment"
	AssetKindThumbnail     = "thumbnail"
	AssetKindThumbnailGrid = "thumbnail_grid"
	AssetKindDASHManifest  = "dash_manifest"
)

// ClipMetadata mirrors media.clips. ClipID is the externally visible
// identifier; InternalPK is the relational primary key.
//
// Invariant: DurationS = EndS - StartS and 0 < DurationS <= 300.
type ClipMetadata struct {
	ClipID           string    `json:"clip_id" db:"clip_id"`
	InternalPK       int64     `json:"-" db:"id"`
	PlayerID         string    `json:"player_id" db:"player_id"`
	PlayerName       string    `json:"player_name" db:"player_name"`
	TeamCode         string    `json:"team_code" db:"team_code"`
	OpponentCode     string    `json:"opponent_code" db:"opponent_code"`
	GameID           int64     `json:"game_id" db:"game_id"`
	GameDate         string    `json:"game_date" db:"game_date"`
	Season           string    `json:"season" db:"season"`
	Period           int       `json:"period" db:"period"`
	EventType        string    `json:"event_type" db:"event_type"`
	Outcome          string    `json:"outcome" db:"outcome"`
	Zone             string    `json:"zone" db:"zone"`
	StartS           float64   `json:"start_s" db:"start_s"`
	EndS             float64   `json:"end_s" db:"end_s"`
	DurationS        float64   `json:"duration_s" db:"duration_s"`
	SourceURI        string    `json:"source_uri" db:"source_uri"`
	ProcessingStatus string    `json:"processing_status" db:"processing_status"`
	CreatedAt        time.Time `json:"created_ts" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_ts" db:"updated_at"`
}

// ClipAsset mirrors media.clip_assets. Unique on (clip_fk, kind, storage_uri);
// rows cascade on clip delete.
type ClipAsset struct {
	AssetID     int64    `json:"asset_id" db:"id"`
	ClipFK      int64    `json:"-" db:"clip_fk"`
	Kind        string   `json:"kind" db:"kind"`
	StorageURI  string   `json:"storage_uri" db:"storage_uri"`
	CDNPath     *string  `json:"cdn_path,omitempty" db:"cdn_path"`
	SizeBytes   int64    `json:"size_bytes" db:"size_bytes"`
	DurationS   *float64 `json:"duration_s,omitempty" db:"duration_s"`
	Width       *int     `json:"width,omitempty" db:"width"`
	Height      *int     `json:"height,omitempty" db:"height"`
	Codec       *string  `json:"codec,omitempty" db:"codec"`
	BitrateKbps *int     `json:"bitrate_kbps,omitempty" db:"bitrate_kbps"`
	// SignedURL is generated at response time (<=60 min TTL), never stored.
	SignedURL string `json:"signed_url,omitempty" db:"-"`
}

// ClipTag mirrors media.clip_tags; unique on (clip_fk, tag).
type ClipTag struct {
	ClipFK     int64    `json:"-" db:"clip_fk"`
	Tag        string   `json:"tag" db:"tag"`
	TagType    *string  `json:"tag_type,omitempty" db:"tag_type"`
	Confidence *float64 `json:"confidence,omitempty" db:"confidence"`
}

// ClipDetail is the single-clip response shape: metadata plus assets and tags.
type ClipDetail struct {
	ClipMetadata
	Assets []ClipAsset `json:"assets"`
	Tags   []ClipTag   `json:"tags"`
}

// ClipSummary is the shape embedded in analytics blocks and list responses.
type ClipSummary struct {
	ClipID       string  `json:"clip_id"`
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name"`
	TeamCode     string  `json:"team_code"`
	OpponentCode string  `json:"opponent_code,omitempty"`
	GameDate     string  `json:"game_date"`
	EventType    string  `json:"event_type"`
	Outcome      string  `json:"outcome,omitempty"`
	DurationS    float64 `json:"duration_s"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
	VideoURL     string  `json:"video_url,omitempty"`
}

// ClipFilter bounds clip list queries. Limit is capped at 500 by the
// repository regardless of the requested value.
type ClipFilter struct {
	PlayerID  string
	TeamCode  string
	GameID    int64
	EventType string
	Status    string
	Limit     int
	Offset    int
}

// ClipStats is the aggregate served by /clips/stats.
type ClipStats struct {
	TotalClips    int64            `json:"total_clips"`
	ReadyClips    int64            `json:"ready_clips"`
	ByEventType   map[string]int64 `json:"by_event_type"`
	ByTeam        map[string]int64 `json:"by_team"`
	TotalDuration float64          `json:"total_duration_s"`
}
