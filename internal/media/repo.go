// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package media owns the clip index (Postgres schema media), signed asset
// URLs, and byte serving for locally materialized MP4 files.
package media

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/models"
)

//go:embed schema.sql
var schemaDDL string

// ErrClipNotFound marks a missing clip id.
var ErrClipNotFound = errors.New("clip not found")

// maxClipLimit caps list reads regardless of the requested page size.
const maxClipLimit = 500

// Repo is the sqlx repository over the media schema.
type Repo struct {
	db *sqlx.DB
}

// OpenRepo connects to Postgres and applies the idempotent schema.
func OpenRepo(ctx context.Context, databaseURL string) (*Repo, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect media database: %w", err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply media schema: %w", err)
	}
	logging.Info().Msg("Media clip index ready")
	return &Repo{db: db}, nil
}

// NewRepoFromDB wraps an existing connection; used by tests.
func NewRepoFromDB(db *sqlx.DB) *Repo { return &Repo{db: db} }

// Close releases the connection pool.
func (r *Repo) Close() error { return r.db.Close() }

// List returns clip metadata matching the filter, newest game first. RBAC
// is applied by the caller per row; the repository only filters and bounds.
func (r *Repo) List(ctx context.Context, filter models.ClipFilter) ([]models.ClipMetadata, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.PlayerID != "" {
		where = append(where, "player_id = "+arg(filter.PlayerID))
	}
	if filter.TeamCode != "" {
		where = append(where, "team_code = "+arg(strings.ToUpper(filter.TeamCode)))
	}
	if filter.GameID > 0 {
		where = append(where, "game_id = "+arg(filter.GameID))
	}
	if filter.EventType != "" {
		where = append(where, "event_type = "+arg(filter.EventType))
	}
	if filter.Status != "" {
		where = append(where, "processing_status = "+arg(filter.Status))
	}

	limit := filter.Limit
	if limit <= 0 || limit > maxClipLimit {
		limit = maxClipLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT id, clip_id, player_id, player_name, team_code, opponent_code,
		       game_id, game_date, season, period, event_type, outcome, zone,
		       start_s, end_s, duration_s, source_uri, processing_status,
		       created_at, updated_at
		FROM media.clips
		WHERE %s
		ORDER BY game_date DESC, clip_id
		LIMIT %s OFFSET %s`,
		strings.Join(where, " AND "), arg(limit), arg(offset))

	var out []models.ClipMetadata
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	if out == nil {
		out = []models.ClipMetadata{}
	}
	return out, nil
}

// Get returns one clip with its assets and tags.
func (r *Repo) Get(ctx context.Context, clipID string) (*models.ClipDetail, error) {
	var meta models.ClipMetadata
	err := r.db.GetContext(ctx, &meta, `
		SELECT id, clip_id, player_id, player_name, team_code, opponent_code,
		       game_id, game_date, season, period, event_type, outcome, zone,
		       start_s, end_s, duration_s, source_uri, processing_status,
		       created_at, updated_at
		FROM media.clips WHERE clip_id = $1`, clipID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("clip %s: %w", clipID, ErrClipNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get clip: %w", err)
	}

	detail := &models.ClipDetail{ClipMetadata: meta, Assets: []models.ClipAsset{}, Tags: []models.ClipTag{}}

	if err := r.db.SelectContext(ctx, &detail.Assets, `
		SELECT id, clip_fk, kind, storage_uri, cdn_path, size_bytes,
		       duration_s, width, height, codec, bitrate_kbps
		FROM media.clip_assets WHERE clip_fk = $1 ORDER BY kind, id`, meta.InternalPK); err != nil {
		return nil, fmt.Errorf("get clip assets: %w", err)
	}
	if err := r.db.SelectContext(ctx, &detail.Tags, `
		SELECT clip_fk, tag, tag_type, confidence
		FROM media.clip_tags WHERE clip_fk = $1 ORDER BY tag`, meta.InternalPK); err != nil {
		return nil, fmt.Errorf("get clip tags: %w", err)
	}
	return detail, nil
}

// Asset returns one asset kind for a clip, preferring the HLS playlist when
// kind is empty.
func (r *Repo) Asset(ctx context.Context, clipID, kind string) (*models.ClipAsset, error) {
	detail, err := r.Get(ctx, clipID)
	if err != nil {
		return nil, err
	}
	if kind != "" {
		for i := range detail.Assets {
			if detail.Assets[i].Kind == kind {
				return &detail.Assets[i], nil
			}
		}
		return nil, fmt.Errorf("clip %s asset %s: %w", clipID, kind, ErrClipNotFound)
	}
	for _, want := range []string{models.AssetKindHLSPlaylist, models.AssetKindMP4} {
		for i := range detail.Assets {
			if detail.Assets[i].Kind == want {
				return &detail.Assets[i], nil
			}
		}
	}
	return nil, fmt.Errorf("clip %s has no playable asset: %w", clipID, ErrClipNotFound)
}

// Stats aggregates the clip index for the stats endpoint.
func (r *Repo) Stats(ctx context.Context) (*models.ClipStats, error) {
	stats := &models.ClipStats{
		ByEventType: map[string]int64{},
		ByTeam:      map[string]int64{},
	}

	err := r.db.QueryRowxContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE processing_status = 'ready'),
		       COALESCE(SUM(duration_s), 0)
		FROM media.clips`).Scan(&stats.TotalClips, &stats.ReadyClips, &stats.TotalDuration)
	if err != nil {
		return nil, fmt.Errorf("clip stats: %w", err)
	}

	type bucket struct {
		Key   string `db:"key"`
		Count int64  `db:"count"`
	}
	var byEvent []bucket
	if err := r.db.SelectContext(ctx, &byEvent, `
		SELECT event_type AS key, COUNT(*) AS count FROM media.clips GROUP BY event_type`); err != nil {
		return nil, fmt.Errorf("clip stats by event: %w", err)
	}
	for _, b := range byEvent {
		stats.ByEventType[b.Key] = b.Count
	}
	var byTeam []bucket
	if err := r.db.SelectContext(ctx, &byTeam, `
		SELECT team_code AS key, COUNT(*) AS count FROM media.clips GROUP BY team_code`); err != nil {
		return nil, fmt.Errorf("clip stats by team: %w", err)
	}
	for _, b := range byTeam {
		stats.ByTeam[b.Key] = b.Count
	}
	return stats, nil
}

// UpdateStatus advances a clip's processing status. Transitions are
// monotone; failed is terminal.
func (r *Repo) UpdateStatus(ctx context.Context, clipID, status string) error {
	rank := map[string]int{
		models.ClipStatusPending:    0,
		models.ClipStatusProcessing: 1,
		models.ClipStatusReady:      2,
		models.ClipStatusFailed:     3,
	}
	newRank, ok := rank[status]
	if !ok {
		return fmt.Errorf("invalid clip status %q", status)
	}

	detail, err := r.Get(ctx, clipID)
	if err != nil {
		return err
	}
	current := detail.ProcessingStatus
	if current == models.ClipStatusFailed {
		return fmt.Errorf("clip %s is failed; status is terminal", clipID)
	}
	if status != models.ClipStatusFailed && newRank < rank[current] {
		return fmt.Errorf("clip %s status cannot move %s -> %s", clipID, current, status)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE media.clips SET processing_status = $1, updated_at = now() WHERE clip_id = $2`,
		status, clipID)
	if err != nil {
		return fmt.Errorf("update clip status: %w", err)
	}
	return nil
}
