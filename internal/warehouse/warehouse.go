// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package warehouse is the columnar analytics store. It embeds DuckDB and
// exposes typed readers over Parquet datasets laid out under the data
// directory (player_games/, team_games/, contracts/, cap_snapshots/,
// trades/, performance_index/, forecasts/).
//
// The store is read-mostly: offline jobs produce the Parquet files, the
// server only queries them through views. When the warehouse is disabled
// every reader returns ErrDisabled and callers fall back to whatever
// degraded behavior their surface defines.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/rinkside/rinkside/internal/config"
	"github.com/rinkside/rinkside/internal/logging"
)

// ErrDisabled is returned by every reader when the warehouse is switched
// off by configuration.
var ErrDisabled = errors.New("warehouse disabled")

// ErrNotFound marks an empty single-row lookup.
var ErrNotFound = errors.New("not found")

// datasets maps view names to their Parquet prefix under DataDir. A view is
// only created when the prefix exists, so a partial data directory degrades
// per-dataset rather than failing startup.
var datasets = map[string]string{
	"player_games":      "player_games",
	"team_games":        "team_games",
	"contracts":         "contracts",
	"cap_snapshots":     "cap_snapshots",
	"trades":            "trades",
	"performance_index": "performance_index",
	"forecasts":         "forecasts",
}

// DB wraps the embedded DuckDB connection.
type DB struct {
	conn     *sql.DB
	cfg      config.WarehouseConfig
	disabled bool

	mu    sync.RWMutex
	views map[string]bool
}

// Open creates the warehouse. An empty path opens an in-memory database;
// Parquet views are attached from the configured data directory.
func Open(cfg config.WarehouseConfig) (*DB, error) {
	if cfg.Disabled {
		logging.Warn().Msg("Warehouse disabled; market and analytics surfaces degrade")
		return &DB{cfg: cfg, disabled: true, views: map[string]bool{}}, nil
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		path, threads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	conn.SetMaxOpenConns(runtime.NumCPU())
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{conn: conn, cfg: cfg, views: map[string]bool{}}
	if err := db.attachDatasets(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// OpenForTesting returns an in-memory warehouse with no Parquet views.
// Tests create and populate tables directly through Exec.
func OpenForTesting() (*DB, error) {
	conn, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}
	views := make(map[string]bool, len(datasets))
	for view := range datasets {
		views[view] = true
	}
	return &DB{
		conn:  conn,
		cfg:   config.WarehouseConfig{QueryTimeout: 10 * time.Second},
		views: views,
	}, nil
}

func (db *DB) attachDatasets(ctx context.Context) error {
	if db.cfg.DataDir == "" {
		return nil
	}
	for view, prefix := range datasets {
		dir := filepath.Join(db.cfg.DataDir, prefix)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			logging.Debug().Str("view", view).Str("dir", dir).Msg("Dataset not present; view skipped")
			continue
		}
		glob := strings.ReplaceAll(filepath.Join(dir, "*.parquet"), "'", "''")
		stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet('%s')", view, glob)
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to attach dataset %s: %w", view, err)
		}
		db.mu.Lock()
		db.views[view] = true
		db.mu.Unlock()
		logging.Info().Str("view", view).Msg("Warehouse dataset attached")
	}
	return nil
}

// Refresh re-attaches the Parquet views so dataset drops made after startup
// become visible without a restart. Views over vanished directories are
// left in place; their glob simply reads what remains.
func (db *DB) Refresh(ctx context.Context) error {
	if db.Disabled() {
		return ErrDisabled
	}
	return db.attachDatasets(ctx)
}

// Disabled reports whether the warehouse is configured off. Nil-safe so
// degraded wirings can pass a missing warehouse through.
func (db *DB) Disabled() bool { return db == nil || db.disabled }

// HasDataset reports whether a dataset view is attached.
func (db *DB) HasDataset(view string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.views[view]
}

// Close releases the embedded database.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Exec runs a statement. Exposed for tests and offline tooling.
func (db *DB) Exec(ctx context.Context, query string, args ...interface{}) error {
	if db.disabled {
		return ErrDisabled
	}
	_, err := db.conn.ExecContext(ctx, query, args...)
	return err
}

// queryTimeout bounds a reader query with the configured deadline.
func (db *DB) queryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := db.cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// queryAndScan executes a query and scans all rows through scanner.
func (db *DB) queryAndScan(ctx context.Context, query string, args []interface{}, scanner func(*sql.Rows) error) error {
	if db.disabled {
		return ErrDisabled
	}
	qctx, cancel := db.queryTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(qctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scanner(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}
	return nil
}

// join is a tiny strings.Join wrapper kept for clause building readability.
func join(parts []string, sep string) string {
	return strings.Join(parts, sep)
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return join(parts, ", ")
}
