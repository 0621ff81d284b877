// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package warehouse

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rinkside/rinkside/internal/config"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenForTesting()
	if err != nil {
		t.Fatalf("OpenForTesting: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedContracts(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()
	stmts := []string{
		`CREATE TABLE contracts (
			player_id VARCHAR, player_name VARCHAR, team_code VARCHAR,
			season VARCHAR, position VARCHAR, age DOUBLE,
			cap_hit DOUBLE, cap_hit_pct DOUBLE, aav DOUBLE,
			years_total INTEGER, years_left INTEGER,
			signing_age DOUBLE, signing_year INTEGER, clause VARCHAR,
			roster_status VARCHAR, expiry_status VARCHAR,
			loaded_at TIMESTAMP)`,
		`INSERT INTO contracts VALUES
			('8480018', 'Nick Suzuki', 'MTL', '20252026', 'C', 26.1,
			 7875000, 0.082, 7875000, 8, 5, 22.0, 2021, 'NTC', 'NHL', 'UFA', '2026-01-01'),
			('8480018', 'Nick Suzuki', 'MTL', '20252026', 'C', 26.1,
			 7875000, 0.082, 7875000, 8, 5, 22.0, 2021, 'NTC', 'NHL', 'UFA', '2025-09-01'),
			('8481540', 'Cole Caufield', 'MTL', '20252026', 'RW', 24.8,
			 7850000, 0.082, 7850000, 8, 6, 22.0, 2023, NULL, 'NHL', 'UFA', '2026-01-01'),
			('8476981', 'Depth Guy', 'MTL', '20252026', 'D', 29.0,
			 900000, 0.009, 900000, 1, 1, NULL, NULL, NULL, 'Minor', NULL, '2026-01-01'),
			('8478402', 'Connor McDavid', 'EDM', '20252026', 'C', 29.0,
			 12500000, 0.131, 12500000, 8, 2, 20.0, 2017, 'NMC', 'NHL', 'UFA', '2026-01-01')`,
	}
	for _, s := range stmts {
		if err := db.Exec(ctx, s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestActiveContractsLatestLoadWins(t *testing.T) {
	db := testDB(t)
	seedContracts(t, db)

	contracts, err := db.ActiveContracts(context.Background(), "mtl", "20252026")
	if err != nil {
		t.Fatalf("ActiveContracts: %v", err)
	}
	if len(contracts) != 3 {
		t.Fatalf("expected 3 distinct players, got %d", len(contracts))
	}
	// Ordered by cap hit descending.
	if contracts[0].PlayerName != "Nick Suzuki" || contracts[1].PlayerName != "Cole Caufield" {
		t.Errorf("unexpected order: %s, %s", contracts[0].PlayerName, contracts[1].PlayerName)
	}
	if contracts[2].RosterStatus != "Minor" {
		t.Errorf("expected Minor roster status preserved, got %q", contracts[2].RosterStatus)
	}
}

func TestPlayerContractNotFound(t *testing.T) {
	db := testDB(t)
	seedContracts(t, db)

	if _, err := db.PlayerContract(context.Background(), "9999999", "20252026"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	c, err := db.PlayerContract(context.Background(), "8480018", "20252026")
	if err != nil {
		t.Fatalf("PlayerContract: %v", err)
	}
	if c.CapHit != 7875000 || c.Clause != "NTC" {
		t.Errorf("unexpected contract: %+v", c)
	}
}

func TestLeagueContractsPositionGroup(t *testing.T) {
	db := testDB(t)
	seedContracts(t, db)

	forwards, err := db.LeagueContracts(context.Background(), "20252026", "F")
	if err != nil {
		t.Fatalf("LeagueContracts: %v", err)
	}
	for _, c := range forwards {
		if c.Position == "D" || c.Position == "G" {
			t.Errorf("position group F leaked %s", c.Position)
		}
	}
	if len(forwards) != 3 {
		t.Errorf("expected 3 forwards, got %d", len(forwards))
	}
}

func TestPlayerGameLogsPerPlayerLimit(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	if err := db.Exec(ctx, `CREATE TABLE player_games (
		player_id VARCHAR, player_name VARCHAR, team_code VARCHAR,
		game_id BIGINT, game_date VARCHAR, toi VARCHAR,
		ev_primary_points DOUBLE, ixg DOUBLE, shot_assists DOUBLE,
		controlled_entries DOUBLE, on_ice_xgf_pct DOUBLE)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 12; i++ {
		if err := db.Exec(ctx,
			`INSERT INTO player_games VALUES ('p1', 'One', 'MTL', ?, ?, '18:30', 1, 0.8, 2, 5, 52.0),
			 ('p2', 'Two', 'MTL', ?, ?, '20:10', 0, 0.5, 1, 3, 48.0)`,
			2025020000+i, dateFor(i), 2025020000+i, dateFor(i)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rows, err := db.PlayerGameLogs(ctx, GameLogFilter{PlayerIDs: []string{"p1", "p2"}, Limit: 10})
	if err != nil {
		t.Fatalf("PlayerGameLogs: %v", err)
	}
	counts := map[string]int{}
	for _, r := range rows {
		counts[r.PlayerID]++
	}
	if counts["p1"] != 10 || counts["p2"] != 10 {
		t.Errorf("per-player limit not applied: %v", counts)
	}
}

func dateFor(i int) string {
	return fmt.Sprintf("2026-01-%02d", i+1)
}

func TestDisabledWarehouse(t *testing.T) {
	db, err := Open(config.WarehouseConfig{Disabled: true})
	if err != nil {
		t.Fatalf("Open disabled: %v", err)
	}
	defer db.Close()

	if !db.Disabled() {
		t.Fatal("expected Disabled() true")
	}
	if _, err := db.ActiveContracts(context.Background(), "MTL", "20252026"); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
	if _, err := db.TeamGameLogs(context.Background(), nil, 10); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}
