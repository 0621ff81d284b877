// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rinkside/rinkside/internal/models"
)

// GameLogFilter narrows player game-log reads.
type GameLogFilter struct {
	PlayerIDs []string
	TeamCode  string
	// Limit caps rows per player when positive (most recent first).
	Limit int
}

// PlayerGameLogs returns player-game rows ordered newest first within each
// player. The per-player limit is applied with a window function so one hot
// player cannot crowd out the rest of a multi-player read.
func (db *DB) PlayerGameLogs(ctx context.Context, filter GameLogFilter) ([]models.PlayerGameRow, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if len(filter.PlayerIDs) > 0 {
		where = append(where, fmt.Sprintf("player_id IN (%s)", placeholders(len(filter.PlayerIDs))))
		for _, id := range filter.PlayerIDs {
			args = append(args, id)
		}
	}
	if filter.TeamCode != "" {
		where = append(where, "team_code = ?")
		args = append(args, strings.ToUpper(filter.TeamCode))
	}

	query := fmt.Sprintf(`
		WITH ranked AS (
			SELECT player_id, player_name, team_code, game_id, game_date,
			       toi, ev_primary_points, ixg, shot_assists,
			       controlled_entries, on_ice_xgf_pct,
			       ROW_NUMBER() OVER (PARTITION BY player_id ORDER BY game_date DESC) AS rn
			FROM player_games
			WHERE %s
		)
		SELECT player_id, player_name, team_code, game_id, game_date,
		       toi, ev_primary_points, ixg, shot_assists,
		       controlled_entries, on_ice_xgf_pct
		FROM ranked`, join(where, " AND "))
	if filter.Limit > 0 {
		query += " WHERE rn <= ?"
		args = append(args, filter.Limit)
	}
	query += " ORDER BY player_id, game_date DESC"

	var out []models.PlayerGameRow
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var r models.PlayerGameRow
		var toi sql.NullString
		if err := rows.Scan(&r.PlayerID, &r.PlayerName, &r.TeamCode, &r.GameID, &r.GameDate,
			&toi, &r.EVPrimaryPoints, &r.IndividualXG, &r.ShotAssists,
			&r.ControlledEntries, &r.OnIceXGFPct); err != nil {
			return err
		}
		r.TOI = toi.String
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("player game logs: %w", err)
	}
	return out, nil
}

// TeamGameLogs returns the most recent window games for the given teams,
// newest first. An empty team list reads every team.
func (db *DB) TeamGameLogs(ctx context.Context, teams []string, window int) ([]models.TeamGameRow, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if len(teams) > 0 {
		where = append(where, fmt.Sprintf("team_code IN (%s)", placeholders(len(teams))))
		for _, t := range teams {
			args = append(args, strings.ToUpper(t))
		}
	}

	query := fmt.Sprintf(`
		WITH ranked AS (
			SELECT team_code, game_id, game_date, xgf, xga, gf_5v5, ga_5v5,
			       cf_60, ca_60, pp_pct, pk_pct, shooting_pct, save_pct,
			       points, points_max,
			       ROW_NUMBER() OVER (PARTITION BY team_code ORDER BY game_date DESC) AS rn
			FROM team_games
			WHERE %s
		)
		SELECT team_code, game_id, game_date, xgf, xga, gf_5v5, ga_5v5,
		       cf_60, ca_60, pp_pct, pk_pct, shooting_pct, save_pct,
		       points, points_max
		FROM ranked`, join(where, " AND "))
	if window > 0 {
		query += " WHERE rn <= ?"
		args = append(args, window)
	}
	query += " ORDER BY team_code, game_date DESC"

	var out []models.TeamGameRow
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var r models.TeamGameRow
		if err := rows.Scan(&r.TeamCode, &r.GameID, &r.GameDate, &r.XGF, &r.XGA,
			&r.GF5v5, &r.GA5v5, &r.CF60, &r.CA60, &r.PPPct, &r.PKPct,
			&r.ShootPct, &r.SavePct, &r.Points, &r.PointsMax); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("team game logs: %w", err)
	}
	return out, nil
}

const contractColumns = `player_id, player_name, team_code, season, position, age,
	cap_hit, cap_hit_pct, aav, years_total, years_left,
	signing_age, signing_year, clause, roster_status, expiry_status`

func scanContract(rows *sql.Rows) (models.ContractRecord, error) {
	var r models.ContractRecord
	var signingAge sql.NullFloat64
	var signingYear sql.NullInt64
	var clause, expiry sql.NullString
	err := rows.Scan(&r.PlayerID, &r.PlayerName, &r.TeamCode, &r.Season, &r.Position,
		&r.Age, &r.CapHit, &r.CapHitPct, &r.AAV, &r.YearsTotal, &r.YearsLeft,
		&signingAge, &signingYear, &clause, &r.RosterStatus, &expiry)
	if err != nil {
		return r, err
	}
	r.SigningAge = signingAge.Float64
	r.SigningYear = int(signingYear.Int64)
	r.Clause = clause.String
	r.ExpiryStatus = expiry.String
	return r, nil
}

// ActiveContracts returns the active contract rows for one team and season,
// largest cap hit first. The contracts dataset may carry superseded rows for
// a (player, season) key; the latest load wins.
func (db *DB) ActiveContracts(ctx context.Context, team, season string) ([]models.ContractRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY player_id, season ORDER BY loaded_at DESC) AS rn
			FROM contracts
			WHERE team_code = ? AND season = ?
		) WHERE rn = 1
		ORDER BY cap_hit DESC`, contractColumns)

	var out []models.ContractRecord
	err := db.queryAndScan(ctx, query, []interface{}{strings.ToUpper(team), season}, func(rows *sql.Rows) error {
		r, err := scanContract(rows)
		if err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("active contracts: %w", err)
	}
	return out, nil
}

// PlayerContract returns a player's active contract row for one season.
func (db *DB) PlayerContract(ctx context.Context, playerID, season string) (*models.ContractRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY player_id, season ORDER BY loaded_at DESC) AS rn
			FROM contracts
			WHERE player_id = ? AND season = ?
		) WHERE rn = 1`, contractColumns)

	var found *models.ContractRecord
	err := db.queryAndScan(ctx, query, []interface{}{playerID, season}, func(rows *sql.Rows) error {
		r, err := scanContract(rows)
		if err != nil {
			return err
		}
		found = &r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("player contract: %w", err)
	}
	if found == nil {
		return nil, fmt.Errorf("contract %s/%s: %w", playerID, season, ErrNotFound)
	}
	return found, nil
}

// LeagueContracts returns all active contract rows for one season,
// optionally filtered to a position group (F, D, G).
func (db *DB) LeagueContracts(ctx context.Context, season, positionGroup string) ([]models.ContractRecord, error) {
	where := []string{"season = ?"}
	args := []interface{}{season}
	switch strings.ToUpper(positionGroup) {
	case "F":
		where = append(where, "position IN ('C', 'LW', 'RW', 'F')")
	case "D":
		where = append(where, "position = 'D'")
	case "G":
		where = append(where, "position = 'G'")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY player_id, season ORDER BY loaded_at DESC) AS rn
			FROM contracts
			WHERE %s
		) WHERE rn = 1
		ORDER BY cap_hit DESC`, contractColumns, join(where, " AND "))

	var out []models.ContractRecord
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		r, err := scanContract(rows)
		if err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("league contracts: %w", err)
	}
	return out, nil
}

// CapCeiling returns the league cap ceiling for one season from the cap
// snapshots dataset, and ErrNotFound when the season has no snapshot.
func (db *DB) CapCeiling(ctx context.Context, season string) (float64, error) {
	query := `SELECT cap_ceiling FROM cap_snapshots WHERE season = ? ORDER BY snapshot_date DESC LIMIT 1`
	var ceiling float64
	var found bool
	err := db.queryAndScan(ctx, query, []interface{}{season}, func(rows *sql.Rows) error {
		found = true
		return rows.Scan(&ceiling)
	})
	if err != nil {
		return 0, fmt.Errorf("cap ceiling: %w", err)
	}
	if !found {
		return 0, fmt.Errorf("cap ceiling %s: %w", season, ErrNotFound)
	}
	return ceiling, nil
}

// LTIRRelief returns a team's LTIR relief pool for one season, zero when no
// snapshot row exists.
func (db *DB) LTIRRelief(ctx context.Context, team, season string) (float64, error) {
	query := `SELECT COALESCE(ltir_relief, 0) FROM cap_snapshots
		WHERE season = ? AND team_code = ? ORDER BY snapshot_date DESC LIMIT 1`
	var relief float64
	err := db.queryAndScan(ctx, query, []interface{}{season, strings.ToUpper(team)}, func(rows *sql.Rows) error {
		return rows.Scan(&relief)
	})
	if err != nil {
		return 0, fmt.Errorf("ltir relief: %w", err)
	}
	return relief, nil
}

// Trades returns recent trades touching one team, newest first. The players
// and picks columns are pipe-delimited in the dataset.
func (db *DB) Trades(ctx context.Context, team string, limit int) ([]models.TradeRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT trade_date, season, team_from, team_to, players, COALESCE(picks, ''), COALESCE(notes, '')
		FROM trades
		WHERE team_from = ? OR team_to = ?
		ORDER BY trade_date DESC
		LIMIT ?`
	code := strings.ToUpper(team)

	var out []models.TradeRecord
	err := db.queryAndScan(ctx, query, []interface{}{code, code, limit}, func(rows *sql.Rows) error {
		var r models.TradeRecord
		var players, picks string
		if err := rows.Scan(&r.TradeDate, &r.Season, &r.TeamFrom, &r.TeamTo, &players, &picks, &r.Notes); err != nil {
			return err
		}
		r.Players = splitList(players)
		r.Picks = splitList(picks)
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("trades: %w", err)
	}
	return out, nil
}

// PerformanceIndexRows returns the per-player composite index rows for one
// season, best first.
func (db *DB) PerformanceIndexRows(ctx context.Context, season string) ([]models.PerformanceIndex, error) {
	query := `SELECT player_id, season, index_value, COALESCE(rank, 0)
		FROM performance_index WHERE season = ? ORDER BY index_value DESC`

	var out []models.PerformanceIndex
	err := db.queryAndScan(ctx, query, []interface{}{season}, func(rows *sql.Rows) error {
		var r models.PerformanceIndex
		if err := rows.Scan(&r.PlayerID, &r.Season, &r.Index, &r.Rank); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("performance index: %w", err)
	}
	return out, nil
}

// Forecasts returns the quantile series for one player, season, and metric,
// ordered by game index. The dataset is produced offline and never written
// by the server.
func (db *DB) Forecasts(ctx context.Context, playerID, season, metric string) ([]models.ForecastRow, error) {
	query := `SELECT player_id, season, metric, game_idx, q10, q50, q90
		FROM forecasts
		WHERE player_id = ? AND season = ? AND metric = ?
		ORDER BY game_idx`

	var out []models.ForecastRow
	err := db.queryAndScan(ctx, query, []interface{}{playerID, season, metric}, func(rows *sql.Rows) error {
		var r models.ForecastRow
		if err := rows.Scan(&r.PlayerID, &r.Season, &r.Metric, &r.GameIdx, &r.Q10, &r.Q50, &r.Q90); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("forecasts: %w", err)
	}
	return out, nil
}

// TeamCodes returns the distinct team codes present in the team game logs.
func (db *DB) TeamCodes(ctx context.Context) ([]string, error) {
	var out []string
	err := db.queryAndScan(ctx, `SELECT DISTINCT team_code FROM team_games ORDER BY team_code`, nil,
		func(rows *sql.Rows) error {
			var code string
			if err := rows.Scan(&code); err != nil {
				return err
			}
			out = append(out, code)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("team codes: %w", err)
	}
	return out, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
