// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package market

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rinkside/rinkside/internal/models"
)

// Section markers inside the exported contract sheets.
const (
	sectionContracts  = "CONTRACTS"
	sectionYearByYear = "CONTRACT DETAILS - YEAR BY YEAR"
)

// ContractSheet locates the most recent dated CSV sheet for a player and
// parses its contract sections into a denormalized summary. Sheet files are
// named <player_slug>_<YYYY-MM-DD>.csv; the newest date wins.
func (s *Service) ContractSheet(playerName string) (*models.ContractSheet, error) {
	dir := s.cfg.ContractsCSVDir
	if dir == "" {
		return nil, fmt.Errorf("contract sheets not configured: %w", ErrNotFound)
	}

	slug := playerSlug(playerName)
	if slug == "" {
		return nil, fmt.Errorf("player name required: %w", ErrNotFound)
	}

	matches, err := filepath.Glob(filepath.Join(dir, slug+"_*.csv"))
	if err != nil {
		return nil, fmt.Errorf("glob contract sheets: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no contract sheet for %q: %w", playerName, ErrNotFound)
	}
	// Dated suffixes sort lexicographically.
	sort.Strings(matches)
	path := matches[len(matches)-1]

	sheet, err := parseSheet(path)
	if err != nil {
		return nil, err
	}
	sheet.PlayerName = playerName
	sheet.SourceFile = filepath.Base(path)
	summarizeSheet(sheet)
	return sheet, nil
}

func playerSlug(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.ReplaceAll(name, " ", "_")
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return -1
	}, name)
}

// parseSheet reads the sectioned CSV. Each section starts with a marker
// row, followed by a header row, followed by data rows until the next
// marker or a blank row.
func parseSheet(path string) (*models.ContractSheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contract sheet: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse contract sheet: %w", err)
	}

	sheet := &models.ContractSheet{}
	var section string
	var header []string
	for _, record := range records {
		first := ""
		if len(record) > 0 {
			first = strings.TrimSpace(record[0])
		}
		switch first {
		case sectionContracts, sectionYearByYear:
			section = first
			header = nil
			continue
		case "":
			if rowEmpty(record) {
				section, header = "", nil
				continue
			}
		}
		if section == "" {
			continue
		}
		if header == nil {
			header = make([]string, len(record))
			for i, h := range record {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			}
		}
		switch section {
		case sectionContracts:
			sheet.Contracts = append(sheet.Contracts, row)
		case sectionYearByYear:
			sheet.YearByYear = append(sheet.YearByYear, row)
		}
	}
	return sheet, nil
}

func rowEmpty(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// summarizeSheet derives the denormalized fields: current-season cap hit
// and AAV, trade-protection flags from the clause column, and years
// remaining counted from the current season.
func summarizeSheet(sheet *models.ContractSheet) {
	current := currentSeasonLabel(time.Now())
	sheet.CurrentSeason = current

	for _, c := range sheet.Contracts {
		clause := strings.ToUpper(c["CLAUSE"])
		if strings.Contains(clause, "NMC") {
			sheet.HasNMC = true
		}
		if strings.Contains(clause, "NTC") {
			sheet.HasNTC = true
		}
		if aav := parseMoney(c["AAV"]); aav > 0 && sheet.AAV == 0 {
			sheet.AAV = aav
		}
	}

	started := false
	for _, y := range sheet.YearByYear {
		season := y["SEASON"]
		if season == current {
			started = true
			sheet.CurrentCapHit = parseMoney(y["CAP HIT"])
		}
		if started {
			sheet.YearsRemaining++
		}
	}
}

// currentSeasonLabel maps a date to the "2025-26" style label the sheets
// use. Seasons roll over on July 1.
func currentSeasonLabel(now time.Time) string {
	year := now.Year()
	if now.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// parseMoney reads "$7,875,000" style values.
func parseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
