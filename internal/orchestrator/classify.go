// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package orchestrator

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rinkside/rinkside/internal/models"
)

// greetings that trip the clarification gate on their own.
var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "yo": true, "sup": true,
	"thanks": true, "thank you": true, "ok": true, "okay": true,
}

// needsClarification reports whether a query is too thin to dispatch tools
// for: empty, at most two characters, punctuation only, or a bare greeting.
func needsClarification(query string) bool {
	q := strings.TrimSpace(query)
	if len(q) <= 2 {
		return true
	}
	hasLetter := false
	for _, r := range q {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return true
	}
	return greetings[strings.ToLower(strings.TrimRight(q, "!?. "))]
}

// Plan is the classifier output: a query type, the tools to fan out to,
// and the entities extracted from the text.
type Plan struct {
	QueryType string
	Tools     []string
	TeamCode  string
	PlayerID  string
	Window    int
}

// classifier keyword tables, checked in priority order.
var queryTypeCues = []struct {
	qtype string
	cues  []string
}{
	{models.QueryTypeClipRetrieval, []string{"clip", "clips", "video", "watch", "show me", "highlight"}},
	{models.QueryTypeMatchup, []string{"matchup", "versus", " vs ", "against", "head-to-head"}},
	{models.QueryTypeGameAnalysis, []string{"last game", "tonight", "game recap", "boxscore", "score"}},
	{models.QueryTypeTactical, []string{"power play", "penalty kill", "forecheck", "zone entry", "deployment", "line combination"}},
	{models.QueryTypeTeamAnalytics, []string{"team", "trends", "standings", "division", "rivals", "cap space", "contract"}},
	{models.QueryTypeStatistical, []string{"leaders", "league", "percentile", "rank", "compare"}},
}

var teamAliases = map[string]string{
	"canadiens": "MTL", "habs": "MTL", "montreal": "MTL", "mtl": "MTL",
	"maple leafs": "TOR", "leafs": "TOR", "toronto": "TOR", "tor": "TOR",
	"bruins": "BOS", "boston": "BOS", "bos": "BOS",
	"senators": "OTT", "ottawa": "OTT", "ott": "OTT",
	"sabres": "BUF", "buffalo": "BUF", "buf": "BUF",
	"red wings": "DET", "detroit": "DET", "det": "DET",
	"lightning": "TBL", "tampa": "TBL", "tbl": "TBL",
	"panthers": "FLA", "florida": "FLA", "fla": "FLA",
	"oilers": "EDM", "edmonton": "EDM", "edm": "EDM",
	"rangers": "NYR", "nyr": "NYR",
}

var windowRe = regexp.MustCompile(`last\s+(\d{1,2})\s+games`)

// Classifier maps query text to a tool plan. Player aliases are injected so
// the roster table lives with its owner, not in this package.
type Classifier struct {
	playerAliases map[string]string
	defaultWindow int
}

// NewClassifier builds a classifier. playerAliases maps lowercase surname
// or full name to NHL player id.
func NewClassifier(playerAliases map[string]string, defaultWindow int) *Classifier {
	if defaultWindow <= 0 {
		defaultWindow = 10
	}
	return &Classifier{playerAliases: playerAliases, defaultWindow: defaultWindow}
}

// Classify infers the query type and tool plan from lexical cues.
func (c *Classifier) Classify(query string) Plan {
	q := " " + strings.ToLower(strings.TrimSpace(query)) + " "

	plan := Plan{QueryType: models.QueryTypePlayerPerformance, Window: c.defaultWindow}
	for _, entry := range queryTypeCues {
		if containsAny(q, entry.cues) {
			plan.QueryType = entry.qtype
			break
		}
	}

	for alias, code := range teamAliases {
		if strings.Contains(q, alias) {
			plan.TeamCode = code
			break
		}
	}
	for alias, id := range c.playerAliases {
		if strings.Contains(q, alias) {
			plan.PlayerID = id
			break
		}
	}
	if m := windowRe.FindStringSubmatch(q); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			plan.Window = n
		}
	}

	plan.Tools = toolsFor(plan)
	return plan
}

// toolsFor selects the fan-out set per query type. Vector search rides
// along on every dispatch for narrative evidence.
func toolsFor(plan Plan) []string {
	switch plan.QueryType {
	case models.QueryTypeClipRetrieval:
		return []string{"clip_search", "vector_search"}
	case models.QueryTypeTeamAnalytics:
		return []string{"advanced_metrics", "rival_threat", "market_context", "vector_search"}
	case models.QueryTypeMatchup:
		return []string{"advanced_metrics", "rival_threat", "live_stats", "vector_search"}
	case models.QueryTypeGameAnalysis:
		return []string{"live_stats", "advanced_metrics", "vector_search"}
	case models.QueryTypeTactical:
		return []string{"advanced_metrics", "clip_search", "vector_search"}
	case models.QueryTypeStatistical:
		return []string{"live_stats", "advanced_metrics", "vector_search"}
	default: // player performance
		tools := []string{"advanced_metrics", "vector_search"}
		if plan.PlayerID != "" {
			tools = append(tools, "player_profile", "clip_search")
		}
		return tools
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
