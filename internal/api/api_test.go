// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/authz"
	"github.com/rinkside/rinkside/internal/config"
	"github.com/rinkside/rinkside/internal/convstore"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/orchestrator"
	"github.com/rinkside/rinkside/internal/scenario"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
		},
		Auth: config.AuthConfig{TokenTTL: time.Hour},
		Orchestrator: config.OrchestratorConfig{
			GlobalDeadline: 5 * time.Second,
			ToolDeadline:   2 * time.Second,
			DefaultWindow:  10,
		},
		Cache: config.CacheConfig{
			Standings:    2 * time.Minute,
			TeamAdvanced: 10 * time.Minute,
			CapSnapshots: 10 * time.Minute,
		},
		Media: config.MediaConfig{LocalMediaDir: t.TempDir()},
	}
}

// newTestServer wires a server with seeded dev principals, a file-backed
// conversation store, and no warehouse or clip index. Tests that need clips
// swap in a fake store via the returned *Server before building routes.
func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cfg := testConfig(t)

	table := auth.NewPrincipalTable()
	if err := auth.SeedDevPrincipals(table); err != nil {
		t.Fatalf("seed principals: %v", err)
	}
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}
	store, err := convstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("convstore: %v", err)
	}

	orch := orchestrator.New(cfg.Orchestrator, orchestrator.NewClassifier(nil, cfg.Orchestrator.DefaultWindow), store)

	srv := NewServer(Deps{
		Config:        cfg,
		Resolver:      auth.NewResolver(table, cfg.Auth.ClipsOpenAccess),
		Enforcer:      enforcer,
		Principals:    table,
		ClipPolicy:    auth.ClipPolicy{OverrideAll: cfg.Auth.ClipsOpenAccess},
		Orchestrator:  orch,
		Conversations: store,
		Scenario:      scenario.NewEngine(models.CapRules{}),
	})
	return srv, srv.Routes()
}

func bearer(username, secret string) string {
	return "Bearer " + auth.EncodeToken(username, secret)
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var env models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func TestLoginAndVerify(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "coach_martin",
		"password": "coach-dev-secret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var login models.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if !login.Success || login.AccessToken == "" {
		t.Fatalf("login = %+v, want success with token", login)
	}
	if login.UserInfo.Role != models.RoleCoach {
		t.Errorf("role = %q, want coach", login.UserInfo.Role)
	}
	if login.ExpiresIn != 3600 {
		t.Errorf("expires_in = %d, want 3600", login.ExpiresIn)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/auth/verify", "Bearer "+login.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("verify envelope = %+v, want success", env)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "coach_martin",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got == "" {
		t.Error("missing WWW-Authenticate challenge on 401")
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil || env.Error.Code != ErrCodeUnauthorized {
		t.Fatalf("envelope = %+v, want UNAUTHORIZED error", env)
	}
}

func TestMissingTokenChallenge(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/query/conversations", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got == "" {
		t.Error("missing WWW-Authenticate challenge on 401")
	}
}

func TestScoutDeniedScenario(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/team/MTL/scenario/", bearer("scout_tremblay", "scout-dev-secret"), map[string]interface{}{
		"actions": []map[string]interface{}{{"type": "buyout", "player_id": "1"}},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != ErrCodeForbidden {
		t.Fatalf("envelope = %+v, want FORBIDDEN", env)
	}
}

func TestScenarioSimulateWithExplicitRoster(t *testing.T) {
	_, h := newTestServer(t)

	body := map[string]interface{}{
		"roster": []models.RosterPlayer{
			{PlayerID: "p1", PlayerName: "Top Center", Position: "C", CapHit: 9_000_000, RosterStatus: models.RosterStatusNHL, Age: 27},
			{PlayerID: "p2", PlayerName: "Second Pair", Position: "D", CapHit: 4_500_000, RosterStatus: models.RosterStatusNHL, Age: 25},
		},
		"actions": []models.ScenarioAction{
			{Type: "trade_away", PlayerID: "p2"},
		},
	}
	rec := doJSON(t, h, http.MethodPost, "/api/v1/team/MTL/scenario/", bearer("coach_martin", "coach-dev-secret"), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Data == nil {
		t.Fatalf("envelope = %+v, want success with data", env)
	}
}

func TestScenarioTeamAccessDenied(t *testing.T) {
	_, h := newTestServer(t)

	// Coach only holds MTL access.
	rec := doJSON(t, h, http.MethodPost, "/api/v1/team/TOR/scenario/", bearer("coach_martin", "coach-dev-secret"), map[string]interface{}{
		"actions": []models.ScenarioAction{{Type: "buyout", PlayerID: "p1"}},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestConversationLifecycle(t *testing.T) {
	_, h := newTestServer(t)
	coach := bearer("coach_martin", "coach-dev-secret")
	analyst := bearer("analyst_dubois", "analyst-dev-secret")

	rec := doJSON(t, h, http.MethodPost, "/api/v1/query/conversations", coach, map[string]string{"title": "Power play review"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	var conv models.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		t.Fatalf("decode conversation: %v", err)
	}
	if conv.ConversationID == "" {
		t.Fatal("conversation id is empty")
	}

	// Another principal's id reads as not found, never forbidden.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/query/conversations/"+conv.ConversationID, analyst, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user get status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPut, "/api/v1/query/conversations/"+conv.ConversationID, coach, map[string]string{"title": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank rename status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPut, "/api/v1/query/conversations/"+conv.ConversationID, coach, map[string]string{"title": "PP review v2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rename status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/query/conversations/"+conv.ConversationID, coach, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/query/conversations/"+conv.ConversationID, coach, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestQueryClarificationGate(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/query", bearer("coach_martin", "coach-dev-secret"), map[string]string{"query": "hi"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp models.QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode query response: %v", err)
	}
	if !resp.Success {
		t.Error("clarification must keep success=true")
	}
	if resp.QueryType != models.QueryTypeClarification {
		t.Errorf("query_type = %q, want clarification", resp.QueryType)
	}
	found := false
	for _, wrn := range resp.Warnings {
		if wrn == "clarification_required" {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want clarification_required", resp.Warnings)
	}
}

func TestQueryRejectsEmptyAndOversized(t *testing.T) {
	_, h := newTestServer(t)
	coach := bearer("coach_martin", "coach-dev-secret")

	rec := doJSON(t, h, http.MethodPost, "/api/v1/query", coach, map[string]string{"query": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty query status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/v1/query", coach, map[string]string{"query": strings.Repeat("x", maxQueryLength+1)})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversized query status = %d, want 400", rec.Code)
	}
}

func TestQueryStreamEmitsFinalResponse(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/query/stream", bearer("coach_martin", "coach-dev-secret"), map[string]string{"query": "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q, want text/event-stream", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "data: ") {
		t.Fatalf("body %q does not look like SSE", body)
	}
	lines := strings.Split(strings.TrimSpace(body), "\n\n")
	last := strings.TrimPrefix(lines[len(lines)-1], "data: ")

	var ev models.StreamEvent
	if err := json.Unmarshal([]byte(last), &ev); err != nil {
		t.Fatalf("decode final event: %v (%q)", err, last)
	}
	if ev.Kind != models.StreamEventFinalResponse {
		t.Errorf("last event kind = %q, want %q", ev.Kind, models.StreamEventFinalResponse)
	}
	if ev.Response == nil || !ev.Response.Success {
		t.Errorf("final event response = %+v, want success", ev.Response)
	}
}

func TestHealthEndpointsOpen(t *testing.T) {
	_, h := newTestServer(t)

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		rec := doJSON(t, h, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if !env.Success {
			t.Errorf("%s envelope not successful", path)
		}
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/health/live", "", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestCurrentSeasonRollsOverInJuly(t *testing.T) {
	if got := currentSeason(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)); got != "20252026" {
		t.Errorf("march season = %q, want 20252026", got)
	}
	if got := currentSeason(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)); got != "20262027" {
		t.Errorf("july season = %q, want 20262027", got)
	}
}
