// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package orchestrator runs the conversational query pipeline: clarify,
// classify, fan out to tools, merge evidence, assemble analytics, persist
// the turn, and build the response envelope.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rinkside/rinkside/internal/config"
	"github.com/rinkside/rinkside/internal/convstore"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/tools"
)

// Orchestrator owns the tool registry and the conversation store.
type Orchestrator struct {
	cfg        config.OrchestratorConfig
	classifier *Classifier
	store      *convstore.Store

	mu       sync.RWMutex
	registry map[string]tools.Tool
}

// New builds an orchestrator. Tools are registered afterwards; dispatching
// an unregistered tool yields a warning, not a failure.
func New(cfg config.OrchestratorConfig, classifier *Classifier, store *convstore.Store) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		classifier: classifier,
		store:      store,
		registry:   map[string]tools.Tool{},
	}
}

// Register adds a tool to the registry.
func (o *Orchestrator) Register(t tools.Tool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.registry[t.Name()] = t
}

func (o *Orchestrator) tool(name string) (tools.Tool, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	t, ok := o.registry[name]
	return t, ok
}

// Process runs the full pipeline for one query.
func (o *Orchestrator) Process(ctx context.Context, req models.QueryRequest, user *models.User) *models.QueryResponse {
	return o.run(ctx, req, user, nil)
}

// ProcessStream runs the pipeline emitting events to sink as tools
// complete. The final_response event is always emitted last, even on
// clarification and total-failure paths.
func (o *Orchestrator) ProcessStream(ctx context.Context, req models.QueryRequest, user *models.User, sink func(models.StreamEvent)) *models.QueryResponse {
	return o.run(ctx, req, user, sink)
}

func (o *Orchestrator) run(ctx context.Context, req models.QueryRequest, user *models.User, sink func(models.StreamEvent)) *models.QueryResponse {
	start := time.Now()
	emit := func(ev models.StreamEvent) {
		if sink != nil {
			ev.Timestamp = time.Now().UTC()
			sink(ev)
		}
	}

	resp := &models.QueryResponse{
		Success:     true,
		ToolResults: []models.ToolResult{},
		UserRole:    user.Role,
		Timestamp:   time.Now().UTC(),
	}

	// Clarification gate: cooperative message, never an error.
	if needsClarification(req.Query) {
		resp.QueryType = models.QueryTypeClarification
		resp.Response = "Could you give me a bit more to work with? Try a player, team, game, or clip question."
		resp.Warnings = []string{"clarification_required"}
		resp.ProcessingTimeMS = time.Since(start).Milliseconds()
		emit(models.StreamEvent{Kind: models.StreamEventFinalResponse, Response: resp})
		return resp
	}

	plan := o.classifier.Classify(req.Query)
	resp.QueryType = plan.QueryType
	emit(models.StreamEvent{Kind: models.StreamEventStatus, Message: "classified as " + plan.QueryType})

	results := o.fanOut(ctx, plan, req, user, emit)
	resp.ToolResults = results

	o.merge(resp, results)
	o.persist(ctx, req, user, resp)

	resp.ProcessingTimeMS = time.Since(start).Milliseconds()
	emit(models.StreamEvent{Kind: models.StreamEventFinalResponse, Response: resp})
	return resp
}

// fanOut dispatches the planned tools concurrently under the global
// deadline, with a per-tool deadline inside it. Results preserve completion
// order for streaming; the returned slice is ordered by plan for
// deterministic envelopes.
func (o *Orchestrator) fanOut(ctx context.Context, plan Plan, req models.QueryRequest, user *models.User, emit func(models.StreamEvent)) []models.ToolResult {
	global := o.cfg.GlobalDeadline
	if global <= 0 {
		global = 30 * time.Second
	}
	perTool := o.cfg.ToolDeadline
	if perTool <= 0 || perTool > global {
		perTool = global
	}

	gctx, cancel := context.WithTimeout(ctx, global)
	defer cancel()

	treq := tools.Request{
		Query:    req.Query,
		User:     user,
		TeamCode: plan.TeamCode,
		PlayerID: plan.PlayerID,
		Window:   plan.Window,
	}

	var mu sync.Mutex
	byName := make(map[string]models.ToolResult, len(plan.Tools))

	g, gctx := errgroup.WithContext(gctx)
	for _, name := range plan.Tools {
		name := name
		t, ok := o.tool(name)
		if !ok {
			mu.Lock()
			byName[name] = models.ToolResult{ToolName: name, Success: false, Error: "tool not registered"}
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			tctx, tcancel := context.WithTimeout(gctx, perTool)
			defer tcancel()

			result := tools.Execute(tctx, t, treq)
			if err := tctx.Err(); err != nil && !result.Success && result.Error == "" {
				result.Error = fmt.Sprintf("tool deadline exceeded: %v", err)
			}

			mu.Lock()
			byName[name] = result
			mu.Unlock()
			emit(models.StreamEvent{Kind: models.StreamEventToolResult, ToolResult: &result})
			// Tool failures are warnings, never group failures.
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.ToolResult, 0, len(plan.Tools))
	for _, name := range plan.Tools {
		if r, ok := byName[name]; ok {
			out = append(out, r)
		}
	}
	return out
}

// merge folds tool results into the response: evidence text, deduplicated
// citations, analytics blocks, and the success/warning bookkeeping.
func (o *Orchestrator) merge(resp *models.QueryResponse, results []models.ToolResult) {
	seen := map[string]bool{}
	var clips []models.ClipSummary
	clipSeen := map[string]bool{}
	failures := 0

	for _, r := range results {
		if !r.Success {
			failures++
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("%s: %s", r.ToolName, r.Error))
			continue
		}
		for _, c := range r.Citations {
			if !seen[c] {
				seen[c] = true
				resp.Citations = append(resp.Citations, c)
			}
		}
		switch data := r.Data.(type) {
		case []models.ClipSummary:
			for _, clip := range data {
				if !clipSeen[clip.ClipID] {
					clipSeen[clip.ClipID] = true
					clips = append(clips, clip)
				}
			}
		default:
			resp.Analytics = append(resp.Analytics, blockFor(r))
			resp.Evidence = append(resp.Evidence, fmt.Sprintf("%s returned data", r.ToolName))
		}
	}

	// All clip-producing tools collapse into a single clips block.
	if len(clips) > 0 {
		resp.Analytics = append(resp.Analytics, models.AnalyticsBlock{
			Type:  models.BlockTypeClips,
			Title: "Clips",
			Clips: clips,
		})
		resp.Evidence = append(resp.Evidence, fmt.Sprintf("%d clips retrieved", len(clips)))
	}

	switch {
	case len(results) == 0:
		resp.Response = "No tools were applicable to this query."
	case failures == len(results):
		resp.Success = false
		resp.Errors = append(resp.Errors, "all tools failed")
		resp.Response = "I could not retrieve any data for that right now."
	default:
		resp.Response = summarize(resp)
	}
}

// summarize builds the plain-text answer from merged evidence.
func summarize(resp *models.QueryResponse) string {
	if len(resp.Evidence) == 0 {
		return "Done, but no supporting evidence was produced."
	}
	var b strings.Builder
	b.WriteString("Here is what I found (" + resp.QueryType + "): ")
	b.WriteString(strings.Join(resp.Evidence, "; "))
	b.WriteString(".")
	return b.String()
}

func blockFor(r models.ToolResult) models.AnalyticsBlock {
	return models.AnalyticsBlock{
		Type:    models.BlockTypeStat,
		Title:   strings.ReplaceAll(r.ToolName, "_", " "),
		Payload: r.Data,
		Metadata: map[string]interface{}{
			"tool":       r.ToolName,
			"elapsed_ms": r.ElapsedMS,
		},
	}
}

// persist appends the exchange to the conversation, creating one when the
// client did not supply an id. Persistence failures degrade to warnings.
func (o *Orchestrator) persist(ctx context.Context, req models.QueryRequest, user *models.User, resp *models.QueryResponse) {
	if o.store == nil {
		return
	}
	convID := req.ConversationID
	if convID == "" {
		conv, err := o.store.Create(ctx, user.UserID, "")
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Conversation create failed")
			resp.Warnings = append(resp.Warnings, "conversation not persisted")
			return
		}
		convID = conv.ConversationID
	}

	now := time.Now().UTC()
	_, err := o.store.AppendTurns(ctx, user.UserID, convID,
		models.Turn{Role: models.TurnRoleUser, Text: req.Query, Timestamp: now},
		models.Turn{
			Role:        models.TurnRoleAssistant,
			Text:        resp.Response,
			ToolResults: resp.ToolResults,
			Analytics:   resp.Analytics,
			Citations:   resp.Citations,
			Timestamp:   now,
		},
	)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("conversation_id", convID).Msg("Turn append failed")
		resp.Warnings = append(resp.Warnings, "conversation not persisted")
		return
	}
	resp.ConversationID = convID
}
