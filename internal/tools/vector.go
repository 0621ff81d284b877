// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rinkside/rinkside/internal/config"
	"github.com/rinkside/rinkside/internal/models"
)

// VectorHit is one retrieval hit from the external vector index.
type VectorHit struct {
	ID       string                 `json:"id"`
	Text     string                 `json:"text"`
	Score    float64                `json:"score"`
	Source   string                 `json:"source,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// VectorSearchTool queries the external vector index over HTTP. The index
// is populated by an offline ingestion pipeline; this tool only reads.
type VectorSearchTool struct {
	cfg  config.VectorConfig
	http *http.Client
}

// NewVectorSearchTool builds the tool from vector configuration.
func NewVectorSearchTool(cfg config.VectorConfig) *VectorSearchTool {
	return &VectorSearchTool{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (t *VectorSearchTool) Name() string { return "vector_search" }

type vectorQuery struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type vectorResponse struct {
	Hits []VectorHit `json:"hits"`
}

func (t *VectorSearchTool) Run(ctx context.Context, q Request) models.ToolResult {
	if t.cfg.Endpoint == "" {
		return failure(fmt.Errorf("vector backend not configured"))
	}

	topK := t.cfg.TopK
	if topK <= 0 {
		topK = 8
	}
	body, err := json.Marshal(vectorQuery{Query: q.Query, TopK: topK})
	if err != nil {
		return failure(fmt.Errorf("encode vector query: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return failure(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return failure(fmt.Errorf("vector search: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failure(fmt.Errorf("vector backend returned status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return failure(fmt.Errorf("read vector response: %w", err))
	}
	var out vectorResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return failure(fmt.Errorf("decode vector response: %w", err))
	}

	citations := make([]string, 0, len(out.Hits))
	for _, h := range out.Hits {
		if h.Source != "" {
			citations = append(citations, h.Source)
		}
	}
	return success(out.Hits, citations...)
}
