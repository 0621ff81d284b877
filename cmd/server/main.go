// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package main is the entry point for the Rinkside server.
//
// Rinkside is a hockey-operations analytics backend: a natural-language
// query pipeline over NHL live data, a columnar advanced-stats warehouse,
// a video clip index with policy-scoped access, and contract market and
// roster scenario tooling.
//
// The server initializes components in the following order:
//
//  1. Configuration: koanf v2 over defaults, config.yaml, and RINKSIDE_* env
//  2. NHL API client: rate-limited, circuit-broken upstream proxy
//  3. Warehouse: DuckDB over Parquet datasets (optional; degrades to 503s)
//  4. Conversation store: BadgerDB-backed query history
//  5. Media: Postgres clip index and S3 URL signer (both optional)
//  6. Orchestrator: query classifier plus the tool fan-out set
//  7. Auth: bcrypt principal table, casbin role enforcer
//  8. HTTP server and cache janitor under a suture supervision tree
//
// Optional components log a warning and leave their API surface answering
// 503; the process only refuses to start when config, conversations, or
// the authorization model fail.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rinkside/rinkside/internal/api"
	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/authz"
	"github.com/rinkside/rinkside/internal/cache"
	"github.com/rinkside/rinkside/internal/config"
	"github.com/rinkside/rinkside/internal/convstore"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/market"
	"github.com/rinkside/rinkside/internal/media"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/nhlapi"
	"github.com/rinkside/rinkside/internal/orchestrator"
	"github.com/rinkside/rinkside/internal/scenario"
	"github.com/rinkside/rinkside/internal/supervisor"
	"github.com/rinkside/rinkside/internal/tools"
	"github.com/rinkside/rinkside/internal/warehouse"
)

// playerAliases seeds the classifier's surname lookup for the club the
// deployment centers on. Unknown names still classify; they just skip the
// player-profile tool.
var playerAliases = map[string]string{
	"suzuki":       "8480018",
	"caufield":     "8481540",
	"slafkovsky":   "8484166",
	"hutson":       "8483457",
	"demidov":      "8484984",
	"matheson":     "8477406",
	"guhle":        "8482087",
	"montembeault": "8478470",
	"dach":         "8481523",
	"newhook":      "8481618",
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rinkside: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Msg("Starting Rinkside")

	appCache := cache.New(cfg.Cache.DefaultTTL)
	nhl := nhlapi.New(cfg.NHL, cfg.Cache, appCache)

	wh, err := warehouse.Open(cfg.Warehouse)
	if err != nil {
		logging.Warn().Err(err).Msg("Warehouse unavailable; analytics and market surfaces degrade to 503")
		wh = nil
	} else {
		defer wh.Close()
	}

	conversations, err := convstore.Open(cfg.Orchestrator.ConversationDir)
	if err != nil {
		return fmt.Errorf("open conversation store: %w", err)
	}
	defer conversations.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var clipRepo *media.Repo
	if cfg.Media.DatabaseURL != "" {
		clipRepo, err = media.OpenRepo(ctx, cfg.Media.DatabaseURL)
		if err != nil {
			logging.Warn().Err(err).Msg("Clip index unavailable; clip surfaces degrade to 503")
			clipRepo = nil
		} else {
			defer clipRepo.Close()
		}
	}

	var signer *media.Signer
	if clipRepo != nil && cfg.Media.Bucket != "" {
		signer, err = media.NewSigner(ctx, cfg.Media)
		if err != nil {
			logging.Warn().Err(err).Msg("URL signer unavailable; v2 clip surfaces degrade to 503")
			signer = nil
		}
	}

	marketSvc := market.NewService(wh, cfg.Warehouse)
	engine := scenario.NewEngine(models.CapRules{})
	clipPolicy := auth.ClipPolicy{OverrideAll: cfg.Auth.ClipsOpenAccess}

	orch := orchestrator.New(cfg.Orchestrator,
		orchestrator.NewClassifier(playerAliases, cfg.Orchestrator.DefaultWindow),
		conversations)
	orch.Register(tools.NewLiveStatsTool(nhl))
	orch.Register(tools.NewPlayerProfileTool(nhl))
	orch.Register(tools.NewAdvancedMetricsTool(wh, cfg.Orchestrator.DefaultWindow))
	orch.Register(tools.NewRivalThreatTool(wh, cfg.Orchestrator.DefaultWindow))
	orch.Register(tools.NewMarketContextTool(marketSvc, currentSeason(time.Now())))
	orch.Register(tools.NewClipSearchTool(clipRepo, &clipPolicy))
	orch.Register(tools.NewVectorSearchTool(cfg.Vector))

	principals := auth.NewPrincipalTable()
	if cfg.Auth.PrincipalsFile != "" {
		if err := auth.LoadPrincipalsFile(principals, cfg.Auth.PrincipalsFile); err != nil {
			return fmt.Errorf("load principals: %w", err)
		}
	} else {
		if err := auth.SeedDevPrincipals(principals); err != nil {
			return fmt.Errorf("seed principals: %w", err)
		}
		logging.Warn().Msg("No principals file configured; using built-in dev principals")
	}

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return fmt.Errorf("build authorization enforcer: %w", err)
	}

	deps := api.Deps{
		Config:        cfg,
		Resolver:      auth.NewResolver(principals, cfg.Auth.ClipsOpenAccess),
		Enforcer:      enforcer,
		Principals:    principals,
		ClipPolicy:    clipPolicy,
		Orchestrator:  orch,
		Conversations: conversations,
		NHL:           nhl,
		Warehouse:     wh,
		Market:        marketSvc,
		Scenario:      engine,
	}
	// Interface fields stay nil unless the concrete component exists; a
	// typed nil would defeat the handlers' availability checks.
	if clipRepo != nil {
		deps.Clips = clipRepo
	}
	if signer != nil {
		deps.Signer = signer
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewServer(deps).Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(supervisor.DefaultTreeConfig())
	tree.AddAPIService(&supervisor.HTTPServerService{
		Server:          httpServer,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddMaintenanceService(&supervisor.CacheJanitorService{
		Cache:    appCache,
		Interval: cfg.Cache.JanitorSweep,
	})
	if wh != nil {
		tree.AddMaintenanceService(&supervisor.DatasetRefreshService{Warehouse: wh})
	}

	logging.Info().Str("addr", httpServer.Addr).Msg("Rinkside listening")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervision tree: %w", err)
	}
	logging.Info().Msg("Rinkside stopped")
	return nil
}

// currentSeason derives the eight-digit season label; seasons roll over on
// July 1.
func currentSeason(now time.Time) string {
	year := now.Year()
	if now.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d%d", year, year+1)
}
