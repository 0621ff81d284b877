// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/authz"
	"github.com/rinkside/rinkside/internal/config"
	"github.com/rinkside/rinkside/internal/convstore"
	"github.com/rinkside/rinkside/internal/market"
	"github.com/rinkside/rinkside/internal/media"
	"github.com/rinkside/rinkside/internal/middleware"
	"github.com/rinkside/rinkside/internal/models"
	"github.com/rinkside/rinkside/internal/nhlapi"
	"github.com/rinkside/rinkside/internal/orchestrator"
	"github.com/rinkside/rinkside/internal/scenario"
	"github.com/rinkside/rinkside/internal/warehouse"
)

// ClipStore is the clip index surface the handlers need. *media.Repo
// implements it; tests substitute an in-memory fake.
type ClipStore interface {
	List(ctx context.Context, filter models.ClipFilter) ([]models.ClipMetadata, error)
	Get(ctx context.Context, clipID string) (*models.ClipDetail, error)
	Asset(ctx context.Context, clipID, kind string) (*models.ClipAsset, error)
	Stats(ctx context.Context) (*models.ClipStats, error)
}

// AssetSigner generates short-lived asset URLs. *media.Signer implements it.
type AssetSigner interface {
	SignAssets(ctx context.Context, assets []models.ClipAsset)
}

var _ ClipStore = (*media.Repo)(nil)
var _ AssetSigner = (*media.Signer)(nil)

// Server holds the wired engines behind the HTTP surface. Any optional
// dependency (warehouse, clips, signer) may be nil; the owning handlers
// degrade to 503 rather than panic.
type Server struct {
	cfg           *config.Config
	resolver      *auth.Resolver
	enforcer      *authz.Enforcer
	principals    *auth.PrincipalTable
	clipPolicy    auth.ClipPolicy
	orchestrator  *orchestrator.Orchestrator
	conversations *convstore.Store
	nhl           *nhlapi.Client
	warehouse     *warehouse.DB
	market        *market.Service
	scenario      *scenario.Engine
	clips         ClipStore
	signer        AssetSigner
	started       time.Time
}

// Deps bundles the constructor inputs.
type Deps struct {
	Config        *config.Config
	Resolver      *auth.Resolver
	Enforcer      *authz.Enforcer
	Principals    *auth.PrincipalTable
	ClipPolicy    auth.ClipPolicy
	Orchestrator  *orchestrator.Orchestrator
	Conversations *convstore.Store
	NHL           *nhlapi.Client
	Warehouse     *warehouse.DB
	Market        *market.Service
	Scenario      *scenario.Engine
	Clips         ClipStore
	Signer        AssetSigner
}

// NewServer builds the HTTP server surface.
func NewServer(deps Deps) *Server {
	return &Server{
		cfg:           deps.Config,
		resolver:      deps.Resolver,
		enforcer:      deps.Enforcer,
		principals:    deps.Principals,
		clipPolicy:    deps.ClipPolicy,
		orchestrator:  deps.Orchestrator,
		conversations: deps.Conversations,
		nhl:           deps.NHL,
		warehouse:     deps.Warehouse,
		market:        deps.Market,
		scenario:      deps.Scenario,
		clips:         deps.Clips,
		signer:        deps.Signer,
		started:       time.Now(),
	}
}

// Routes assembles the chi router. Route groups carry their own rate-limit
// tier; auth endpoints run a tight limiter before any credential check, and
// clip routes use the permissive resolver for media players.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.corsHandler())
	r.Use(middleware.Compression)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(securityHeaders)
		r.Get("/live", s.handleHealthLive)
		r.Get("/ready", s.handleHealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(s.rateLimitAuth())
		r.Use(securityHeaders)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.With(s.authenticate).Get("/verify", s.handleVerify)
	})

	r.Route("/api/v1/query", func(r chi.Router) {
		r.Use(s.rateLimit())
		r.Use(securityHeaders)
		r.Use(middleware.PrometheusMetrics)
		r.Use(s.authenticate)
		r.Use(s.authorize(authz.ResourceQuery))

		r.Post("/", s.handleQuery)
		r.Post("/stream", s.handleQueryStream)

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", s.handleConversationList)
			r.Post("/", s.handleConversationCreate)
			r.Get("/{id}", s.handleConversationGet)
			r.Put("/{id}", s.handleConversationRename)
			r.Delete("/{id}", s.handleConversationDelete)
		})
	})

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(s.rateLimitAnalytics())
		r.Use(securityHeaders)
		r.Use(middleware.PrometheusMetrics)
		r.Use(s.authenticate)
		r.Use(s.authorize(authz.ResourceAnalytics))

		r.Get("/players", s.handleAnalyticsPlayers)
		r.Get("/teams", s.handleAnalyticsTeams)
		r.Post("/query", s.handleAnalyticsQuery)
		r.Get("/mtl/advanced", s.handleMTLAdvanced)

		r.Route("/nhl", func(r chi.Router) {
			r.Get("/scores", s.handleNHLScores)
			r.Get("/schedule", s.handleNHLSchedule)
			r.Get("/standings", s.handleNHLStandings)
			r.Get("/leaders", s.handleNHLLeaders)
			r.Get("/game/{id}/boxscore", s.handleNHLBoxscore)
			r.Get("/game/{id}/play-by-play", s.handleNHLPlayByPlay)
			r.Get("/game/{id}/landing", s.handleNHLGameLanding)
		})
	})

	r.Route("/api/v1/clips", func(r chi.Router) {
		r.Use(s.rateLimit())
		r.Use(securityHeaders)
		r.Use(middleware.PrometheusMetrics)
		r.Use(s.authenticateMedia)
		r.Use(s.authorize(authz.ResourceClips))

		r.Get("/", s.handleClipList)
		r.Get("/stats", s.handleClipStats)
		r.Get("/{id}/metadata", s.handleClipMetadata)
		r.Get("/{id}/video", s.handleClipVideo)
		r.Get("/{id}/thumbnail", s.handleClipThumbnail)
	})

	r.Route("/api/v2/clips", func(r chi.Router) {
		r.Use(s.rateLimit())
		r.Use(securityHeaders)
		r.Use(middleware.PrometheusMetrics)
		r.Use(s.authenticateMedia)
		r.Use(s.authorize(authz.ResourceClips))

		r.Get("/", s.handleClipListSigned)
		r.Get("/{id}", s.handleClipDetailSigned)
	})

	r.Route("/api/v1/market", func(r chi.Router) {
		r.Use(s.rateLimit())
		r.Use(securityHeaders)
		r.Use(middleware.PrometheusMetrics)
		r.Use(s.authenticate)
		r.Use(s.authorize(authz.ResourceMarket))

		r.Get("/contracts", s.handleContractLookup)
		r.Get("/contracts/{playerID}", s.handleContract)
		r.Get("/sheet", s.handleContractSheet)
		r.Get("/cap/{team}", s.handleCapSummary)
		r.Get("/trades", s.handleTrades)
		r.Get("/league/overview", s.handleLeagueOverview)
		r.Get("/efficiency/{playerID}", s.handleEfficiency)
		r.Get("/comparables/{playerID}", s.handleComparables)
		r.Get("/forecast/{playerID}", s.handleForecast)
		r.Get("/depth-chart/{team}", s.handleDepthChart)
	})

	r.Route("/api/v1/team", func(r chi.Router) {
		r.Use(s.rateLimit())
		r.Use(securityHeaders)
		r.Use(middleware.PrometheusMetrics)
		r.Use(s.authenticate)
		r.Use(s.authorize(authz.ResourceTeam))

		r.Get("/{team}/advanced", s.handleTeamAdvanced)
		r.Get("/{team}/rotations", s.handleTeamRotations)
		r.Get("/game/{id}/deployments", s.handleGameDeployments)

		r.Route("/{team}/scenario", func(r chi.Router) {
			r.Use(s.authorize(authz.ResourceScenario))
			r.Post("/", s.handleScenarioSimulate)
			r.Post("/acquisition", s.handleScenarioAcquisition)
		})
	})

	return r
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

// seasonParam reads ?season= with the current season as default.
func seasonParam(r *http.Request) string {
	if season := r.URL.Query().Get("season"); season != "" {
		return season
	}
	return currentSeason(time.Now())
}
