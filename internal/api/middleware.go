// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/rinkside/rinkside/internal/auth"
	"github.com/rinkside/rinkside/internal/authz"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/metrics"
)

// authenticate requires a valid bearer credential on the Authorization
// header. The resolved user is attached to the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolver.ResolveUser(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("Authentication failed")
			writeDomainError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

// authenticateMedia is the permissive variant for clip routes: media
// players cannot set headers on <video> src URLs, so a ?token= query
// credential is also accepted.
func (s *Server) authenticateMedia(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolver.ResolveUserPermissive(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("Media authentication failed")
			writeDomainError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

// authorize gates a route group on the role's resource-group grant.
// Row-level clip decisions happen later in the handlers; this check is the
// coarse one. Enforcement errors deny.
func (s *Server) authorize(resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.UserFromContext(r.Context())
			if user == nil {
				NewResponseWriter(w, r).Unauthorized("authentication required")
				return
			}
			if !s.enforcer.Allowed(user.Role, resource, authz.ActionRead) {
				logging.Ctx(r.Context()).Warn().
					Str("user", user.UserID).
					Str("role", user.Role).
					Str("resource", resource).
					Msg("Access denied")
				NewResponseWriter(w, r).Forbidden("access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// securityHeaders sets the standard response hardening headers on API
// routes.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		next.ServeHTTP(w, r)
	})
}

// corsHandler builds the CORS middleware from the configured origins. It
// must run globally so OPTIONS preflight is answered before auth.
func (s *Server) corsHandler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "x-user-timezone", "x-timezone", "x-tz"},
		ExposedHeaders: []string{"X-Request-ID", "ETag"},
		MaxAge:         300,
	})
}

// rateLimit is the default per-IP tier from configuration.
func (s *Server) rateLimit() func(http.Handler) http.Handler {
	return limitByIP(s.cfg.Server.RateLimitReqs, s.cfg.Server.RateLimitWindow)
}

// rateLimitAuth is the tight tier guarding credential endpoints.
func (s *Server) rateLimitAuth() func(http.Handler) http.Handler {
	return limitByIP(10, time.Minute)
}

// rateLimitAnalytics is the loose tier for dashboard polling surfaces.
func (s *Server) rateLimitAnalytics() func(http.Handler) http.Handler {
	reqs := s.cfg.Server.RateLimitReqs * 4
	if reqs <= 0 {
		reqs = 1200
	}
	return limitByIP(reqs, s.cfg.Server.RateLimitWindow)
}

func limitByIP(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		requests = 300
	}
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			NewResponseWriter(w, r).TooManyRequests("rate limit exceeded")
		}),
	)
}
