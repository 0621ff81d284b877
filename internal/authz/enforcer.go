// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package authz provides route-group authorization using Casbin RBAC.
//
// Roles map to coarse resource groups (analytics, query, clips, market,
// scenario, team). Row-level clip access is NOT decided here; that is the
// shared clip policy function in internal/auth, applied per clip after the
// route-group check passes.
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Resource groups guarded by the enforcer.
const (
	ResourceAnalytics = "analytics"
	ResourceQuery     = "query"
	ResourceClips     = "clips"
	ResourceMarket    = "market"
	ResourceScenario  = "scenario"
	ResourceTeam      = "team"
)

// ActionRead is the only action the read-mostly API needs today.
const ActionRead = "read"

// Enforcer wraps the Casbin enforcer.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an enforcer from the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadEmbeddedPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, fmt.Errorf("failed to load casbin policy: %w", err)
	}

	return &Enforcer{enforcer: enforcer}, nil
}

func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch parts[0] {
		case "p":
			if _, err := enforcer.AddPolicy(toInterfaces(parts[1:])...); err != nil {
				return err
			}
		case "g":
			if _, err := enforcer.AddGroupingPolicy(toInterfaces(parts[1:])...); err != nil {
				return err
			}
		}
	}
	return nil
}

func toInterfaces(parts []string) []interface{} {
	out := make([]interface{}, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

// Allowed reports whether a role may perform an action on a resource group.
// Enforcement errors deny (fail closed).
func (e *Enforcer) Allowed(role, resource, action string) bool {
	ok, err := e.enforcer.Enforce(role, resource, action)
	if err != nil {
		return false
	}
	return ok
}
