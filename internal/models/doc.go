// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package models defines the shared data structures for Rinkside: users and
// roles, conversations and turns, tool results and analytics blocks, clip
// metadata and assets, market/contract rows, scenario types, and the
// normalized upstream NHL shapes.
//
// Types here are plain data carriers; behavior lives in the packages that
// own the corresponding state (convstore, media, warehouse, orchestrator).
package models
