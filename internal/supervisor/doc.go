// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package supervisor builds the suture supervision tree that runs the
// server's long-lived services.
//
// The tree has two layers under a root supervisor:
//
//	vitrine
//	├── engine-layer   (periodic engine reload)
//	└── api-layer      (HTTP server, login limiter cleanup)
//
// A crashing reload loop is restarted with backoff without touching the
// HTTP server, which keeps serving the last good engine state.
//
// Supervisor events are logged through sutureslog, using the slog bridge
// from the logging package so they land in the same zerolog output.
package supervisor
