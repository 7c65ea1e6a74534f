// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package services adapts long-running components to suture.Service so
// the supervisor tree can start, restart and stop them.
//
//   - HTTPServerService runs the API server and shuts it down gracefully.
//   - ReloadService periodically refreshes the recommendation engine from
//     the database.
//
// The login limiter in the auth package implements suture.Service itself
// and is added to the tree directly.
package services
