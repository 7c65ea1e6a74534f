// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package recommend ranks storefront products for a shopper by combining
// observed behavior with declared preferences and item popularity.
//
// # Pipeline
//
// Every mutation runs the same three stages from scratch:
//
//   - Feature engineering: gender label codes, min-max scaled ages (missing
//     ages imputed with the median) and min-max scaled prices.
//   - Matrix build: interactions are summed per (user, product), joined with
//     the user's favorites and the product attributes, adjusted, and pivoted
//     into a dense affinity matrix. Rows are then normalized twice into the
//     preference and similarity matrices.
//   - Scoring: the user's similarity row is sorted descending and blended
//     with product popularity.
//
// Interaction weights:
//
//	click     0.5
//	purchase  1.0
//	rate      rating - 2
//
// Adjusted weight:
//
//	sum + 0.5*[color is favorite] + 0.5*[category is favorite] - 0.1*price_scaled
//
// # Ordering
//
// Matrix rows and columns are ordered by id. Results are ordered by
// preference score with ties kept in column order. The blended
// recommendation score is reported on each item but does not reorder the
// list.
//
// # Cold Start
//
// A user with no interactions has no similarity row. Recommend then returns
// the full catalog in insertion order without scores and sets
// Result.ColdStart.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Load(ctx, recommend.NewResilientStore(db, "entity-store", logger)); err != nil {
//	    return err
//	}
//
//	result, err := engine.Recommend(ctx, userID, 0.5)
//
// # Thread Safety
//
// The engine is safe for concurrent use. A single mutex guards all tables and
// matrices and every exported method holds it for its full duration, so a
// reader never sees a half-built matrix.
//
// Gender codes are recomputed on every pass and are not stable across
// rebuilds. Do not persist them.
package recommend
