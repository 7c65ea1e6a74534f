// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package database is the DuckDB-backed entity store.

It persists users, products, ratings, interactions and orders, and
implements recommend.EntityStore so the recommendation engine can load a
full snapshot at startup and on periodic reload.

# Schema

	users            id, username (unique), password_hash, age, gender,
	                 favorite_colors, favorite_categories, created_at
	products         id, name, category, color, price, image, created_at
	product_ratings  (product_id, user_id) primary key, rating
	interactions     id, user_id, product_id, action, value, created_at
	orders           id, user_id, product_ids, quantities, sums, created_at

List columns are stored as JSON text. Every entity table carries a seq
column filled from a sequence so loads return rows in insertion order.

Schema changes go through versioned migrations recorded in
schema_migrations. Migrations are append-only.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	users, err := db.LoadUsers(ctx)

# Errors

ErrNotFound, ErrDuplicateUsername and ErrAlreadyRated are returned for the
expected failure cases and should be checked with errors.Is. Everything
else is wrapped with the failing operation.

Every query is timed into the duckdb_query_duration_seconds histogram.
*/
package database
