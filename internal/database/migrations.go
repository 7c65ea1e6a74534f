// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package database

import (
	"context"
	"fmt"
	"time"
)

// Migration represents a versioned schema change.
type Migration struct {
	Version   int
	Name      string
	SQL       []string
	AppliedAt time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL
);`

// migrations is append-only. Never edit or remove an entry once released.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		SQL: []string{
			`CREATE SEQUENCE IF NOT EXISTS users_seq START 1`,
			`CREATE SEQUENCE IF NOT EXISTS products_seq START 1`,
			`CREATE SEQUENCE IF NOT EXISTS interactions_seq START 1`,
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				seq BIGINT NOT NULL DEFAULT nextval('users_seq'),
				username TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				age INTEGER,
				gender TEXT NOT NULL,
				favorite_colors TEXT NOT NULL,
				favorite_categories TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS products (
				id TEXT PRIMARY KEY,
				seq BIGINT NOT NULL DEFAULT nextval('products_seq'),
				name TEXT NOT NULL,
				category TEXT NOT NULL,
				color TEXT NOT NULL,
				price BIGINT NOT NULL,
				image TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS product_ratings (
				product_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				rating INTEGER NOT NULL,
				created_at TIMESTAMP NOT NULL,
				PRIMARY KEY (product_id, user_id)
			)`,
			`CREATE TABLE IF NOT EXISTS interactions (
				id TEXT PRIMARY KEY,
				seq BIGINT NOT NULL DEFAULT nextval('interactions_seq'),
				user_id TEXT NOT NULL,
				product_id TEXT NOT NULL,
				action TEXT NOT NULL,
				value INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS orders (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				product_ids TEXT NOT NULL,
				quantities TEXT NOT NULL,
				product_sum BIGINT NOT NULL,
				shipping_sum BIGINT NOT NULL,
				total_sum BIGINT NOT NULL,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id)`,
		},
	},
}

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// runMigrations applies every migration not yet recorded in
// schema_migrations, each in its own transaction.
func (db *DB) runMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		db.logger.Info().Int("version", m.Version).Str("name", m.Name).Msg("Applied migration")
	}
	return nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.SQL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		m.Version, m.Name, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

// AppliedMigrations returns the recorded migrations, oldest first.
func (db *DB) AppliedMigrations(ctx context.Context) ([]Migration, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT version, name, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []Migration
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
