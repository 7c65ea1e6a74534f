// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/vitrine/internal/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RecordInteraction stores one interaction.
func (db *DB) RecordInteraction(ctx context.Context, in *models.Interaction) (err error) {
	start := time.Now()
	defer func() { observe("INSERT", "interactions", start, err) }()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	return insertInteraction(qctx, db.conn, in)
}

// LoadInteractions returns every interaction in insertion order. Weights
// are left zero; the engine derives them from action and value.
func (db *DB) LoadInteractions(ctx context.Context) (out []models.Interaction, err error) {
	start := time.Now()
	defer func() { observe("SELECT", "interactions", start, err) }()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(qctx,
		`SELECT id, user_id, product_id, action, value, created_at FROM interactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var in models.Interaction
		var action string
		if err := rows.Scan(&in.ID, &in.UserID, &in.ProductID, &action, &in.Value, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Action = models.Action(action)
		out = append(out, in)
	}
	return out, rows.Err()
}

func insertInteraction(ctx context.Context, ex execer, in *models.Interaction) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO interactions (id, user_id, product_id, action, value, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.ProductID, string(in.Action), in.Value, in.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert interaction %s: %w", in.ID, err)
	}
	return nil
}
