// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vitrine/internal/models"
)

// CreateOrder stores an order and its purchase interactions in one
// transaction, so an order never exists without its purchases.
func (db *DB) CreateOrder(ctx context.Context, o *models.Order, purchases []models.Interaction) (err error) {
	start := time.Now()
	defer func() { observe("INSERT", "orders", start, err) }()

	productIDs, err := json.Marshal(o.ProductIDs)
	if err != nil {
		return fmt.Errorf("encode product ids: %w", err)
	}
	quantities, err := json.Marshal(o.Quantities)
	if err != nil {
		return fmt.Errorf("encode quantities: %w", err)
	}

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(qctx, nil)
	if err != nil {
		return fmt.Errorf("begin order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(qctx,
		`INSERT INTO orders (id, user_id, product_ids, quantities, product_sum, shipping_sum, total_sum, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, string(productIDs), string(quantities),
		o.ProductSum, o.ShippingSum, o.TotalSum, o.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range purchases {
		if err = insertInteraction(qctx, tx, &purchases[i]); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// ListOrders returns a user's orders, newest first.
func (db *DB) ListOrders(ctx context.Context, userID string) (orders []models.Order, err error) {
	start := time.Now()
	defer func() { observe("SELECT", "orders", start, err) }()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(qctx,
		`SELECT id, user_id, product_ids, quantities, product_sum, shipping_sum, total_sum, created_at
		 FROM orders WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			o          models.Order
			productIDs string
			quantities string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &productIDs, &quantities,
			&o.ProductSum, &o.ShippingSum, &o.TotalSum, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal([]byte(productIDs), &o.ProductIDs); err != nil {
			return nil, fmt.Errorf("decode product ids: %w", err)
		}
		if err := json.Unmarshal([]byte(quantities), &o.Quantities); err != nil {
			return nil, fmt.Errorf("decode quantities: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
