// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/vitrine/internal/models"
)

const productColumns = `id, name, category, color, price, image, created_at`

// CreateProduct inserts a new product.
func (db *DB) CreateProduct(ctx context.Context, p *models.Product) (err error) {
	start := time.Now()
	defer func() { observe("INSERT", "products", start, err) }()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(qctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Category, p.Color, p.Price, p.Image, p.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct writes the catalog attributes of an existing product.
// Ratings and creation time are left alone. An unknown id returns ErrNotFound.
func (db *DB) UpdateProduct(ctx context.Context, p *models.Product) (err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrNotFound) {
			observe("UPDATE", "products", start, nil)
			return
		}
		observe("UPDATE", "products", start, err)
	}()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(qctx,
		`UPDATE products SET name = ?, category = ?, color = ?, price = ?, image = ? WHERE id = ?`,
		p.Name, p.Category, p.Color, p.Price, p.Image, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectOneRow(res, "update product")
}

// GetProduct returns a product with its ratings.
func (db *DB) GetProduct(ctx context.Context, id string) (p *models.Product, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrNotFound) {
			observe("SELECT", "products", start, nil)
			return
		}
		observe("SELECT", "products", start, err)
	}()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	p, err = scanProduct(db.conn.QueryRowContext(qctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	rows, err := db.conn.QueryContext(qctx, `SELECT user_id, rating FROM product_ratings WHERE product_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get product ratings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var userID string
		var rating int
		if err := rows.Scan(&userID, &rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		p.Ratings[userID] = rating
	}
	return p, rows.Err()
}

// LoadProducts returns every product with its ratings, in insertion order.
func (db *DB) LoadProducts(ctx context.Context) (products []models.Product, err error) {
	start := time.Now()
	defer func() { observe("SELECT", "products", start, err) }()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(qctx, `SELECT `+productColumns+` FROM products ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	defer closeWithLog(rows, "rows")

	index := make(map[string]int)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		index[p.ID] = len(products)
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ratings, err := db.conn.QueryContext(qctx, `SELECT product_id, user_id, rating FROM product_ratings`)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	defer closeWithLog(ratings, "rows")

	for ratings.Next() {
		var productID, userID string
		var rating int
		if err := ratings.Scan(&productID, &userID, &rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		if i, ok := index[productID]; ok {
			products[i].Ratings[userID] = rating
		}
	}
	return products, ratings.Err()
}

// AddRating stores a rating together with its rate interaction in one
// transaction. A second rating by the same user returns ErrAlreadyRated.
func (db *DB) AddRating(ctx context.Context, in *models.Interaction) (err error) {
	start := time.Now()
	defer func() { observe("INSERT", "product_ratings", start, err) }()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(qctx, nil)
	if err != nil {
		return fmt.Errorf("begin rating: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(qctx,
		`SELECT COUNT(*) FROM product_ratings WHERE product_id = ? AND user_id = ?`,
		in.ProductID, in.UserID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check rating: %w", err)
	}
	if exists > 0 {
		return ErrAlreadyRated
	}

	if _, err = tx.ExecContext(qctx,
		`INSERT INTO product_ratings (product_id, user_id, rating, created_at) VALUES (?, ?, ?, ?)`,
		in.ProductID, in.UserID, in.Value, in.CreatedAt.UTC()); err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyRated
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	if err = insertInteraction(qctx, tx, in); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyRated
		}
		return fmt.Errorf("commit rating: %w", err)
	}
	return nil
}

func scanProduct(s rowScanner) (*models.Product, error) {
	p := models.Product{Ratings: make(map[string]int)}
	if err := s.Scan(&p.ID, &p.Name, &p.Category, &p.Color, &p.Price, &p.Image, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
