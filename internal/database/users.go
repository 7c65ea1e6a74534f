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

	"github.com/goccy/go-json"

	"github.com/tomtom215/vitrine/internal/models"
)

const userColumns = `id, username, password_hash, age, gender, favorite_colors, favorite_categories, created_at`

// CreateUser inserts a new user. A taken username returns ErrDuplicateUsername.
func (db *DB) CreateUser(ctx context.Context, u *models.User) (err error) {
	start := time.Now()
	defer func() { observe("INSERT", "users", start, err) }()

	colors, err := json.Marshal(u.FavoriteColors)
	if err != nil {
		return fmt.Errorf("encode favorite colors: %w", err)
	}
	categories, err := json.Marshal(u.FavoriteCategories)
	if err != nil {
		return fmt.Errorf("encode favorite categories: %w", err)
	}

	var age sql.NullInt64
	if u.Age != nil {
		age = sql.NullInt64{Int64: int64(*u.Age), Valid: true}
	}

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(qctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, age, u.Gender, string(colors), string(categories), u.CreatedAt.UTC())
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateUser writes the username and password hash of an existing user.
// Profile fields captured at signup are immutable. A taken username returns
// ErrDuplicateUsername and an unknown id returns ErrNotFound.
func (db *DB) UpdateUser(ctx context.Context, u *models.User) (err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateUsername) {
			observe("UPDATE", "users", start, nil)
			return
		}
		observe("UPDATE", "users", start, err)
	}()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(qctx,
		`UPDATE users SET username = ?, password_hash = ? WHERE id = ?`,
		u.Username, u.PasswordHash, u.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("update user: %w", err)
	}
	return expectOneRow(res, "update user")
}

// GetUser returns a user by id.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	return db.getUserWhere(ctx, "id", id)
}

// GetUserByUsername returns a user by username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.getUserWhere(ctx, "username", username)
}

// column is one of the fixed identifiers above, never user input.
func (db *DB) getUserWhere(ctx context.Context, column, value string) (u *models.User, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrNotFound) {
			observe("SELECT", "users", start, nil)
			return
		}
		observe("SELECT", "users", start, err)
	}()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(qctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)
	u, err = scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// LoadUsers returns every user in insertion order.
func (db *DB) LoadUsers(ctx context.Context) (users []models.User, err error) {
	start := time.Now()
	defer func() { observe("SELECT", "users", start, err) }()

	qctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(qctx, `SELECT `+userColumns+` FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*models.User, error) {
	var (
		u          models.User
		age        sql.NullInt64
		colors     string
		categories string
	)
	if err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &age, &u.Gender, &colors, &categories, &u.CreatedAt); err != nil {
		return nil, err
	}
	if age.Valid {
		a := int(age.Int64)
		u.Age = &a
	}
	if err := json.Unmarshal([]byte(colors), &u.FavoriteColors); err != nil {
		return nil, fmt.Errorf("decode favorite colors: %w", err)
	}
	if err := json.Unmarshal([]byte(categories), &u.FavoriteCategories); err != nil {
		return nil, fmt.Errorf("decode favorite categories: %w", err)
	}
	return &u, nil
}
