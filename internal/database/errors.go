// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/vitrine/internal/logging"
)

var (
	// ErrNotFound is returned when a lookup by id or username matches no row.
	ErrNotFound = errors.New("database: not found")

	// ErrDuplicateUsername is returned when signing up with, or renaming to,
	// a taken username.
	ErrDuplicateUsername = errors.New("database: username already exists")

	// ErrAlreadyRated is returned when a user rates the same product twice.
	ErrAlreadyRated = errors.New("database: product already rated by user")
)

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource in an error path where a close failure
// is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// isUniqueConstraintError reports whether err is a primary key or unique
// constraint violation. DuckDB reports both as "Duplicate key ... violates
// ... constraint".
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// expectOneRow maps an UPDATE that touched no row to ErrNotFound.
func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
