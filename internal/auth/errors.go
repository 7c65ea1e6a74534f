// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package auth

import "errors"

var (
	// ErrInvalidToken is returned for malformed, expired or forged tokens.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrTokenRevoked is returned for a token whose jti was logged out.
	ErrTokenRevoked = errors.New("auth: token revoked")

	// ErrInvalidCredentials is returned when a username or password does not match.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrRevocationStoreClosed is returned after Close.
	ErrRevocationStoreClosed = errors.New("auth: revocation store is closed")
)
