// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import "errors"

var (
	// ErrInvalidFeatureInput is returned when a user age or product price
	// is negative. The engine state is left unchanged.
	ErrInvalidFeatureInput = errors.New("recommend: invalid feature input")

	// ErrInvalidFactor is returned when a popularity factor is outside [0, 1].
	ErrInvalidFactor = errors.New("recommend: popularity factor must be in [0, 1]")

	// ErrDuplicateID is returned when an entity with the same id is
	// already held by the engine.
	ErrDuplicateID = errors.New("recommend: duplicate id")

	// ErrStoreUnavailable is returned when the entity store circuit is open.
	ErrStoreUnavailable = errors.New("recommend: entity store unavailable")
)
