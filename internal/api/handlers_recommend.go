// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/recommend"
)

// Recommendations handles GET /api/v1/recommendations. The optional
// popularity_factor query parameter must lie in [0, 1].
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := auth.ClaimsFromContext(r.Context())

	factor := h.engine.Config().Scoring.DefaultPopularityFactor
	if raw := r.URL.Query().Get("popularity_factor"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			rw.BadRequest("popularity_factor must be a number")
			return
		}
		factor = parsed
	}

	result, err := h.engine.Recommend(r.Context(), claims.UserID, factor)
	if errors.Is(err, recommend.ErrInvalidFactor) {
		rw.BadRequest("popularity_factor must be between 0 and 1")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation failed")
		rw.InternalError("Failed to generate recommendations")
		return
	}

	rw.List(result, len(result.Items))
}
