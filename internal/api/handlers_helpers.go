// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/recommend"
	"github.com/tomtom215/vitrine/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body into dst and validates it. On failure
// it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	rw := NewResponseWriter(w, r)

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		rw.BadRequest("Invalid JSON body: " + sanitizeLogValue(err.Error()))
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// engineContext detaches ctx from request cancellation. Once a write is
// committed the engine must see it even if the client has gone away.
func engineContext(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// applied handles the result of handing a persisted entity to the engine.
// A duplicate id means a reload already picked the entity up.
func applied(ctx context.Context, kind, id string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrDuplicateID):
		logging.Ctx(ctx).Debug().Str("kind", kind).Str("id", id).Msg("Entity already present in engine")
	default:
		logging.Ctx(ctx).Error().Err(err).Str("kind", kind).Str("id", id).
			Msg("Engine update failed; entity will be picked up on next reload")
	}
}

// can reports whether the caller's role may perform action on object.
func (h *Handler) can(claims *auth.Claims, object, action string) bool {
	if claims == nil {
		return false
	}
	ok, err := h.authorizer.Allowed(claims.Role, object, action)
	if err != nil {
		logging.Error().Err(err).Msg("Authorization check failed")
		return false
	}
	return ok
}

func urlParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// sanitizeLogValue escapes control characters so client input cannot forge
// log lines or break error messages.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
