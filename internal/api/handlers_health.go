// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/vitrine/internal/recommend"
)

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status      string           `json:"status"` // healthy or degraded
	Database    bool             `json:"database"`
	Engine      recommend.Status `json:"engine"`
	Environment string           `json:"environment"`
	Uptime      float64          `json:"uptime_seconds"`
}

// Health reports database connectivity and engine state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbOK := h.pingStore(r.Context())
	status := "healthy"
	if !dbOK {
		status = "degraded"
	}

	NewResponseWriter(w, r).Success(HealthResponse{
		Status:      status,
		Database:    dbOK,
		Engine:      h.engine.Status(),
		Environment: h.environment,
		Uptime:      time.Since(h.startTime).Seconds(),
	})
}

// HealthLive always succeeds while the process serves requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady succeeds once the engine holds a loaded snapshot and the
// database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.engine.Status().LoadedAt.IsZero() {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation engine not loaded")
		return
	}
	if !h.pingStore(r.Context()) {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Database unavailable")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

func (h *Handler) pingStore(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.store.Ping(ctx) == nil
}
