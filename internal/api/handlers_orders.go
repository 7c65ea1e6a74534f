// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/database"
	"github.com/tomtom215/vitrine/internal/models"
)

// CreateOrder handles POST /api/v1/orders. Every ordered product is
// recorded as a purchase interaction.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	ctx := r.Context()
	claims := auth.ClaimsFromContext(ctx)

	if len(req.ProductIDs) != len(req.Quantities) {
		rw.BadRequest("product_ids and quantities must have the same length")
		return
	}

	for _, id := range req.ProductIDs {
		if _, err := h.store.GetProduct(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				rw.NotFound("Product not found: " + sanitizeLogValue(id))
				return
			}
			rw.DatabaseError(err)
			return
		}
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:          uuid.NewString(),
		UserID:      claims.UserID,
		ProductIDs:  req.ProductIDs,
		Quantities:  req.Quantities,
		ProductSum:  req.ProductSum,
		ShippingSum: req.ShippingSum,
		TotalSum:    req.TotalSum,
		CreatedAt:   now,
	}

	purchases := make([]models.Interaction, len(req.ProductIDs))
	for i, id := range req.ProductIDs {
		purchases[i] = models.Interaction{
			ID:        uuid.NewString(),
			UserID:    claims.UserID,
			ProductID: id,
			Action:    models.ActionPurchase,
			CreatedAt: now,
		}
	}

	if err := h.store.CreateOrder(ctx, order, purchases); err != nil {
		rw.DatabaseError(err)
		return
	}

	applyCtx := engineContext(ctx)
	for i := range purchases {
		_, err := h.engine.AddInteraction(applyCtx, purchases[i])
		applied(ctx, "interaction", purchases[i].ID, err)
	}

	rw.Created(order)
}

// ListOrders handles GET /api/v1/orders: the caller's orders, newest
// first, with products resolved from the catalog.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := auth.ClaimsFromContext(r.Context())

	orders, err := h.store.ListOrders(r.Context(), claims.UserID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	views := make([]models.OrderView, len(orders))
	for i, o := range orders {
		views[i] = models.OrderView{Order: o, Products: make([]models.Product, 0, len(o.ProductIDs))}
		for _, id := range o.ProductIDs {
			if p, ok := h.engine.Product(id); ok {
				views[i].Products = append(views[i].Products, p)
			}
		}
	}
	rw.List(views, len(views))
}
