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
	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/recommend"
)

// ListProducts handles GET /api/v1/products. A shopper gets personalized
// recommendations at the default popularity factor; anyone else gets the
// catalog in insertion order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := auth.ClaimsFromContext(r.Context())

	if h.can(claims, auth.ObjectRecommendations, auth.ActionRead) {
		factor := h.engine.Config().Scoring.DefaultPopularityFactor
		result, err := h.engine.Recommend(r.Context(), claims.UserID, factor)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation failed")
			rw.InternalError("Failed to generate recommendations")
			return
		}
		rw.List(result, len(result.Items))
		return
	}

	catalog := h.engine.Catalog()
	items := make([]recommend.Recommendation, len(catalog))
	for i := range catalog {
		items[i] = recommend.Recommendation{Product: catalog[i]}
	}
	rw.List(&recommend.Result{Items: items, GeneratedAt: time.Now().UTC()}, len(items))
}

// GetProduct handles GET /api/v1/products/{id}. A shopper's view is
// recorded as a click.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()
	id := urlParam(r, "id")

	product, err := h.store.GetProduct(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("Product not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	if claims := auth.ClaimsFromContext(ctx); h.can(claims, auth.ObjectInteractions, auth.ActionWrite) {
		click := models.Interaction{
			ID:        uuid.NewString(),
			UserID:    claims.UserID,
			ProductID: product.ID,
			Action:    models.ActionClick,
			CreatedAt: time.Now().UTC(),
		}
		// A failed click record must not hide the product from the shopper.
		if err := h.store.RecordInteraction(ctx, &click); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("product_id", product.ID).Msg("Failed to record click")
		} else {
			_, err := h.engine.AddInteraction(engineContext(ctx), click)
			applied(ctx, "interaction", click.ID, err)
		}
	}

	rw.Success(product)
}

// CreateProduct handles POST /api/v1/products (admin only).
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	product := &models.Product{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Category:  req.Category,
		Color:     req.Color,
		Price:     req.Price,
		Image:     req.Image,
		Ratings:   map[string]int{},
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateProduct(ctx, product); err != nil {
		rw.DatabaseError(err)
		return
	}

	applied(ctx, "product", product.ID, h.engine.AddProduct(engineContext(ctx), *product))

	logging.Ctx(ctx).Info().Str("product_id", product.ID).Msg("Product created")
	rw.Created(product)
}

// UpdateProduct handles PUT /api/v1/products/{id}. The catalog row changes
// at once; recommendations see the new attributes after the next engine
// reload.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	if req.Empty() {
		rw.BadRequest("Nothing to update")
		return
	}

	product, err := h.store.GetProduct(ctx, urlParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("Product not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	req.Apply(product)
	if err := h.store.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("Product not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	logging.Ctx(ctx).Info().Str("product_id", product.ID).Msg("Product updated")
	rw.Success(product)
}

// RateProduct handles POST /api/v1/products/{id}/ratings. A user rates a
// product at most once.
func (h *Handler) RateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.RateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	ctx := r.Context()
	claims := auth.ClaimsFromContext(ctx)

	product, err := h.store.GetProduct(ctx, urlParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("Product not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rating := models.Interaction{
		ID:        uuid.NewString(),
		UserID:    claims.UserID,
		ProductID: product.ID,
		Action:    models.ActionRate,
		Value:     req.Rating,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.AddRating(ctx, &rating); err != nil {
		if errors.Is(err, database.ErrAlreadyRated) {
			rw.Conflict("Product already rated")
			return
		}
		rw.DatabaseError(err)
		return
	}

	_, err = h.engine.AddInteraction(engineContext(ctx), rating)
	applied(ctx, "interaction", rating.ID, err)

	rw.Created(rating)
}

// Colors handles GET /api/v1/catalog/colors.
func (h *Handler) Colors(w http.ResponseWriter, r *http.Request) {
	colors := h.engine.DistinctColors()
	NewResponseWriter(w, r).List(colors, len(colors))
}

// Categories handles GET /api/v1/catalog/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.engine.DistinctCategories()
	NewResponseWriter(w, r).List(categories, len(categories))
}
