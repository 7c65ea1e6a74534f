// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package models

import "time"

// Order is a placed checkout. Every product in it is recorded as a purchase.
type Order struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProductIDs  []string  `json:"product_ids"`
	Quantities  []int     `json:"quantities"`
	ProductSum  int64     `json:"product_sum"`
	ShippingSum int64     `json:"shipping_sum"`
	TotalSum    int64     `json:"total_sum"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	ProductIDs  []string `json:"product_ids" validate:"required,min=1,dive,required"`
	Quantities  []int    `json:"quantities" validate:"required,min=1,dive,gte=1"`
	ProductSum  int64    `json:"product_sum" validate:"gte=0"`
	ShippingSum int64    `json:"shipping_sum" validate:"gte=0"`
	TotalSum    int64    `json:"total_sum" validate:"gte=0"`
}

// OrderView is an order with its products resolved, as returned by GET /api/v1/orders.
type OrderView struct {
	Order
	Products []Product `json:"products"`
}
