// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package models

import "time"

// Action is the kind of a recorded interaction.
type Action string

const (
	// ActionClick is recorded when a shopper opens a product page.
	ActionClick Action = "click"

	// ActionPurchase is recorded once per product in a placed order.
	ActionPurchase Action = "purchase"

	// ActionRate is recorded when a shopper rates a product.
	// The interaction value carries the 1..5 rating.
	ActionRate Action = "rate"
)

const (
	clickWeight    = 0.5
	purchaseWeight = 1.0

	// ratingPivot is the rating that maps to a zero weight.
	ratingPivot = 2
)

// Weight returns the interaction weight for the action and value.
// The second result is false for unrecognized actions.
//
//	click    -> 0.5
//	purchase -> 1.0
//	rate     -> value - 2
func (a Action) Weight(value int) (float64, bool) {
	switch a {
	case ActionClick:
		return clickWeight, true
	case ActionPurchase:
		return purchaseWeight, true
	case ActionRate:
		return float64(value - ratingPivot), true
	default:
		return 0, false
	}
}

// Valid reports whether a is a recognized action.
func (a Action) Valid() bool {
	_, ok := a.Weight(0)
	return ok
}

// String implements fmt.Stringer.
func (a Action) String() string {
	return string(a)
}

// Interaction is one behavioral event between a user and a product.
type Interaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Action    Action    `json:"action"`
	Value     int       `json:"value,omitempty"` // rating for ActionRate, 0 otherwise
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
}
