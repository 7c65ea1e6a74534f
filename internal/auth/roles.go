// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package auth

// Roles.
const (
	RoleAdmin   = "admin"
	RoleShopper = "shopper"
)

// Objects and actions used in the authorization policy.
const (
	ObjectProducts        = "products"
	ObjectRecommendations = "recommendations"
	ObjectInteractions    = "interactions"
	ObjectRatings         = "ratings"
	ObjectOrders          = "orders"

	ActionRead  = "read"
	ActionWrite = "write"
)

// RoleFor returns the role for a username. Only the configured admin
// username is an admin; an empty adminUsername makes everyone a shopper.
func RoleFor(username, adminUsername string) string {
	if adminUsername != "" && username == adminUsername {
		return RoleAdmin
	}
	return RoleShopper
}
