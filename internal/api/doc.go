// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package api exposes the storefront over HTTP.

Every response uses one envelope:

	{"success": true,  "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}, "meta": {...}}

Writes follow a persist-then-apply order: the row is stored in DuckDB
first, then the same entity is handed to the recommendation engine. If the
engine already holds the entity (a periodic reload picked it up in
between) the write is treated as applied. Any other engine failure is
logged; the next reload brings the engine back in line with the store.

Routes are registered in chi_router.go. Handlers are split by resource:

  - handlers_health.go: liveness, readiness and engine status
  - handlers_auth.go: signup, login, logout
  - handlers_products.go: catalog, product detail, creation, ratings
  - handlers_recommend.go: personalized recommendations
  - handlers_orders.go: checkout and order history
*/
package api
