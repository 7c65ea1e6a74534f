// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package models defines the storefront entities shared by the store, the
recommendation engine and the HTTP API.

Entities:

  - User: shopper profile with declared favorite colors and categories
  - Product: catalog item with price (minor units) and per-user ratings
  - Interaction: a single click, purchase or rate event
  - Order: a checkout containing one or more products

Request types carry go-playground/validator tags and are validated by the
api package before anything reaches the engine.

Derived features (gender codes, scaled age, scaled price) are not stored
here. They are owned by the recommend package and recomputed on every
rebuild.
*/
package models
