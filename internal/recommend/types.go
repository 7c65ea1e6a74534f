// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"time"

	"github.com/tomtom215/vitrine/internal/models"
)

// Recommendation is one ranked product. Score fields are nil on the
// cold-start path, where no personalized ranking exists.
type Recommendation struct {
	models.Product

	PreferenceScore     *float64 `json:"preference_score,omitempty"`
	PopularityScore     *float64 `json:"popularity_score,omitempty"`
	RecommendationScore *float64 `json:"recommendation_score,omitempty"`
}

// Result is the output of Engine.Recommend.
type Result struct {
	UserID string `json:"user_id"`

	// Items are ordered by preference score, highest first. The blended
	// recommendation score is reported but does not reorder the list.
	Items []Recommendation `json:"items"`

	// ColdStart is true when the user has no interactions and Items is
	// the plain catalog in insertion order.
	ColdStart bool `json:"cold_start"`

	PopularityFactor float64   `json:"popularity_factor"`
	Cached           bool      `json:"cached"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// clone deep-copies r so callers never share items with the result cache.
func (r *Result) clone() *Result {
	out := *r
	out.Items = make([]Recommendation, len(r.Items))
	for i := range r.Items {
		item := r.Items[i]
		item.Product = r.Items[i].Product.Clone()
		item.PreferenceScore = copyScore(item.PreferenceScore)
		item.PopularityScore = copyScore(item.PopularityScore)
		item.RecommendationScore = copyScore(item.RecommendationScore)
		out.Items[i] = item
	}
	return &out
}

func copyScore(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Status reports the current engine state.
type Status struct {
	Users          int       `json:"users"`
	Products       int       `json:"products"`
	Interactions   int       `json:"interactions"`
	MatrixUsers    int       `json:"matrix_users"`
	MatrixProducts int       `json:"matrix_products"`
	Version        int64     `json:"version"` // incremented on every rebuild
	LoadedAt       time.Time `json:"loaded_at"`
	LastRebuildAt  time.Time `json:"last_rebuild_at"`
	CacheEntries   int       `json:"cache_entries"`
}
