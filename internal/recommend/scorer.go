// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"sort"

	"github.com/tomtom215/vitrine/internal/models"
)

// rank produces the ranked result for userID. catalog is in insertion
// order and productByID indexes it.
func rank(m *Matrices, catalog []models.Product, productByID map[string]int, userID string, factor float64) *Result {
	row, ok := m.SimilarityRow(userID)
	if !ok {
		return coldStart(catalog, userID, factor)
	}

	order := make([]int, len(row))
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})

	items := make([]Recommendation, 0, len(order))
	for _, j := range order {
		id := m.Products[j]
		idx, ok := productByID[id]
		if !ok {
			continue
		}

		pref := row[j]
		pop := m.Popularity(id)
		blended := (1-factor)*pref + factor*pop

		items = append(items, Recommendation{
			Product:             catalog[idx].Clone(),
			PreferenceScore:     floatPtr(pref),
			PopularityScore:     floatPtr(pop),
			RecommendationScore: floatPtr(blended),
		})
	}

	return &Result{
		UserID:           userID,
		Items:            items,
		PopularityFactor: factor,
	}
}

func coldStart(catalog []models.Product, userID string, factor float64) *Result {
	items := make([]Recommendation, len(catalog))
	for i := range catalog {
		items[i] = Recommendation{Product: catalog[i].Clone()}
	}
	return &Result{
		UserID:           userID,
		Items:            items,
		ColdStart:        true,
		PopularityFactor: factor,
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
