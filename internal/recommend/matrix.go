// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/vitrine/internal/models"
)

// AggregatedInteraction is the summed weight of one (user, product) pair
// joined with the product attributes and the user's declared favorites.
type AggregatedInteraction struct {
	UserID        string
	ProductID     string
	Weight        float64 // sum of interaction weights
	Category      string
	Color         string
	PriceScaled   float64
	ColorMatch    bool
	CategoryMatch bool

	// AdjustedWeight is Weight plus the favorite bonuses minus the price
	// penalty. This is the affinity matrix cell value.
	AdjustedWeight float64
}

// Matrices holds the affinity, preference and similarity tables. Rows are
// users with at least one interaction and columns are products with at
// least one interaction, both ordered by id. All three matrices are nil
// when there are no interactions.
type Matrices struct {
	Aggregated []AggregatedInteraction
	Users      []string
	Products   []string

	Affinity   *mat.Dense
	Preference *mat.Dense
	Similarity *mat.Dense

	userIndex    map[string]int
	productIndex map[string]int
	popularity   map[string]float64
}

type pairKey struct {
	user    string
	product string
}

// Build aggregates interactions and pivots them into the dense matrices.
// Interactions referencing unknown users or products are dropped.
func Build(users []models.User, products []models.Product, interactions []models.Interaction,
	features map[string]ProductFeatures, cfg AffinityConfig) *Matrices {

	userByID := make(map[string]*models.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}
	productByID := make(map[string]*models.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}

	sums := make(map[pairKey]float64)
	for i := range interactions {
		in := &interactions[i]
		sums[pairKey{in.UserID, in.ProductID}] += in.Weight
	}

	m := &Matrices{
		userIndex:    make(map[string]int),
		productIndex: make(map[string]int),
		popularity:   make(map[string]float64),
	}

	for key, sum := range sums {
		u, okU := userByID[key.user]
		p, okP := productByID[key.product]
		if !okU || !okP {
			continue
		}

		rec := AggregatedInteraction{
			UserID:        key.user,
			ProductID:     key.product,
			Weight:        sum,
			Category:      p.Category,
			Color:         p.Color,
			PriceScaled:   features[p.ID].PriceScaled,
			ColorMatch:    u.HasFavoriteColor(p.Color),
			CategoryMatch: u.HasFavoriteCategory(p.Category),
		}
		rec.AdjustedWeight = rec.Weight - cfg.PricePenalty*rec.PriceScaled
		if rec.ColorMatch {
			rec.AdjustedWeight += cfg.ColorBonus
		}
		if rec.CategoryMatch {
			rec.AdjustedWeight += cfg.CategoryBonus
		}
		m.Aggregated = append(m.Aggregated, rec)
	}

	sort.Slice(m.Aggregated, func(i, j int) bool {
		a, b := m.Aggregated[i], m.Aggregated[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		return a.ProductID < b.ProductID
	})

	for _, rec := range m.Aggregated {
		if _, ok := m.userIndex[rec.UserID]; !ok {
			m.userIndex[rec.UserID] = -1
			m.Users = append(m.Users, rec.UserID)
		}
		if _, ok := m.productIndex[rec.ProductID]; !ok {
			m.productIndex[rec.ProductID] = -1
			m.Products = append(m.Products, rec.ProductID)
		}
		m.popularity[rec.ProductID] += rec.AdjustedWeight
	}
	sort.Strings(m.Users)
	sort.Strings(m.Products)
	for i, id := range m.Users {
		m.userIndex[id] = i
	}
	for j, id := range m.Products {
		m.productIndex[id] = j
	}

	if len(m.Aggregated) == 0 {
		return m
	}

	m.Affinity = mat.NewDense(len(m.Users), len(m.Products), nil)
	for _, rec := range m.Aggregated {
		m.Affinity.Set(m.userIndex[rec.UserID], m.productIndex[rec.ProductID], rec.AdjustedWeight)
	}

	m.Preference = mat.DenseCopyOf(m.Affinity)
	normalizeRows(m.Preference)
	m.Similarity = mat.DenseCopyOf(m.Preference)
	normalizeRows(m.Similarity)

	return m
}

// normalizeRows divides each row by its sum in place. Rows whose sum is
// exactly zero are left untouched.
func normalizeRows(d *mat.Dense) {
	rows, _ := d.Dims()
	for i := 0; i < rows; i++ {
		row := d.RawRowView(i)
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for j := range row {
			row[j] /= sum
		}
	}
}

// Dims returns the number of matrix rows (users) and columns (products).
func (m *Matrices) Dims() (rows, cols int) {
	return len(m.Users), len(m.Products)
}

// SimilarityRow returns a copy of the user's similarity row, or false
// when the user has no interactions.
func (m *Matrices) SimilarityRow(userID string) ([]float64, bool) {
	i, ok := m.userIndex[userID]
	if !ok || m.Similarity == nil {
		return nil, false
	}
	return mat.Row(nil, i, m.Similarity), true
}

// Popularity returns the product's adjusted weight summed over all users.
// Products outside the matrix columns score 0.
func (m *Matrices) Popularity(productID string) float64 {
	return m.popularity[productID]
}

// AffinityAt returns the affinity cell for (user, product), or false when
// either id is not in the matrix.
func (m *Matrices) AffinityAt(userID, productID string) (float64, bool) {
	i, okU := m.userIndex[userID]
	j, okP := m.productIndex[productID]
	if !okU || !okP || m.Affinity == nil {
		return 0, false
	}
	return m.Affinity.At(i, j), true
}
