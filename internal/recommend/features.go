// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"fmt"
	"sort"

	"github.com/tomtom215/vitrine/internal/models"
)

// UserFeatures holds the derived columns for one user.
type UserFeatures struct {
	// Age is the declared age, or the population median when undeclared.
	Age        float64
	AgeImputed bool
	AgeScaled  float64

	// GenderEncoded is the index of the gender in the sorted distinct
	// values of the current population. Codes are not stable across
	// rebuilds and must not be persisted.
	GenderEncoded int
}

// ProductFeatures holds the derived columns for one product.
type ProductFeatures struct {
	PriceScaled float64
}

// EngineerUsers derives gender codes and scaled ages for the full user
// population. Missing ages are imputed with the median of known ages
// before scaling. A negative age fails the whole pass.
func EngineerUsers(users []models.User) (map[string]UserFeatures, error) {
	known := make([]float64, 0, len(users))
	genders := make(map[string]struct{})
	for i := range users {
		u := &users[i]
		if u.Age != nil {
			if *u.Age < 0 {
				return nil, fmt.Errorf("%w: user %s has negative age %d", ErrInvalidFeatureInput, u.ID, *u.Age)
			}
			known = append(known, float64(*u.Age))
		}
		genders[u.Gender] = struct{}{}
	}

	codes := labelEncode(genders)
	median := medianOf(known)

	ages := make([]float64, len(users))
	for i := range users {
		if users[i].Age != nil {
			ages[i] = float64(*users[i].Age)
		} else {
			ages[i] = median
		}
	}
	scaled := minMaxScale(ages)

	out := make(map[string]UserFeatures, len(users))
	for i := range users {
		u := &users[i]
		out[u.ID] = UserFeatures{
			Age:           ages[i],
			AgeImputed:    u.Age == nil,
			AgeScaled:     scaled[i],
			GenderEncoded: codes[u.Gender],
		}
	}
	return out, nil
}

// EngineerProducts min-max scales prices over the full catalog. Scaling
// is global, so one extreme price shifts every product's scaled value.
func EngineerProducts(products []models.Product) (map[string]ProductFeatures, error) {
	prices := make([]float64, len(products))
	for i := range products {
		if products[i].Price < 0 {
			return nil, fmt.Errorf("%w: product %s has negative price %d", ErrInvalidFeatureInput, products[i].ID, products[i].Price)
		}
		prices[i] = float64(products[i].Price)
	}
	scaled := minMaxScale(prices)

	out := make(map[string]ProductFeatures, len(products))
	for i := range products {
		out[products[i].ID] = ProductFeatures{PriceScaled: scaled[i]}
	}
	return out, nil
}

// labelEncode maps each distinct value to its index in sorted order.
func labelEncode(values map[string]struct{}) map[string]int {
	sorted := make([]string, 0, len(values))
	for v := range values {
		sorted = append(sorted, v)
	}
	sort.Strings(sorted)

	codes := make(map[string]int, len(sorted))
	for i, v := range sorted {
		codes[v] = i
	}
	return codes
}

// medianOf returns the median, averaging the two middle values for an
// even count. An empty input yields 0.
func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)

	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

// minMaxScale maps values onto [0, 1]. A zero range maps everything to 0.
func minMaxScale(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	span := hi - lo
	if span == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}
