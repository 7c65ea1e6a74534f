// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package models

import "time"

// Product is a catalog item.
type Product struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Category  string         `json:"category"`
	Color     string         `json:"color"`
	Price     int64          `json:"price"` // minor currency units
	Image     string         `json:"image"`
	Ratings   map[string]int `json:"ratings"` // user id -> 1..5
	CreatedAt time.Time      `json:"created_at"`
}

// Clone returns a copy of p that does not share the ratings map.
func (p *Product) Clone() Product {
	c := *p
	if p.Ratings != nil {
		c.Ratings = make(map[string]int, len(p.Ratings))
		for k, v := range p.Ratings {
			c.Ratings[k] = v
		}
	}
	return c
}

// CreateProductRequest is the body of POST /api/v1/products.
type CreateProductRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"required,max=64,token"`
	Color    string `json:"color" validate:"required,max=64,token"`
	Price    int64  `json:"price" validate:"gte=0"`
	Image    string `json:"image" validate:"omitempty,url"`
}

// RateProductRequest is the body of POST /api/v1/products/{id}/ratings.
type RateProductRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

// UpdateProductRequest is the body of PUT /api/v1/products/{id}. Absent
// fields are left unchanged; ratings are never edited here.
type UpdateProductRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=200"`
	Category *string `json:"category" validate:"omitnil,max=64,token"`
	Color    *string `json:"color" validate:"omitnil,max=64,token"`
	Price    *int64  `json:"price" validate:"omitnil,gte=0"`
	Image    *string `json:"image" validate:"omitnil,url"`
}

// Empty reports whether the request changes nothing.
func (r *UpdateProductRequest) Empty() bool {
	return r.Name == nil && r.Category == nil && r.Color == nil && r.Price == nil && r.Image == nil
}

// Apply copies the present fields onto p.
func (r *UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Color != nil {
		p.Color = *r.Color
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Image != nil {
		p.Image = *r.Image
	}
}
