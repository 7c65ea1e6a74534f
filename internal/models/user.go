// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package models

import "time"

// User is a registered shopper.
type User struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	PasswordHash       string    `json:"-"`
	Age                *int      `json:"age,omitempty"` // nil when the shopper did not declare it
	Gender             string    `json:"gender"`
	FavoriteColors     []string  `json:"favorite_colors"`
	FavoriteCategories []string  `json:"favorite_categories"`
	CreatedAt          time.Time `json:"created_at"`
}

// HasFavoriteColor reports whether color is one of the user's favorite colors.
func (u *User) HasFavoriteColor(color string) bool {
	return containsToken(u.FavoriteColors, color)
}

// HasFavoriteCategory reports whether category is one of the user's favorite categories.
func (u *User) HasFavoriteCategory(category string) bool {
	return containsToken(u.FavoriteCategories, category)
}

func containsToken(tokens []string, s string) bool {
	for _, t := range tokens {
		if t == s {
			return true
		}
	}
	return false
}

// SignupRequest is the body of POST /api/v1/auth/signup.
type SignupRequest struct {
	Username           string   `json:"username" validate:"required,min=3,max=64"`
	Password           string   `json:"password" validate:"required,min=8,max=128"`
	Age                *int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender             string   `json:"gender" validate:"required,max=32"`
	FavoriteColors     []string `json:"favorite_colors" validate:"required,min=1,dive,required,max=64,token"`
	FavoriteCategories []string `json:"favorite_categories" validate:"required,min=1,dive,required,max=64,token"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries a freshly issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
}

// UpdateUserRequest is the body of PUT /api/v1/users/{id}. Absent fields
// are left unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitnil,min=3,max=64"`
	Password *string `json:"password" validate:"omitnil,min=8,max=128"`
}

// Empty reports whether the request changes nothing.
func (r *UpdateUserRequest) Empty() bool {
	return r.Username == nil && r.Password == nil
}
