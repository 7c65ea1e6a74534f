// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/database"
	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
)

// Signup handles POST /api/v1/auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	if _, err := h.store.GetUserByUsername(ctx, req.Username); err == nil {
		rw.Conflict("Username already exists")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		rw.DatabaseError(err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to hash password")
		rw.InternalError("Failed to create account")
		return
	}

	user := &models.User{
		ID:                 uuid.NewString(),
		Username:           req.Username,
		PasswordHash:       hash,
		Age:                req.Age,
		Gender:             req.Gender,
		FavoriteColors:     req.FavoriteColors,
		FavoriteCategories: req.FavoriteCategories,
		CreatedAt:          time.Now().UTC(),
	}
	if err := h.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateUsername) {
			rw.Conflict("Username already exists")
			return
		}
		rw.DatabaseError(err)
		return
	}

	applied(ctx, "user", user.ID, h.engine.AddUser(engineContext(ctx), *user))

	logging.Ctx(ctx).Info().Str("new_user_id", user.ID).Msg("User signed up")
	rw.Created(user)
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	if !h.limiter.Allow(req.Username) {
		metrics.RecordLoginAttempt("throttled")
		rw.Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "Too many login attempts, try again later")
		return
	}

	user, err := h.store.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, database.ErrNotFound) {
		metrics.RecordLoginAttempt("invalid")
		rw.Error(http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid username or password")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		metrics.RecordLoginAttempt("invalid")
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			logging.Ctx(ctx).Error().Err(err).Msg("Password check failed")
		}
		rw.Error(http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid username or password")
		return
	}

	role := auth.RoleFor(user.Username, h.security.AdminUsername)
	token, claims, err := h.tokens.Issue(user.ID, user.Username, role)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to issue token")
		rw.InternalError("Failed to issue token")
		return
	}

	metrics.RecordLoginAttempt("success")
	rw.Success(models.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		UserID:    user.ID,
		Role:      role,
	})
}

// Logout handles POST /api/v1/auth/logout by revoking the caller's token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Error(http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required")
		return
	}

	if err := h.authMW.Revoke(r.Context(), claims); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to revoke token")
		rw.InternalError("Failed to log out")
		return
	}
	rw.Success(map[string]bool{"logged_out": true})
}

// UserResponse is a user plus the engine's derived features, when present.
type UserResponse struct {
	*models.User
	Features *userFeaturesView `json:"features,omitempty"`
}

type userFeaturesView struct {
	AgeImputed    bool    `json:"age_imputed"`
	AgeScaled     float64 `json:"age_scaled"`
	GenderEncoded int     `json:"gender_encoded"`
}

// GetUser handles GET /api/v1/users/{id}. Shoppers may only read
// themselves.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := auth.ClaimsFromContext(r.Context())
	id := urlParam(r, "id")

	if claims == nil || (!claims.IsAdmin() && claims.UserID != id) {
		rw.Forbidden("Cannot read another user's profile")
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("User not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	resp := UserResponse{User: user}
	if f, ok := h.engine.UserFeatures(id); ok {
		resp.Features = &userFeaturesView{
			AgeImputed:    f.AgeImputed,
			AgeScaled:     f.AgeScaled,
			GenderEncoded: f.GenderEncoded,
		}
	}
	rw.Success(resp)
}

// UpdateUser handles PUT /api/v1/users/{id}. A user may change their own
// username or password; the profile captured at signup is fixed. The engine
// keeps its copy until the next reload since neither field feeds a feature.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()
	claims := auth.ClaimsFromContext(ctx)
	id := urlParam(r, "id")

	if claims == nil || claims.UserID != id {
		rw.Forbidden("Cannot update another user's account")
		return
	}

	var req models.UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Empty() {
		rw.BadRequest("Nothing to update")
		return
	}

	user, err := h.store.GetUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("User not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	if req.Username != nil && *req.Username != user.Username {
		// The admin role follows the configured username.
		if *req.Username == h.security.AdminUsername {
			rw.Conflict("Username already exists")
			return
		}
		user.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Failed to hash password")
			rw.InternalError("Failed to update account")
			return
		}
		user.PasswordHash = hash
	}

	if err := h.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateUsername) {
			rw.Conflict("Username already exists")
			return
		}
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	logging.Ctx(ctx).Info().
		Bool("username_changed", req.Username != nil).
		Bool("password_changed", req.Password != nil).
		Msg("User updated")
	rw.Success(user)
}
