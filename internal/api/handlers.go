// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"context"
	"time"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/config"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/recommend"
)

// Store is the persistence the handlers need. *database.DB implements it.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error

	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	AddRating(ctx context.Context, in *models.Interaction) error
	RecordInteraction(ctx context.Context, in *models.Interaction) error

	CreateOrder(ctx context.Context, o *models.Order, purchases []models.Interaction) error
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)

	Ping(ctx context.Context) error
}

// Handler holds the dependencies of the API handlers.
type Handler struct {
	store       Store
	engine      *recommend.Engine
	tokens      *auth.TokenManager
	authMW      *auth.Middleware
	authorizer  *auth.Authorizer
	limiter     *auth.LoginLimiter
	security    config.SecurityConfig
	environment string
	startTime   time.Time
}

// HandlerDeps groups the constructor arguments of NewHandler.
type HandlerDeps struct {
	Store      Store
	Engine     *recommend.Engine
	Tokens     *auth.TokenManager
	AuthMW     *auth.Middleware
	Authorizer *auth.Authorizer
	Limiter    *auth.LoginLimiter
	Config     *config.Config
}

// NewHandler creates the API handler.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		store:       deps.Store,
		engine:      deps.Engine,
		tokens:      deps.Tokens,
		authMW:      deps.AuthMW,
		authorizer:  deps.Authorizer,
		limiter:     deps.Limiter,
		security:    deps.Config.Security,
		environment: deps.Config.Server.Environment,
		startTime:   time.Now(),
	}
}
