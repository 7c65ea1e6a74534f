// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
)

// EntityStore supplies the three source tables. It is implemented by the
// database package and is only read at load and reload time.
type EntityStore interface {
	LoadUsers(ctx context.Context) ([]models.User, error)
	LoadProducts(ctx context.Context) ([]models.Product, error)
	LoadInteractions(ctx context.Context) ([]models.Interaction, error)
}

// Snapshot is a point-in-time copy of the source tables.
type Snapshot struct {
	Users        []models.User
	Products     []models.Product
	Interactions []models.Interaction
}

// FetchSnapshot loads the three tables concurrently. The first failure
// cancels the remaining loads.
func FetchSnapshot(ctx context.Context, store EntityStore) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := store.LoadUsers(gctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		snap.Users = users
		return nil
	})
	g.Go(func() error {
		products, err := store.LoadProducts(gctx)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		interactions, err := store.LoadInteractions(gctx)
		if err != nil {
			return fmt.Errorf("load interactions: %w", err)
		}
		snap.Interactions = interactions
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ResilientStore wraps an EntityStore with a circuit breaker so a failing
// database does not get hammered by reload attempts.
//
// The breaker uses real time for its interval and timeout. Tests exercise
// it by counting failures rather than waiting out the timeout.
type ResilientStore struct {
	store  EntityStore
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger zerolog.Logger
}

// NewResilientStore creates a circuit breaker wrapped store.
// Circuit breaker configuration:
//   - 1 trial request in half-open state
//   - 1 minute measurement window
//   - 30 second timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResilientStore(store EntityStore, name string, logger zerolog.Logger) *ResilientStore {
	rs := &ResilientStore{
		store:  store,
		name:   name,
		logger: logger.With().Str("component", "store_breaker").Str("breaker", name).Logger(),
	}

	metrics.SetStoreBreakerState(name, 0)

	rs.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		// Caller cancellation says nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			rs.logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.SetStoreBreakerState(name, stateToFloat(to))
		},
	})

	return rs
}

// State returns the current breaker state.
func (rs *ResilientStore) State() gobreaker.State {
	return rs.cb.State()
}

// LoadUsers implements EntityStore.
func (rs *ResilientStore) LoadUsers(ctx context.Context) ([]models.User, error) {
	return execute(rs, func() ([]models.User, error) {
		return rs.store.LoadUsers(ctx)
	})
}

// LoadProducts implements EntityStore.
func (rs *ResilientStore) LoadProducts(ctx context.Context) ([]models.Product, error) {
	return execute(rs, func() ([]models.Product, error) {
		return rs.store.LoadProducts(ctx)
	})
}

// LoadInteractions implements EntityStore.
func (rs *ResilientStore) LoadInteractions(ctx context.Context) ([]models.Interaction, error) {
	return execute(rs, func() ([]models.Interaction, error) {
		return rs.store.LoadInteractions(ctx)
	})
}

// execute runs fn through the breaker and casts the result back.
func execute[T any](rs *ResilientStore, fn func() (T, error)) (T, error) {
	var zero T

	result, err := rs.cb.Execute(func() (any, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, rs.name, err)
		}
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
