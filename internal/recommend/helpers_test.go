// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/vitrine/internal/models"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func intPtr(v int) *int {
	return &v
}

// fakeStore is an in-memory EntityStore.
type fakeStore struct {
	mu           sync.Mutex
	users        []models.User
	products     []models.Product
	interactions []models.Interaction
	err          error
	calls        int
}

func (f *fakeStore) LoadUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeStore) LoadProducts(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeStore) LoadInteractions(ctx context.Context) ([]models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.interactions, nil
}

// scenarioSnapshot returns two shoppers and four products priced so that
// P1 scales to 0.2 and P2 to 0.8. U1 clicks P1 and purchases P2.
func scenarioSnapshot() *Snapshot {
	return &Snapshot{
		Users: []models.User{
			{ID: "U1", Username: "alice", Age: intPtr(30), Gender: "f",
				FavoriteColors: []string{"red"}, FavoriteCategories: []string{"shoes"}},
			{ID: "U2", Username: "bob", Gender: "m",
				FavoriteColors: []string{"green"}, FavoriteCategories: []string{"bags"}},
		},
		Products: []models.Product{
			{ID: "P0", Name: "Sock", Category: "socks", Color: "white", Price: 0},
			{ID: "P1", Name: "Runner", Category: "shoes", Color: "red", Price: 200},
			{ID: "P2", Name: "Cap", Category: "hats", Color: "blue", Price: 800},
			{ID: "P3", Name: "Tote", Category: "bags", Color: "black", Price: 1000},
		},
		Interactions: []models.Interaction{
			{ID: "I1", UserID: "U1", ProductID: "P1", Action: models.ActionClick},
			{ID: "I2", UserID: "U1", ProductID: "P2", Action: models.ActionPurchase},
		},
	}
}

func newTestEngine(t *testing.T, snap *Snapshot) *Engine {
	t.Helper()

	cfg := DefaultConfig()
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if snap != nil {
		if err := e.Replace(snap); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
	}
	return e
}

func denseRows(d *mat.Dense) [][]float64 {
	if d == nil {
		return nil
	}
	r, _ := d.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = append([]float64(nil), d.RawRowView(i)...)
	}
	return out
}
