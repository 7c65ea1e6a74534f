// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vitrine/internal/cache"
	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
)

// Engine owns the user, product and interaction tables together with the
// derived features and matrices. Every exported method holds a single
// mutex for its whole duration, so callers only ever observe a fully
// rebuilt state. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	mu sync.Mutex

	users          []models.User
	userByID       map[string]int
	products       []models.Product
	productByID    map[string]int
	interactions   []models.Interaction
	interactionIDs map[string]struct{}

	userFeatures    map[string]UserFeatures
	productFeatures map[string]ProductFeatures
	matrices        *Matrices

	version       int64
	loadedAt      time.Time
	lastRebuildAt time.Time

	// nil when caching is disabled
	results *cache.LRU[*Result]
}

// NewEngine creates an empty engine. Call Load or Replace to populate it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:          cfg.Clone(),
		logger:          logger.With().Str("component", "recommend").Logger(),
		userByID:        make(map[string]int),
		productByID:     make(map[string]int),
		interactionIDs:  make(map[string]struct{}),
		userFeatures:    make(map[string]UserFeatures),
		productFeatures: make(map[string]ProductFeatures),
		matrices:        &Matrices{},
	}
	if cfg.Cache.Enabled {
		e.results = cache.NewLRU[*Result](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Load fetches a snapshot from store and replaces the engine state with it.
// The fetch runs without the engine lock, so Add* calls that land while it
// is in flight are carried over into the new state when the snapshot does
// not already contain them.
func (e *Engine) Load(ctx context.Context, store EntityStore) error {
	since := e.currentVersion()
	snap, err := FetchSnapshot(ctx, store)
	if err != nil {
		return err
	}
	return e.replace(snap, since)
}

// Replace swaps in a new snapshot and rebuilds everything. Interaction
// weights are derived from their action and value; interactions with an
// unrecognized action are dropped. On error the previous state is kept.
func (e *Engine) Replace(snap *Snapshot) error {
	return e.replace(snap, noCarryOver)
}

// noCarryOver disables carrying engine-only entities into a replacement.
const noCarryOver int64 = -1

func (e *Engine) currentVersion() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// tables is a snapshot indexed and weighted, ready to become engine state.
type tables struct {
	users          []models.User
	userByID       map[string]int
	products       []models.Product
	productByID    map[string]int
	interactions   []models.Interaction
	interactionIDs map[string]struct{}
	dropped        int
}

func indexSnapshot(snap *Snapshot) (*tables, error) {
	t := &tables{
		users:          append([]models.User(nil), snap.Users...),
		userByID:       make(map[string]int, len(snap.Users)),
		products:       make([]models.Product, len(snap.Products)),
		productByID:    make(map[string]int, len(snap.Products)),
		interactions:   make([]models.Interaction, 0, len(snap.Interactions)),
		interactionIDs: make(map[string]struct{}, len(snap.Interactions)),
	}
	for i := range t.users {
		if _, dup := t.userByID[t.users[i].ID]; dup {
			return nil, fmt.Errorf("%w: user %s", ErrDuplicateID, t.users[i].ID)
		}
		t.userByID[t.users[i].ID] = i
	}
	for i := range snap.Products {
		t.products[i] = snap.Products[i].Clone()
		if _, dup := t.productByID[t.products[i].ID]; dup {
			return nil, fmt.Errorf("%w: product %s", ErrDuplicateID, t.products[i].ID)
		}
		t.productByID[t.products[i].ID] = i
	}
	for _, in := range snap.Interactions {
		w, ok := in.Action.Weight(in.Value)
		if !ok {
			t.dropped++
			metrics.RecordIgnoredInteraction(in.Action.String())
			continue
		}
		if _, dup := t.interactionIDs[in.ID]; dup {
			return nil, fmt.Errorf("%w: interaction %s", ErrDuplicateID, in.ID)
		}
		t.interactionIDs[in.ID] = struct{}{}
		in.Weight = w
		t.interactions = append(t.interactions, in)
	}
	return t, nil
}

// carryOver appends the engine's users, products and interactions that
// the snapshot lacks. The engine only grows between loads, so anything
// missing was applied after the store was read. Callers hold e.mu.
func (t *tables) carryOver(e *Engine) int {
	n := 0
	for i := range e.users {
		if _, ok := t.userByID[e.users[i].ID]; !ok {
			t.userByID[e.users[i].ID] = len(t.users)
			t.users = append(t.users, e.users[i])
			n++
		}
	}
	for i := range e.products {
		if _, ok := t.productByID[e.products[i].ID]; !ok {
			t.productByID[e.products[i].ID] = len(t.products)
			t.products = append(t.products, e.products[i].Clone())
			n++
		}
	}
	for _, in := range e.interactions {
		if _, ok := t.interactionIDs[in.ID]; ok {
			continue
		}
		t.interactionIDs[in.ID] = struct{}{}
		t.interactions = append(t.interactions, in)
		if in.Action == models.ActionRate {
			if idx, ok := t.productByID[in.ProductID]; ok {
				if t.products[idx].Ratings == nil {
					t.products[idx].Ratings = make(map[string]int)
				}
				t.products[idx].Ratings[in.UserID] = in.Value
			}
		}
		n++
	}
	return n
}

func (e *Engine) replace(snap *Snapshot, since int64) error {
	t, err := indexSnapshot(snap)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	carried := 0
	if since != noCarryOver && e.version != since {
		carried = t.carryOver(e)
	}

	uf, err := EngineerUsers(t.users)
	if err != nil {
		return err
	}
	pf, err := EngineerProducts(t.products)
	if err != nil {
		return err
	}

	e.users, e.userByID = t.users, t.userByID
	e.products, e.productByID = t.products, t.productByID
	e.interactions, e.interactionIDs = t.interactions, t.interactionIDs
	e.userFeatures, e.productFeatures = uf, pf
	e.loadedAt = time.Now()
	e.rebuild("load")

	e.logger.Info().
		Int("users", len(t.users)).
		Int("products", len(t.products)).
		Int("interactions", len(t.interactions)).
		Int("dropped_interactions", t.dropped).
		Int("carried_over", carried).
		Msg("engine state loaded")
	return nil
}

// Recommend ranks products for userID. factor blends preference (0) with
// popularity (1). Users without interactions get the plain catalog with
// ColdStart set.
func (e *Engine) Recommend(ctx context.Context, userID string, factor float64) (*Result, error) {
	if !validFactor(factor) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFactor, factor)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	key := userID + "|" + strconv.FormatFloat(factor, 'g', -1, 64)
	if e.results != nil {
		if cached, ok := e.results.Get(key); ok {
			metrics.RecordRecommendation("cache_hit")
			out := cached.clone()
			out.Cached = true
			return out, nil
		}
	}

	result := rank(e.matrices, e.products, e.productByID, userID, factor)
	result.GeneratedAt = time.Now()

	if result.ColdStart {
		metrics.RecordRecommendation("cold_start")
		return result, nil
	}

	metrics.RecordRecommendation("personalized")
	if e.results != nil {
		e.results.Add(key, result)
	}
	return result.clone(), nil
}

// AddUser appends a user, recomputes user features and rebuilds the
// matrices.
func (e *Engine) AddUser(ctx context.Context, u models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, dup := e.userByID[u.ID]; dup {
		return fmt.Errorf("%w: user %s", ErrDuplicateID, u.ID)
	}

	candidate := append(e.users[:len(e.users):len(e.users)], u)
	uf, err := EngineerUsers(candidate)
	if err != nil {
		return err
	}

	e.users = candidate
	e.userByID[u.ID] = len(candidate) - 1
	e.userFeatures = uf
	e.rebuild("user")
	return nil
}

// AddProduct appends a product, recomputes price scaling for the whole
// catalog and rebuilds the matrices.
func (e *Engine) AddProduct(ctx context.Context, p models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, dup := e.productByID[p.ID]; dup {
		return fmt.Errorf("%w: product %s", ErrDuplicateID, p.ID)
	}

	p = p.Clone()
	if p.Ratings == nil {
		p.Ratings = make(map[string]int)
	}

	candidate := append(e.products[:len(e.products):len(e.products)], p)
	pf, err := EngineerProducts(candidate)
	if err != nil {
		return err
	}

	e.products = candidate
	e.productByID[p.ID] = len(candidate) - 1
	e.productFeatures = pf
	e.rebuild("product")
	return nil
}

// AddInteraction records an interaction. An unrecognized action is a
// no-op and reports applied=false without touching any state. A
// recognized action recomputes both feature kinds and rebuilds. An empty
// id is replaced with a generated one.
func (e *Engine) AddInteraction(ctx context.Context, in models.Interaction) (applied bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	weight, ok := in.Action.Weight(in.Value)
	if !ok {
		metrics.RecordIgnoredInteraction(in.Action.String())
		e.logger.Debug().
			Str("action", in.Action.String()).
			Str("user_id", in.UserID).
			Str("product_id", in.ProductID).
			Msg("ignoring unrecognized interaction action")
		return false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if _, dup := e.interactionIDs[in.ID]; dup {
		return false, fmt.Errorf("%w: interaction %s", ErrDuplicateID, in.ID)
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	in.Weight = weight

	uf, err := EngineerUsers(e.users)
	if err != nil {
		return false, err
	}
	pf, err := EngineerProducts(e.products)
	if err != nil {
		return false, err
	}

	e.interactions = append(e.interactions, in)
	e.interactionIDs[in.ID] = struct{}{}
	e.userFeatures, e.productFeatures = uf, pf

	if in.Action == models.ActionRate {
		if idx, ok := e.productByID[in.ProductID]; ok {
			p := e.products[idx].Clone()
			if p.Ratings == nil {
				p.Ratings = make(map[string]int)
			}
			p.Ratings[in.UserID] = in.Value
			e.products[idx] = p
		}
	}

	e.rebuild("interaction")
	return true, nil
}

// rebuild recomputes the matrices from the current tables. Callers hold mu.
func (e *Engine) rebuild(trigger string) {
	start := time.Now()

	e.matrices = Build(e.users, e.products, e.interactions, e.productFeatures, e.config.Affinity)
	e.version++
	e.lastRebuildAt = time.Now()
	if e.results != nil {
		e.results.Clear()
	}

	rows, cols := e.matrices.Dims()
	elapsed := time.Since(start)
	metrics.RecordRebuild(trigger, elapsed, rows, cols)
	metrics.UpdateCatalogSize(len(e.users), len(e.products), len(e.interactions))

	e.logger.Debug().
		Str("trigger", trigger).
		Int("rows", rows).
		Int("cols", cols).
		Int64("version", e.version).
		Dur("duration", elapsed).
		Msg("matrices rebuilt")
}

// DistinctColors returns every product color in first-seen order.
func (e *Engine) DistinctColors() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return distinct(e.products, func(p *models.Product) string { return p.Color })
}

// DistinctCategories returns every product category in first-seen order.
func (e *Engine) DistinctCategories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return distinct(e.products, func(p *models.Product) string { return p.Category })
}

func distinct(products []models.Product, field func(*models.Product) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range products {
		v := field(&products[i])
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Catalog returns every product in insertion order.
func (e *Engine) Catalog() []models.Product {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Product, len(e.products))
	for i := range e.products {
		out[i] = e.products[i].Clone()
	}
	return out
}

// Product returns one product by id.
func (e *Engine) Product(id string) (models.Product, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.productByID[id]
	if !ok {
		return models.Product{}, false
	}
	return e.products[idx].Clone(), true
}

// UserFeatures returns the derived features for a user.
func (e *Engine) UserFeatures(id string) (UserFeatures, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.userFeatures[id]
	return f, ok
}

// ProductFeatures returns the derived features for a product.
func (e *Engine) ProductFeatures(id string) (ProductFeatures, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.productFeatures[id]
	return f, ok
}

// Matrices returns the current matrices. A rebuild replaces the value
// rather than mutating it, so the returned pointer stays consistent but
// must be treated as read-only.
func (e *Engine) Matrices() *Matrices {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matrices
}

// Status returns a summary of the engine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	rows, cols := e.matrices.Dims()
	s := Status{
		Users:          len(e.users),
		Products:       len(e.products),
		Interactions:   len(e.interactions),
		MatrixUsers:    rows,
		MatrixProducts: cols,
		Version:        e.version,
		LoadedAt:       e.loadedAt,
		LastRebuildAt:  e.lastRebuildAt,
	}
	if e.results != nil {
		s.CacheEntries = e.results.Len()
	}
	return s
}
