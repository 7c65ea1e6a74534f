// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/config"
	"github.com/tomtom215/vitrine/internal/database"
	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/recommend"
)

const testSecret = "api-test-secret-that-is-at-least-32-characters"

// fakeStore is an in-memory Store that also satisfies
// recommend.EntityStore.
type fakeStore struct {
	mu           sync.Mutex
	users        []models.User
	products     []models.Product
	ratings      map[string]map[string]int
	interactions []models.Interaction
	orders       []models.Order
	pingErr      error

	// onCommit runs after every write call returns, with the lock released.
	onCommit func()
}

func (f *fakeStore) committed() {
	if f.onCommit != nil {
		f.onCommit()
	}
}

func newFakeStore() *fakeStore {
	return &fakeStore{ratings: map[string]map[string]int{}}
}

func (f *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	defer f.committed()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return database.ErrDuplicateUsername
		}
	}
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].Username == username {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) UpdateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := -1
	for i := range f.users {
		if f.users[i].Username == u.Username && f.users[i].ID != u.ID {
			return database.ErrDuplicateUsername
		}
		if f.users[i].ID == u.ID {
			idx = i
		}
	}
	if idx < 0 {
		return database.ErrNotFound
	}
	f.users[idx].Username = u.Username
	f.users[idx].PasswordHash = u.PasswordHash
	return nil
}

func (f *fakeStore) CreateProduct(_ context.Context, p *models.Product) error {
	defer f.committed()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append(f.products, p.Clone())
	return nil
}

func (f *fakeStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i].Clone()
			if p.Ratings == nil {
				p.Ratings = map[string]int{}
			}
			for user, rating := range f.ratings[id] {
				p.Ratings[user] = rating
			}
			return &p, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) UpdateProduct(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == p.ID {
			ratings := f.products[i].Ratings
			f.products[i] = *p
			f.products[i].Ratings = ratings
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakeStore) AddRating(_ context.Context, in *models.Interaction) error {
	defer f.committed()
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ratings[in.ProductID][in.UserID]; ok {
		return database.ErrAlreadyRated
	}
	if f.ratings[in.ProductID] == nil {
		f.ratings[in.ProductID] = map[string]int{}
	}
	f.ratings[in.ProductID][in.UserID] = in.Value
	f.interactions = append(f.interactions, *in)
	return nil
}

func (f *fakeStore) RecordInteraction(_ context.Context, in *models.Interaction) error {
	defer f.committed()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interactions = append(f.interactions, *in)
	return nil
}

func (f *fakeStore) CreateOrder(_ context.Context, o *models.Order, purchases []models.Interaction) error {
	defer f.committed()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, *o)
	f.interactions = append(f.interactions, purchases...)
	return nil
}

func (f *fakeStore) ListOrders(_ context.Context, userID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) LoadUsers(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeStore) LoadProducts(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, len(f.products))
	for i := range f.products {
		out[i] = f.products[i].Clone()
	}
	return out, nil
}

func (f *fakeStore) LoadInteractions(context.Context) ([]models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Interaction(nil), f.interactions...), nil
}

func (f *fakeStore) interactionCount(action models.Action) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, in := range f.interactions {
		if in.Action == action {
			n++
		}
	}
	return n
}

var (
	_ Store                 = (*fakeStore)(nil)
	_ recommend.EntityStore = (*fakeStore)(nil)
	_ Store                 = (*database.DB)(nil)
)

type testEnv struct {
	t      *testing.T
	store  *fakeStore
	engine *recommend.Engine
	tokens *auth.TokenManager
	server http.Handler
}

// newTestEnv seeds the store with two products, loads the engine and
// builds the full router.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.products = []models.Product{
		{ID: "p-shoe", Name: "Shoe", Category: "shoes", Color: "red", Price: 200, Ratings: map[string]int{}, CreatedAt: now},
		{ID: "p-hat", Name: "Hat", Category: "hats", Color: "blue", Price: 800, Ratings: map[string]int{}, CreatedAt: now},
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Security: config.SecurityConfig{
			JWTSecret:         testSecret,
			TokenTTL:          time.Hour,
			AdminUsername:     "admin",
			RateLimitDisabled: true,
			LoginRate:         0.01,
			LoginBurst:        3,
			CORSOrigins:       []string{"*"},
		},
	}

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := engine.Load(context.Background(), store); err != nil {
		t.Fatalf("Load: %v", err)
	}

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	revocations, err := auth.NewRevocationStore("")
	if err != nil {
		t.Fatalf("NewRevocationStore: %v", err)
	}
	t.Cleanup(func() { _ = revocations.Close() })
	authorizer, err := auth.NewAuthorizer()
	if err != nil {
		t.Fatalf("NewAuthorizer: %v", err)
	}
	authMW := auth.NewMiddleware(tokens, revocations, authorizer, WriteError)

	handler := NewHandler(HandlerDeps{
		Store:      store,
		Engine:     engine,
		Tokens:     tokens,
		AuthMW:     authMW,
		Authorizer: authorizer,
		Limiter:    auth.NewLoginLimiter(cfg.Security.LoginRate, cfg.Security.LoginBurst),
		Config:     cfg,
	})
	router := NewRouter(handler, authMW, NewChiMiddleware(ChiMiddlewareConfigFrom(&cfg.Security)))

	return &testEnv{t: t, store: store, engine: engine, tokens: tokens, server: router.Setup()}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func (e *testEnv) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()
	return e.doCtx(context.Background(), method, path, token, body)
}

// doCtx is do with a caller-controlled request context.
func (e *testEnv) doCtx(ctx context.Context, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			e.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			e.t.Fatalf("decode %s %s response: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func (e *testEnv) decode(env envelope, dst interface{}) {
	e.t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		e.t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

// signupAndLogin creates an account and returns its id and token.
func (e *testEnv) signupAndLogin(username string) (string, string) {
	e.t.Helper()

	rec, env := e.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]interface{}{
		"username":            username,
		"password":            "password123",
		"age":                 30,
		"gender":              "f",
		"favorite_colors":     []string{"red"},
		"favorite_categories": []string{"shoes"},
	})
	if rec.Code != http.StatusCreated {
		e.t.Fatalf("signup %s: status %d (%s)", username, rec.Code, rec.Body.String())
	}
	var user models.User
	e.decode(env, &user)

	rec, env = e.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		e.t.Fatalf("login %s: status %d (%s)", username, rec.Code, rec.Body.String())
	}
	var login models.LoginResponse
	e.decode(env, &login)
	return user.ID, login.Token
}

func errCode(env envelope) string {
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}

var errPing = errors.New("ping failed")
