// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/recommend"
)

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var health HealthResponse
	env.decode(body, &health)
	if health.Status != "healthy" || !health.Database || health.Engine.Products != 2 {
		t.Errorf("health = %+v", health)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	if rec, _ := env.do(http.MethodGet, "/api/v1/health/live", "", nil); rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}
	if rec, _ := env.do(http.MethodGet, "/api/v1/health/ready", "", nil); rec.Code != http.StatusOK {
		t.Errorf("ready status = %d", rec.Code)
	}

	env.store.pingErr = errPing
	if rec, _ := env.do(http.MethodGet, "/api/v1/health/ready", "", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready with failing db = %d, want 503", rec.Code)
	}
	_, body = env.do(http.MethodGet, "/api/v1/health", "", nil)
	env.decode(body, &health)
	if health.Status != "degraded" {
		t.Errorf("health status with failing db = %q", health.Status)
	}
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.signupAndLogin("alice")

	if env.engine.Status().Users != 1 {
		t.Errorf("engine users = %d, want 1", env.engine.Status().Users)
	}
	if _, ok := env.engine.UserFeatures(userID); !ok {
		t.Error("engine has no features for the new user")
	}

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
		code   string
	}{
		{
			name: "duplicate username",
			body: map[string]interface{}{
				"username": "alice", "password": "password123", "gender": "f",
				"favorite_colors": []string{"red"}, "favorite_categories": []string{"shoes"},
			},
			status: http.StatusConflict,
			code:   ErrCodeConflict,
		},
		{
			name: "no favorite colors",
			body: map[string]interface{}{
				"username": "bob", "password": "password123", "gender": "m",
				"favorite_colors": []string{}, "favorite_categories": []string{"shoes"},
			},
			status: http.StatusBadRequest,
			code:   ErrCodeValidationFailed,
		},
		{
			name: "negative age",
			body: map[string]interface{}{
				"username": "carol", "password": "password123", "gender": "f", "age": -3,
				"favorite_colors": []string{"red"}, "favorite_categories": []string{"shoes"},
			},
			status: http.StatusBadRequest,
			code:   ErrCodeValidationFailed,
		},
		{
			name:   "unknown field",
			body:   map[string]interface{}{"username": "dave", "role": "admin"},
			status: http.StatusBadRequest,
			code:   ErrCodeBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := env.do(http.MethodPost, "/api/v1/auth/signup", "", tt.body)
			if rec.Code != tt.status || errCode(body) != tt.code {
				t.Errorf("got %d %s, want %d %s", rec.Code, errCode(body), tt.status, tt.code)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.signupAndLogin("alice")

	rec, body := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized || errCode(body) != ErrCodeInvalidCredentials {
		t.Errorf("wrong password: %d %s", rec.Code, errCode(body))
	}

	rec, _ = env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "nobody", "password": "password123",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown user status = %d", rec.Code)
	}

	// signupAndLogin used one attempt and the wrong password another; the
	// burst is three.
	env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "x"})
	rec, body = env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "password123",
	})
	if rec.Code != http.StatusTooManyRequests || errCode(body) != ErrCodeTooManyRequests {
		t.Errorf("throttled login: %d %s", rec.Code, errCode(body))
	}
}

func TestAdminRole(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.signupAndLogin("admin")

	claims, err := env.tokens.Validate(adminToken)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !claims.IsAdmin() {
		t.Errorf("role = %q, want admin", claims.Role)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signupAndLogin("alice")

	if rec, _ := env.do(http.MethodGet, "/api/v1/recommendations", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("before logout status = %d", rec.Code)
	}
	if rec, _ := env.do(http.MethodPost, "/api/v1/auth/logout", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	rec, body := env.do(http.MethodGet, "/api/v1/recommendations", token, nil)
	if rec.Code != http.StatusUnauthorized || errCode(body) != "TOKEN_REVOKED" {
		t.Errorf("after logout: %d %s", rec.Code, errCode(body))
	}
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.signupAndLogin("alice")
	bobID, _ := env.signupAndLogin("bob")
	_, adminToken := env.signupAndLogin("admin")

	rec, body := env.do(http.MethodGet, "/api/v1/users/"+aliceID, aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("self status = %d", rec.Code)
	}
	if strings.Contains(string(body.Data), "password") {
		t.Error("password hash leaked")
	}
	var got UserResponse
	env.decode(body, &got)
	if got.User == nil || got.Username != "alice" || got.Features == nil {
		t.Errorf("user response = %s", body.Data)
	}

	if rec, _ := env.do(http.MethodGet, "/api/v1/users/"+bobID, aliceToken, nil); rec.Code != http.StatusForbidden {
		t.Errorf("other user status = %d, want 403", rec.Code)
	}
	if rec, _ := env.do(http.MethodGet, "/api/v1/users/"+bobID, adminToken, nil); rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
	if rec, _ := env.do(http.MethodGet, "/api/v1/users/missing", adminToken, nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing user status = %d, want 404", rec.Code)
	}
	if rec, _ := env.do(http.MethodGet, "/api/v1/users/"+aliceID, "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.signupAndLogin("alice")
	bobID, _ := env.signupAndLogin("bob")
	_, adminToken := env.signupAndLogin("admin")

	t.Run("other user is forbidden", func(t *testing.T) {
		for _, token := range []string{aliceToken, adminToken} {
			rec, body := env.do(http.MethodPut, "/api/v1/users/"+bobID, token, map[string]string{"password": "stolen-password"})
			if rec.Code != http.StatusForbidden || errCode(body) != ErrCodeForbidden {
				t.Errorf("status = %d %s, want 403", rec.Code, errCode(body))
			}
		}
	})

	t.Run("empty body", func(t *testing.T) {
		rec, body := env.do(http.MethodPut, "/api/v1/users/"+aliceID, aliceToken, map[string]string{})
		if rec.Code != http.StatusBadRequest || errCode(body) != ErrCodeBadRequest {
			t.Errorf("status = %d %s", rec.Code, errCode(body))
		}
	})

	t.Run("taken or reserved username", func(t *testing.T) {
		for _, name := range []string{"bob", "admin"} {
			rec, body := env.do(http.MethodPut, "/api/v1/users/"+aliceID, aliceToken, map[string]string{"username": name})
			if rec.Code != http.StatusConflict || errCode(body) != ErrCodeConflict {
				t.Errorf("rename to %s: %d %s, want 409", name, rec.Code, errCode(body))
			}
		}
	})

	t.Run("short password", func(t *testing.T) {
		rec, body := env.do(http.MethodPut, "/api/v1/users/"+aliceID, aliceToken, map[string]string{"password": "short"})
		if rec.Code != http.StatusBadRequest || errCode(body) != ErrCodeValidationFailed {
			t.Errorf("status = %d %s", rec.Code, errCode(body))
		}
	})

	t.Run("self update", func(t *testing.T) {
		rec, body := env.do(http.MethodPut, "/api/v1/users/"+aliceID, aliceToken, map[string]string{
			"username": "alicia",
			"password": "new-password-456",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
		}
		if strings.Contains(string(body.Data), "password") {
			t.Error("password hash leaked")
		}
		var updated models.User
		env.decode(body, &updated)
		if updated.Username != "alicia" || updated.ID != aliceID {
			t.Errorf("updated = %+v", updated)
		}

		old := map[string]string{"username": "alicia", "password": "password123"}
		if rec, _ := env.do(http.MethodPost, "/api/v1/auth/login", "", old); rec.Code != http.StatusUnauthorized {
			t.Errorf("old password login status = %d, want 401", rec.Code)
		}
		fresh := map[string]string{"username": "alicia", "password": "new-password-456"}
		rec, body = env.do(http.MethodPost, "/api/v1/auth/login", "", fresh)
		if rec.Code != http.StatusOK {
			t.Fatalf("new password login status = %d (%s)", rec.Code, rec.Body.String())
		}
		var login models.LoginResponse
		env.decode(body, &login)
		if login.UserID != aliceID || login.Role != auth.RoleShopper {
			t.Errorf("login = %+v", login)
		}
	})
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(http.MethodGet, "/api/v1/products", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous status = %d", rec.Code)
	}
	var anon recommend.Result
	env.decode(body, &anon)
	if len(anon.Items) != 2 || anon.Items[0].ID != "p-shoe" || anon.Items[0].PreferenceScore != nil {
		t.Errorf("anonymous items = %s", body.Data)
	}
	if body.Meta == nil || body.Meta.Count == nil || *body.Meta.Count != 2 {
		t.Errorf("meta = %+v", body.Meta)
	}

	_, token := env.signupAndLogin("alice")
	_, body = env.do(http.MethodGet, "/api/v1/products", token, nil)
	var cold recommend.Result
	env.decode(body, &cold)
	if !cold.ColdStart || len(cold.Items) != 2 {
		t.Errorf("new shopper result = %s", body.Data)
	}

	// A purchase moves the shopper off the cold-start path.
	rec, _ = env.do(http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"product_ids": []string{"p-hat"}, "quantities": []int{1},
		"product_sum": 800, "shipping_sum": 0, "total_sum": 800,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("order status = %d", rec.Code)
	}
	_, body = env.do(http.MethodGet, "/api/v1/products", token, nil)
	var warm recommend.Result
	env.decode(body, &warm)
	if warm.ColdStart || len(warm.Items) != 2 || warm.Items[0].PreferenceScore == nil {
		t.Errorf("personalized result = %s", body.Data)
	}
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.signupAndLogin("admin")
	_, shopperToken := env.signupAndLogin("alice")

	product := map[string]interface{}{"name": "Bag", "category": "bags", "color": "black", "price": 1000}

	rec, body := env.do(http.MethodPost, "/api/v1/products", shopperToken, product)
	if rec.Code != http.StatusForbidden || errCode(body) != "FORBIDDEN" {
		t.Errorf("shopper: %d %s", rec.Code, errCode(body))
	}
	if rec, _ := env.do(http.MethodPost, "/api/v1/products", "", product); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d", rec.Code)
	}

	rec, body = env.do(http.MethodPost, "/api/v1/products", adminToken, product)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin status = %d (%s)", rec.Code, rec.Body.String())
	}
	var created models.Product
	env.decode(body, &created)
	if _, ok := env.engine.Product(created.ID); !ok {
		t.Error("engine does not know the new product")
	}
	if f, ok := env.engine.ProductFeatures(created.ID); !ok || f.PriceScaled != 1 {
		t.Errorf("price scaling of the most expensive product = %+v", f)
	}

	rec, body = env.do(http.MethodPost, "/api/v1/products", adminToken,
		map[string]interface{}{"name": "Bad", "category": "bags", "color": "black", "price": -5})
	if rec.Code != http.StatusBadRequest || errCode(body) != ErrCodeValidationFailed {
		t.Errorf("negative price: %d %s", rec.Code, errCode(body))
	}
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.signupAndLogin("admin")
	_, shopperToken := env.signupAndLogin("alice")

	change := map[string]interface{}{"name": "Sneaker", "color": "white", "price": 250}

	rec, body := env.do(http.MethodPut, "/api/v1/products/p-shoe", shopperToken, change)
	if rec.Code != http.StatusForbidden || errCode(body) != ErrCodeForbidden {
		t.Errorf("shopper: %d %s", rec.Code, errCode(body))
	}
	if rec, _ := env.do(http.MethodPut, "/api/v1/products/p-shoe", "", change); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d", rec.Code)
	}
	rec, body = env.do(http.MethodPut, "/api/v1/products/p-missing", adminToken, change)
	if rec.Code != http.StatusNotFound || errCode(body) != ErrCodeNotFound {
		t.Errorf("missing product: %d %s", rec.Code, errCode(body))
	}
	rec, body = env.do(http.MethodPut, "/api/v1/products/p-shoe", adminToken, map[string]interface{}{"price": -1})
	if rec.Code != http.StatusBadRequest || errCode(body) != ErrCodeValidationFailed {
		t.Errorf("negative price: %d %s", rec.Code, errCode(body))
	}

	rec, body = env.do(http.MethodPut, "/api/v1/products/p-shoe", adminToken, change)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d (%s)", rec.Code, rec.Body.String())
	}
	var updated models.Product
	env.decode(body, &updated)
	if updated.Name != "Sneaker" || updated.Color != "white" || updated.Price != 250 || updated.Category != "shoes" {
		t.Errorf("updated = %+v", updated)
	}

	if p, _ := env.engine.Product("p-shoe"); p.Name != "Shoe" {
		t.Errorf("engine changed before reload: %+v", p)
	}
	if err := env.engine.Load(context.Background(), env.store); err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, ok := env.engine.Product("p-shoe")
	if !ok || p.Name != "Sneaker" || p.Color != "white" || p.Price != 250 {
		t.Errorf("engine after reload = %+v", p)
	}
}

func TestGetProductRecordsClick(t *testing.T) {
	env := newTestEnv(t)

	if rec, _ := env.do(http.MethodGet, "/api/v1/products/p-shoe", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("anonymous status = %d", rec.Code)
	}
	if env.store.interactionCount(models.ActionClick) != 0 {
		t.Error("anonymous view recorded a click")
	}

	_, token := env.signupAndLogin("alice")
	if rec, _ := env.do(http.MethodGet, "/api/v1/products/p-shoe", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("shopper status = %d", rec.Code)
	}
	if env.store.interactionCount(models.ActionClick) != 1 {
		t.Error("shopper view not persisted as a click")
	}
	if env.engine.Status().Interactions != 1 {
		t.Errorf("engine interactions = %d, want 1", env.engine.Status().Interactions)
	}

	if rec, _ := env.do(http.MethodGet, "/api/v1/products/nope", token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing product status = %d", rec.Code)
	}
}

func TestRateProduct(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signupAndLogin("alice")

	rec, _ := env.do(http.MethodPost, "/api/v1/products/p-shoe/ratings", token, map[string]int{"rating": 5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("rate status = %d (%s)", rec.Code, rec.Body.String())
	}

	p, ok := env.engine.Product("p-shoe")
	if !ok || p.Ratings[userID] != 5 {
		t.Errorf("engine ratings = %v", p.Ratings)
	}
	m := env.engine.Matrices()
	if w, ok := m.AffinityAt(userID, "p-shoe"); !ok || w <= 0 {
		t.Errorf("affinity after rating 5 = %v, %v", w, ok)
	}

	rec, body := env.do(http.MethodPost, "/api/v1/products/p-shoe/ratings", token, map[string]int{"rating": 1})
	if rec.Code != http.StatusConflict || errCode(body) != ErrCodeConflict {
		t.Errorf("second rating: %d %s", rec.Code, errCode(body))
	}

	for _, rating := range []int{0, 6} {
		rec, _ := env.do(http.MethodPost, "/api/v1/products/p-hat/ratings", token, map[string]int{"rating": rating})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("rating %d status = %d, want 400", rating, rec.Code)
		}
	}
	if rec, _ := env.do(http.MethodPost, "/api/v1/products/nope/ratings", token, map[string]int{"rating": 3}); rec.Code != http.StatusNotFound {
		t.Errorf("missing product status = %d", rec.Code)
	}
}

func TestRecommendationsFactor(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signupAndLogin("alice")
	_, adminToken := env.signupAndLogin("admin")

	tests := []struct {
		query  string
		status int
	}{
		{"", http.StatusOK},
		{"?popularity_factor=0", http.StatusOK},
		{"?popularity_factor=1", http.StatusOK},
		{"?popularity_factor=1.5", http.StatusBadRequest},
		{"?popularity_factor=-0.1", http.StatusBadRequest},
		{"?popularity_factor=abc", http.StatusBadRequest},
		{"?popularity_factor=NaN", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec, _ := env.do(http.MethodGet, "/api/v1/recommendations"+tt.query, token, nil)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}

	if rec, _ := env.do(http.MethodGet, "/api/v1/recommendations", adminToken, nil); rec.Code != http.StatusForbidden {
		t.Errorf("admin status = %d, want 403", rec.Code)
	}
}

func TestOrders(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signupAndLogin("alice")
	_, otherToken := env.signupAndLogin("bob")

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"length mismatch", map[string]interface{}{"product_ids": []string{"p-shoe"}, "quantities": []int{1, 2}}, http.StatusBadRequest},
		{"unknown product", map[string]interface{}{"product_ids": []string{"p-nope"}, "quantities": []int{1}}, http.StatusNotFound},
		{"zero quantity", map[string]interface{}{"product_ids": []string{"p-shoe"}, "quantities": []int{0}}, http.StatusBadRequest},
		{"empty", map[string]interface{}{"product_ids": []string{}, "quantities": []int{}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec, _ := env.do(http.MethodPost, "/api/v1/orders", token, tt.body); rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
	if env.store.interactionCount(models.ActionPurchase) != 0 {
		t.Fatal("rejected orders recorded purchases")
	}

	rec, _ := env.do(http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"product_ids": []string{"p-shoe", "p-hat"}, "quantities": []int{2, 1},
		"product_sum": 1200, "shipping_sum": 50, "total_sum": 1250,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("order status = %d (%s)", rec.Code, rec.Body.String())
	}
	if n := env.store.interactionCount(models.ActionPurchase); n != 2 {
		t.Errorf("persisted purchases = %d, want 2", n)
	}
	if env.engine.Status().Interactions != 2 {
		t.Errorf("engine interactions = %d, want 2", env.engine.Status().Interactions)
	}

	rec, body := env.do(http.MethodGet, "/api/v1/orders", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var views []models.OrderView
	env.decode(body, &views)
	if len(views) != 1 || len(views[0].Products) != 2 || views[0].TotalSum != 1250 {
		t.Errorf("orders = %s", body.Data)
	}

	_, body = env.do(http.MethodGet, "/api/v1/orders", otherToken, nil)
	var others []models.OrderView
	env.decode(body, &others)
	if len(others) != 0 {
		t.Errorf("bob sees %d orders", len(others))
	}
}

func TestCatalogFacets(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(http.MethodGet, "/api/v1/catalog/colors", "", nil)
	var colors []string
	env.decode(body, &colors)
	if len(colors) != 2 || colors[0] != "red" || colors[1] != "blue" {
		t.Errorf("colors = %v", colors)
	}

	_, body = env.do(http.MethodGet, "/api/v1/catalog/categories", "", nil)
	var categories []string
	env.decode(body, &categories)
	if len(categories) != 2 || categories[0] != "shoes" {
		t.Errorf("categories = %v", categories)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rec, body := env.do(http.MethodGet, "/api/v1/nope", "", nil)
	if rec.Code != http.StatusNotFound || errCode(body) != ErrCodeNotFound {
		t.Errorf("unknown route: %d %s", rec.Code, errCode(body))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/api/v1/health/live", "", nil)

	rec, _ := env.do(http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("api_requests_total missing from /metrics")
	}
}

// Cancelling the request once the store has committed must not keep the
// write out of the engine.
func TestCommittedWritesReachEngineAfterCancel(t *testing.T) {
	cancelOnCommit := func(env *testEnv) context.Context {
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		env.store.onCommit = cancel
		return ctx
	}

	t.Run("order", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.signupAndLogin("alice")
		ctx := cancelOnCommit(env)

		rec, _ := env.doCtx(ctx, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
			"product_ids": []string{"p-shoe", "p-hat"}, "quantities": []int{1, 1},
			"product_sum": 1000, "shipping_sum": 0, "total_sum": 1000,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("order status = %d (%s)", rec.Code, rec.Body.String())
		}
		if ctx.Err() == nil {
			t.Fatal("request context was not canceled by the commit hook")
		}
		if got := env.engine.Status().Interactions; got != 2 {
			t.Errorf("engine interactions = %d, want both purchases", got)
		}
	})

	t.Run("signup", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := cancelOnCommit(env)

		rec, _ := env.doCtx(ctx, http.MethodPost, "/api/v1/auth/signup", "", map[string]interface{}{
			"username": "bob", "password": "password123", "gender": "m",
			"favorite_colors": []string{"blue"}, "favorite_categories": []string{"hats"},
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("signup status = %d", rec.Code)
		}
		if got := env.engine.Status().Users; got != 1 {
			t.Errorf("engine users = %d, want 1", got)
		}
	})

	t.Run("rating", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.signupAndLogin("carol")
		ctx := cancelOnCommit(env)

		rec, _ := env.doCtx(ctx, http.MethodPost, "/api/v1/products/p-hat/ratings", token, map[string]int{"rating": 4})
		if rec.Code != http.StatusCreated {
			t.Fatalf("rate status = %d", rec.Code)
		}
		if p, _ := env.engine.Product("p-hat"); p.Ratings[userID] != 4 {
			t.Errorf("engine ratings = %v", p.Ratings)
		}
	})
}
