// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	StoreBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_circuit_breaker_state",
			Help: "Entity store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Recommendation Engine Metrics
	RecommendRebuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_rebuild_duration_seconds",
			Help:    "Duration of a full feature and matrix rebuild",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"trigger"}, // load, user, product, interaction
	)

	RecommendMatrixUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_matrix_users",
			Help: "Rows in the affinity matrix (users with at least one interaction)",
		},
	)

	RecommendMatrixProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_matrix_products",
			Help: "Columns in the affinity matrix (products with at least one interaction)",
		},
	)

	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Recommendation requests by serving path",
		},
		[]string{"path"}, // personalized, cold_start, cache_hit
	)

	RecommendIgnoredInteractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_interactions_ignored_total",
			Help: "Interactions dropped because their action is not recognized",
		},
		[]string{"action"},
	)

	RecommendCatalogSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommend_catalog_size",
			Help: "Entities held by the engine",
		},
		[]string{"kind"}, // users, products, interactions
	)

	// Auth Metrics
	AuthLoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // success, invalid_credentials, throttled
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records a store query and counts it as an error when err is non-nil.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// SetStoreBreakerState publishes a circuit breaker state transition.
func SetStoreBreakerState(name string, state float64) {
	StoreBreakerState.WithLabelValues(name).Set(state)
}

// RecordRebuild records a full rebuild and the resulting matrix shape.
func RecordRebuild(trigger string, duration time.Duration, rows, cols int) {
	RecommendRebuildDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	RecommendMatrixUsers.Set(float64(rows))
	RecommendMatrixProducts.Set(float64(cols))
}

// RecordRecommendation counts a served recommendation by path.
func RecordRecommendation(path string) {
	RecommendRequestsTotal.WithLabelValues(path).Inc()
}

// RecordIgnoredInteraction counts an interaction whose action was not recognized.
func RecordIgnoredInteraction(action string) {
	if len(action) > 32 {
		action = action[:32]
	}
	RecommendIgnoredInteractions.WithLabelValues(action).Inc()
}

// UpdateCatalogSize publishes the engine's table sizes.
func UpdateCatalogSize(users, products, interactions int) {
	RecommendCatalogSize.WithLabelValues("users").Set(float64(users))
	RecommendCatalogSize.WithLabelValues("products").Set(float64(products))
	RecommendCatalogSize.WithLabelValues("interactions").Set(float64(interactions))
}

// RecordLoginAttempt counts a login attempt by result.
func RecordLoginAttempt(result string) {
	AuthLoginAttempts.WithLabelValues(result).Inc()
}
