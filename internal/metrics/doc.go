// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package metrics provides Prometheus instrumentation for the service.

Metrics are registered on the default registry through promauto and exposed
at /metrics in the Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

Store:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table}
  - store_circuit_breaker_state{name}

Recommendation engine:
  - recommend_rebuild_duration_seconds{trigger}
  - recommend_matrix_users, recommend_matrix_products
  - recommend_requests_total{path}
  - recommend_interactions_ignored_total{action}
  - recommend_catalog_size{kind}

Auth:
  - auth_login_attempts_total{result}

Callers record through the Record* helpers rather than touching the vectors
directly, so label sets stay consistent.
*/
package metrics
