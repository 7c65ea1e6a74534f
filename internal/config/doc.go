// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package config loads and validates application configuration.

Configuration is layered with koanf. Later layers override earlier ones:

 1. Struct defaults (defaultConfig)
 2. YAML file from CONFIG_PATH, ./config.yaml or /etc/vitrine/config.yaml
 3. Environment variables

# Environment Variables

Server:
  - HTTP_PORT, HTTP_HOST (default 0.0.0.0:8080)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging, production

Database:
  - DUCKDB_PATH (default /data/vitrine.duckdb, ":memory:" for ephemeral runs)
  - DUCKDB_MAX_MEMORY, DUCKDB_THREADS, DUCKDB_QUERY_TIMEOUT

Recommendation engine:
  - RECOMMEND_COLOR_BONUS, RECOMMEND_CATEGORY_BONUS, RECOMMEND_PRICE_PENALTY
  - RECOMMEND_POPULARITY_FACTOR (default 0.5)
  - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_MAX_ENTRIES
  - RECOMMEND_RELOAD_INTERVAL (0 disables periodic reload), RECOMMEND_RELOAD_TIMEOUT

Security:
  - JWT_SECRET (required, at least 32 characters)
  - TOKEN_TTL (default 1h)
  - ADMIN_USERNAME (default admin): the account allowed to create products
  - REVOCATION_PATH: badger directory for logged-out tokens
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - LOGIN_RATE, LOGIN_BURST: per-username login throttle
  - CORS_ORIGINS: comma-separated

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingOptions())
*/
package config
