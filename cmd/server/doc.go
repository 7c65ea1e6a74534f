// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package main is the entry point for the Vitrine server.

Vitrine serves a storefront API: shopper signup and login, a product
catalog, ratings, orders and personalized product rankings. Rankings blend
a shopper's predicted preference with product popularity; the mix is
chosen per request with popularity_factor.

# Application Architecture

	RootSupervisor ("vitrine")
	├── EngineSupervisor ("engine-layer")
	│   └── Engine reload (optional, RECOMMEND_RELOAD_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    ├── HTTP Server
	    └── Login limiter cleanup

Startup order:

 1. Configuration: Koanf v2 (defaults, optional config.yaml, environment)
 2. Logging: zerolog
 3. Database: DuckDB, with migrations applied on open
 4. Engine: full load from the database; the server does not start if
    this fails
 5. Auth: JWT tokens, badger-backed revocation list, casbin policy
 6. HTTP: chi router under the supervisor tree

# Configuration

	JWT_SECRET              token signing secret (required)
	ADMIN_USERNAME          account that receives the admin role
	DATABASE_PATH           DuckDB file, ":memory:" for ephemeral runs
	REVOCATION_PATH         badger directory for logged-out tokens
	RECOMMEND_RELOAD_INTERVAL  periodic full reload, 0 disables

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in
flight requests within SERVER_SHUTDOWN_TIMEOUT, then the database and
revocation store are closed.
*/
package main
