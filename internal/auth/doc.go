// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package auth provides authentication and authorization for the storefront API.

Shoppers sign up and log in with a username and password. Passwords are
stored as bcrypt hashes. A successful login issues an HS512-signed JWT
carrying the user id, username, role and a unique token id (jti). Logging
out records the jti in a badger-backed RevocationStore until the token
would have expired anyway.

Roles:

  - admin: the account whose username equals security.admin_username
  - shopper: every other account

Authorization is delegated to casbin with an embedded RBAC model and policy
(see model.conf and policy.csv). LoginLimiter throttles login attempts per
username with a token bucket.

Usage:

	tokens, err := auth.NewTokenManager(&cfg.Security)
	revocations, err := auth.NewRevocationStore(cfg.Security.RevocationPath)
	authorizer, err := auth.NewAuthorizer()
	mw := auth.NewMiddleware(tokens, revocations, authorizer, nil)

	r.With(mw.Authenticate, mw.Authorize(auth.ObjectOrders, auth.ActionWrite)).
		Post("/orders", h.CreateOrder)
*/
package auth
