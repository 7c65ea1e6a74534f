// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package cache provides a thread-safe, generic LRU cache with TTL expiry.

The recommendation engine uses it to keep personalized results between
mutations:

	results := cache.NewLRU[*recommend.Result](10000, 5*time.Minute)
	results.Add(key, result)
	if r, ok := results.Get(key); ok {
	    return r
	}

Every successful add_user, add_product or add_interaction clears the cache,
so a cached entry never outlives the matrices it was computed from.
*/
package cache
