// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter throttles login attempts per username with a token bucket.
// Idle buckets are dropped by Cleanup, which Serve runs periodically.
type LoginLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	maxIdle  time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLoginLimiter allows burst attempts at once, refilling at perSecond.
// A non-positive perSecond disables throttling.
func NewLoginLimiter(perSecond float64, burst int) *LoginLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &LoginLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     limit,
		burst:    burst,
		maxIdle:  15 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether another login attempt for username may proceed.
func (l *LoginLimiter) Allow(username string) bool {
	now := l.now()

	l.mu.Lock()
	entry, ok := l.limiters[username]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[username] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.AllowN(now, 1)
}

// Cleanup removes buckets idle for longer than maxIdle and returns how many
// were removed.
func (l *LoginLimiter) Cleanup() int {
	cutoff := l.now().Add(-l.maxIdle)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for name, entry := range l.limiters {
		if entry.lastAccess.Before(cutoff) {
			delete(l.limiters, name)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked usernames.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Serve runs Cleanup every few minutes until ctx is cancelled. It
// satisfies suture.Service.
func (l *LoginLimiter) Serve(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (l *LoginLimiter) String() string {
	return "login-limiter"
}
