// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Affinity controls how summed interaction weights are adjusted
	// before they enter the affinity matrix.
	Affinity AffinityConfig `json:"affinity"`

	// Scoring contains parameters for the blended recommendation score.
	Scoring ScoringConfig `json:"scoring"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`

	// Reload contains periodic snapshot reload parameters.
	Reload ReloadConfig `json:"reload"`
}

// AffinityConfig defines the preference bonuses and price penalty applied
// to each aggregated (user, product) weight.
type AffinityConfig struct {
	// ColorBonus is added when the product color is a user favorite.
	// Default: 0.5.
	ColorBonus float64 `json:"color_bonus"`

	// CategoryBonus is added when the product category is a user favorite.
	// Default: 0.5.
	CategoryBonus float64 `json:"category_bonus"`

	// PricePenalty is multiplied by the scaled price and subtracted.
	// Default: 0.1.
	PricePenalty float64 `json:"price_penalty"`
}

// ScoringConfig defines the blended score parameters.
type ScoringConfig struct {
	// DefaultPopularityFactor is used when a caller does not supply one.
	// 0 ranks purely on preference, 1 purely on popularity.
	// Default: 0.5.
	DefaultPopularityFactor float64 `json:"default_popularity_factor"`
}

// CacheConfig contains parameters for the personalized result cache.
type CacheConfig struct {
	// Enabled turns the result cache on.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is how long a cached result stays valid when no mutation
	// invalidates it first.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries bounds the number of cached (user, factor) results.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// ReloadConfig contains parameters for periodically reloading the
// engine from the entity store.
type ReloadConfig struct {
	// Interval between full reloads. Zero disables periodic reload.
	// Default: 0.
	Interval time.Duration `json:"interval"`

	// Timeout bounds a single snapshot load.
	// Default: 30s.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Affinity: AffinityConfig{
			ColorBonus:    0.5,
			CategoryBonus: 0.5,
			PricePenalty:  0.1,
		},
		Scoring: ScoringConfig{
			DefaultPopularityFactor: 0.5,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
		Reload: ReloadConfig{
			Interval: 0,
			Timeout:  30 * time.Second,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Affinity.ColorBonus < 0 {
		return fmt.Errorf("affinity.color_bonus must be non-negative, got %f", c.Affinity.ColorBonus)
	}
	if c.Affinity.CategoryBonus < 0 {
		return fmt.Errorf("affinity.category_bonus must be non-negative, got %f", c.Affinity.CategoryBonus)
	}
	if c.Affinity.PricePenalty < 0 {
		return fmt.Errorf("affinity.price_penalty must be non-negative, got %f", c.Affinity.PricePenalty)
	}

	if !validFactor(c.Scoring.DefaultPopularityFactor) {
		return fmt.Errorf("scoring.default_popularity_factor must be in [0, 1], got %f", c.Scoring.DefaultPopularityFactor)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	if c.Reload.Interval < 0 {
		return fmt.Errorf("reload.interval must be non-negative, got %v", c.Reload.Interval)
	}
	if c.Reload.Timeout <= 0 {
		return fmt.Errorf("reload.timeout must be positive, got %v", c.Reload.Timeout)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs hold value types only.
	return &Config{
		Affinity: c.Affinity,
		Scoring:  c.Scoring,
		Cache:    c.Cache,
		Reload:   c.Reload,
	}
}

func validFactor(f float64) bool {
	return f >= 0 && f <= 1
}
