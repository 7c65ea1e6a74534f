// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path         string        `koanf:"path"` // ":memory:" for an in-memory database
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"` // 0 = runtime.NumCPU()
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// RecommendConfig holds the recommendation engine settings.
type RecommendConfig struct {
	// ColorBonus is added to a pair's weight when the product color is a
	// user favorite.
	// Default: 0.5
	ColorBonus float64 `koanf:"color_bonus"`

	// CategoryBonus is added when the product category is a user favorite.
	// Default: 0.5
	CategoryBonus float64 `koanf:"category_bonus"`

	// PricePenalty multiplies the scaled price before it is subtracted.
	// Default: 0.1
	PricePenalty float64 `koanf:"price_penalty"`

	// DefaultPopularityFactor is used when a request does not pass one.
	// Default: 0.5
	DefaultPopularityFactor float64 `koanf:"default_popularity_factor"`

	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`

	// ReloadInterval enables periodic full reloads from the database.
	// Default: 0 (disabled)
	ReloadInterval time.Duration `koanf:"reload_interval"`
	ReloadTimeout  time.Duration `koanf:"reload_timeout"`
}

// SecurityConfig holds authentication and request limiting settings
type SecurityConfig struct {
	JWTSecret     string        `koanf:"jwt_secret"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	AdminUsername string        `koanf:"admin_username"`

	// RevocationPath is the badger directory for revoked token ids.
	// Empty keeps revocations in memory only.
	RevocationPath string `koanf:"revocation_path"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// LoginRate and LoginBurst bound login attempts per username.
	LoginRate  float64 `koanf:"login_rate"` // attempts per second
	LoginBurst int     `koanf:"login_burst"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// EngineConfig converts the recommend section into the engine's own
// configuration type.
func (c *Config) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Affinity.ColorBonus = c.Recommend.ColorBonus
	cfg.Affinity.CategoryBonus = c.Recommend.CategoryBonus
	cfg.Affinity.PricePenalty = c.Recommend.PricePenalty
	cfg.Scoring.DefaultPopularityFactor = c.Recommend.DefaultPopularityFactor
	cfg.Cache.Enabled = c.Recommend.CacheEnabled
	cfg.Cache.TTL = c.Recommend.CacheTTL
	cfg.Cache.MaxEntries = c.Recommend.CacheMaxEntries
	cfg.Reload.Interval = c.Recommend.ReloadInterval
	cfg.Reload.Timeout = c.Recommend.ReloadTimeout
	return cfg
}

// LoggingOptions converts the logging section for logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	out := logging.DefaultConfig()
	out.Level = c.Logging.Level
	out.Format = c.Logging.Format
	out.Caller = c.Logging.Caller
	return out
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
