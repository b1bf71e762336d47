// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are layered defaults -> YAML file -> environment (see LoadWithKoanf).
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Events    EventsConfig    `koanf:"events"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	// Default: 0.0.0.0
	Host string `koanf:"host"`

	// Port is the listen port.
	// Default: 8080
	Port int `koanf:"port"`

	// Timeout applies to reads and writes of a single request.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	// Default: 10s
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB file. ":memory:" opens an in-memory database.
	// Default: /data/curator.duckdb
	Path string `koanf:"path"`

	// MaxMemory is passed to DuckDB's max_memory setting.
	// Default: 1GB
	MaxMemory string `koanf:"max_memory"`

	// Threads is DuckDB's worker count. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`

	// QueryTimeout bounds every store query.
	// Default: 30s
	QueryTimeout time.Duration `koanf:"query_timeout"`

	// BreakerFailureThreshold is the number of consecutive query failures that
	// opens the store circuit breaker.
	// Default: 5
	BreakerFailureThreshold uint32 `koanf:"breaker_failure_threshold"`

	// BreakerTimeout is how long the breaker stays open before probing.
	// Default: 30s
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`

	// SeedSampleCatalog loads a small demo catalog when the products table is empty.
	SeedSampleCatalog bool `koanf:"seed_sample_catalog"`
}

// RecommendConfig holds engine tuning knobs.
type RecommendConfig struct {
	// HistoryWindow is how many recent interactions feed the profile.
	// Default: 20
	HistoryWindow int `koanf:"history_window"`

	// TopCategories is how many categories the profile keeps.
	// Default: 3
	TopCategories int `koanf:"top_categories"`

	// NeighborLimit caps similarity rows fetched before scoring.
	// Default: 30
	NeighborLimit int `koanf:"neighbor_limit"`

	// ResultLimit is the number of recommendations returned.
	// Default: 8
	ResultLimit int `koanf:"result_limit"`

	// DaytimeCategory is favoured between 06:00 and 18:00.
	// Default: Electronics
	DaytimeCategory string `koanf:"daytime_category"`

	// NighttimeCategory is favoured outside daytime hours.
	// Default: Books
	NighttimeCategory string `koanf:"nighttime_category"`

	// PlaceholderImage replaces missing product images.
	PlaceholderImage string `koanf:"placeholder_image"`

	// Timezone is the IANA zone used for hour-of-day bucketing.
	// Default: Local
	Timezone string `koanf:"timezone"`

	// RebuildOnStartup runs a similarity rebuild when the service starts.
	RebuildOnStartup bool `koanf:"rebuild_on_startup"`

	// RebuildInterval is the scheduled rebuild period. 0 disables the schedule.
	// Default: 6h
	RebuildInterval time.Duration `koanf:"rebuild_interval"`

	// RebuildTimeout bounds a single rebuild run.
	// Default: 30m
	RebuildTimeout time.Duration `koanf:"rebuild_timeout"`

	// RebuildWorkers is the number of goroutines scoring pairs.
	// 0 uses runtime.NumCPU().
	RebuildWorkers int `koanf:"rebuild_workers"`

	// UpsertBatchSize is the number of pairs written per transaction.
	// Default: 500
	UpsertBatchSize int `koanf:"upsert_batch_size"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	// Enabled turns on interaction publishing and message-triggered rebuilds.
	Enabled bool `koanf:"enabled"`

	// URL of an external NATS server. Empty with EmbeddedServer=false selects
	// the in-process channel transport.
	URL string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server and connects to it.
	EmbeddedServer bool `koanf:"embedded_server"`

	// EmbeddedHost and EmbeddedPort are the embedded server listen address.
	EmbeddedHost string `koanf:"embedded_host"`
	EmbeddedPort int    `koanf:"embedded_port"`

	// QueueGroup load-balances rebuild requests across instances.
	// Default: curator
	QueueGroup string `koanf:"queue_group"`

	// InteractionTopic receives every tracked interaction.
	// Default: interactions.tracked
	InteractionTopic string `koanf:"interaction_topic"`

	// RebuildTopic carries rebuild requests.
	// Default: similarities.rebuild
	RebuildTopic string `koanf:"rebuild_topic"`

	// CatalogTopic carries product upserts and removals from the catalog
	// service into the products mirror.
	// Default: catalog.products
	CatalogTopic string `koanf:"catalog_topic"`

	// RebuildMinInterval drops rebuild requests arriving sooner than this
	// after the previous accepted one.
	// Default: 1m
	RebuildMinInterval time.Duration `koanf:"rebuild_min_interval"`

	// MaxReconnects and ReconnectWait tune the NATS client.
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`

	// CloseTimeout bounds router shutdown.
	// Default: 30s
	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// SecurityConfig holds HTTP hardening and caller identity settings.
type SecurityConfig struct {
	// JWTSecret verifies HS256 bearer tokens from the auth service.
	// Empty means the gateway-supplied X-User-ID header is trusted.
	JWTSecret string `koanf:"jwt_secret"`

	// JWTIssuer, when set, must match the token's iss claim.
	JWTIssuer string `koanf:"jwt_issuer"`

	// RateLimitReqs per RateLimitWindow per client IP.
	// Default: 100 per 1m
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// CORSOrigins is the allowed origin list.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller adds file:line to log lines.
	Caller bool `koanf:"caller"`
}

// Location resolves the configured time zone, falling back to time.Local.
func (c *RecommendConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Addr returns host:port for the HTTP listener.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
