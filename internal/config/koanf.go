// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/curator/config.yaml",
	"/etc/curator/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultPlaceholderImage is shown for products without an image.
const DefaultPlaceholderImage = "https://via.placeholder.com/300x200?text=No+Image"

// defaultConfig returns the built-in defaults, the lowest configuration layer.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:                    "/data/curator.duckdb",
			MaxMemory:               "1GB",
			Threads:                 0,
			QueryTimeout:            30 * time.Second,
			BreakerFailureThreshold: 5,
			BreakerTimeout:          30 * time.Second,
			SeedSampleCatalog:       false,
		},
		Recommend: RecommendConfig{
			HistoryWindow:     20,
			TopCategories:     3,
			NeighborLimit:     30,
			ResultLimit:       8,
			DaytimeCategory:   "Electronics",
			NighttimeCategory: "Books",
			PlaceholderImage:  DefaultPlaceholderImage,
			Timezone:          "Local",
			RebuildOnStartup:  false,
			RebuildInterval:   6 * time.Hour,
			RebuildTimeout:    30 * time.Minute,
			RebuildWorkers:    0,
			UpsertBatchSize:   500,
		},
		Events: EventsConfig{
			Enabled:            false,
			URL:                "",
			EmbeddedServer:     false,
			EmbeddedHost:       "127.0.0.1",
			EmbeddedPort:       4222,
			QueueGroup:         "curator",
			InteractionTopic:   "interactions.tracked",
			RebuildTopic:       "similarities.rebuild",
			CatalogTopic:       "catalog.products",
			RebuildMinInterval: time.Minute,
			MaxReconnects:      -1,
			ReconnectWait:      2 * time.Second,
			CloseTimeout:       30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration from three layers, later layers winning:
//  1. built-in defaults
//  2. optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. mapped environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields turns comma-separated strings into slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Database
	"duckdb_path":              "database.path",
	"duckdb_max_memory":        "database.max_memory",
	"duckdb_threads":           "database.threads",
	"duckdb_query_timeout":     "database.query_timeout",
	"duckdb_breaker_threshold": "database.breaker_failure_threshold",
	"duckdb_breaker_timeout":   "database.breaker_timeout",
	"seed_sample_catalog":      "database.seed_sample_catalog",

	// Recommendation engine
	"recommend_history_window":     "recommend.history_window",
	"recommend_top_categories":     "recommend.top_categories",
	"recommend_neighbor_limit":     "recommend.neighbor_limit",
	"recommend_result_limit":       "recommend.result_limit",
	"recommend_daytime_category":   "recommend.daytime_category",
	"recommend_nighttime_category": "recommend.nighttime_category",
	"recommend_placeholder_image":  "recommend.placeholder_image",
	"recommend_timezone":           "recommend.timezone",
	"recommend_rebuild_on_startup": "recommend.rebuild_on_startup",
	"recommend_rebuild_interval":   "recommend.rebuild_interval",
	"recommend_rebuild_timeout":    "recommend.rebuild_timeout",
	"recommend_rebuild_workers":    "recommend.rebuild_workers",
	"recommend_upsert_batch_size":  "recommend.upsert_batch_size",

	// Events
	"events_enabled":              "events.enabled",
	"nats_url":                    "events.url",
	"nats_embedded":               "events.embedded_server",
	"nats_embedded_host":          "events.embedded_host",
	"nats_embedded_port":          "events.embedded_port",
	"nats_queue_group":            "events.queue_group",
	"events_interaction_topic":    "events.interaction_topic",
	"events_rebuild_topic":        "events.rebuild_topic",
	"events_catalog_topic":        "events.catalog_topic",
	"events_rebuild_min_interval": "events.rebuild_min_interval",
	"nats_max_reconnects":         "events.max_reconnects",
	"nats_reconnect_wait":         "events.reconnect_wait",
	"events_close_timeout":        "events.close_timeout",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a koanf path.
//
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - RECOMMEND_RESULT_LIMIT -> recommend.result_limit
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// Load is the application entry point for configuration.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
