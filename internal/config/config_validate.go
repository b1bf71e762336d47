// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the loaded configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend

	positives := []struct {
		name  string
		value int
	}{
		{"RECOMMEND_HISTORY_WINDOW", r.HistoryWindow},
		{"RECOMMEND_TOP_CATEGORIES", r.TopCategories},
		{"RECOMMEND_NEIGHBOR_LIMIT", r.NeighborLimit},
		{"RECOMMEND_RESULT_LIMIT", r.ResultLimit},
		{"RECOMMEND_UPSERT_BATCH_SIZE", r.UpsertBatchSize},
	}
	for _, p := range positives {
		if p.value < 1 {
			return fmt.Errorf("%s must be >= 1, got %d", p.name, p.value)
		}
	}

	if r.RebuildWorkers < 0 {
		return fmt.Errorf("RECOMMEND_REBUILD_WORKERS must be >= 0, got %d", r.RebuildWorkers)
	}
	if r.RebuildInterval < 0 {
		return fmt.Errorf("RECOMMEND_REBUILD_INTERVAL must not be negative")
	}
	if r.RebuildTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REBUILD_TIMEOUT must be positive")
	}
	if r.PlaceholderImage != "" {
		if err := validateImageURL(r.PlaceholderImage, "RECOMMEND_PLACEHOLDER_IMAGE"); err != nil {
			return err
		}
	}
	if r.Timezone != "" && r.Timezone != "Local" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			return fmt.Errorf("RECOMMEND_TIMEZONE %q is not a valid IANA zone: %w", r.Timezone, err)
		}
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if c.Events.URL != "" && c.Events.EmbeddedServer {
		return fmt.Errorf("NATS_URL and NATS_EMBEDDED are mutually exclusive")
	}
	if c.Events.URL != "" {
		if err := validateNATSURL(c.Events.URL); err != nil {
			return err
		}
	}
	if c.Events.EmbeddedServer && (c.Events.EmbeddedPort < 1 || c.Events.EmbeddedPort > 65535) {
		return fmt.Errorf("NATS_EMBEDDED_PORT must be between 1 and 65535, got %d", c.Events.EmbeddedPort)
	}
	if c.Events.InteractionTopic == "" || c.Events.RebuildTopic == "" || c.Events.CatalogTopic == "" {
		return fmt.Errorf("event topics must not be empty")
	}
	if c.Events.InteractionTopic == c.Events.RebuildTopic ||
		c.Events.InteractionTopic == c.Events.CatalogTopic ||
		c.Events.RebuildTopic == c.Events.CatalogTopic {
		return fmt.Errorf("EVENTS_INTERACTION_TOPIC, EVENTS_REBUILD_TOPIC and EVENTS_CATALOG_TOPIC must differ")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be >= 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.Server.Environment == "production" && c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
