// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "DUCKDB_PATH",
		},
		{
			name:    "zero neighbor limit",
			mutate:  func(c *Config) { c.Recommend.NeighborLimit = 0 },
			wantErr: "RECOMMEND_NEIGHBOR_LIMIT",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Recommend.RebuildWorkers = -1 },
			wantErr: "RECOMMEND_REBUILD_WORKERS",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Recommend.Timezone = "Mars/Olympus" },
			wantErr: "RECOMMEND_TIMEZONE",
		},
		{
			name:    "relative placeholder image",
			mutate:  func(c *Config) { c.Recommend.PlaceholderImage = "/img/none.png" },
			wantErr: "RECOMMEND_PLACEHOLDER_IMAGE",
		},
		{
			name:   "named timezone",
			mutate: func(c *Config) { c.Recommend.Timezone = "UTC" },
		},
		{
			name: "events url and embedded are exclusive",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.URL = "nats://localhost:4222"
				c.Events.EmbeddedServer = true
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "events url scheme",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.URL = "http://localhost:4222"
			},
			wantErr: "NATS_URL",
		},
		{
			name: "events topics must differ",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.RebuildTopic = c.Events.InteractionTopic
			},
			wantErr: "must differ",
		},
		{
			name: "catalog topic must differ",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.CatalogTopic = c.Events.RebuildTopic
			},
			wantErr: "must differ",
		},
		{
			name: "empty catalog topic",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.CatalogTopic = ""
			},
			wantErr: "must not be empty",
		},
		{
			name: "disabled events skip checks",
			mutate: func(c *Config) {
				c.Events.Enabled = false
				c.Events.URL = "http://ignored"
			},
		},
		{
			name:    "rate limit window",
			mutate:  func(c *Config) { c.Security.RateLimitWindow = 0 },
			wantErr: "RATE_LIMIT_WINDOW",
		},
		{
			name: "rate limit disabled skips window",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitWindow = 0
			},
		},
		{
			name: "short jwt secret in production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.JWTSecret = "short"
			},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRecommendConfigLocation(t *testing.T) {
	c := RecommendConfig{Timezone: "UTC"}
	if c.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", c.Location())
	}

	c.Timezone = ""
	if c.Location() != time.Local {
		t.Errorf("Location() = %v, want Local", c.Location())
	}

	c.Timezone = "Not/AZone"
	if c.Location() != time.Local {
		t.Errorf("Location() should fall back to Local for unknown zones")
	}
}

func TestServerConfigAddr(t *testing.T) {
	c := ServerConfig{Host: "0.0.0.0", Port: 8080}
	if got := c.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", got)
	}
}
