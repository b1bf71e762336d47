// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// HistoryWindow is how many recent interactions feed the profile.
	HistoryWindow int `json:"history_window"`

	// TopCategories is how many categories count as preferred.
	TopCategories int `json:"top_categories"`

	// NeighborLimit caps similarity rows fetched before scoring.
	NeighborLimit int `json:"neighbor_limit"`

	// ResultLimit is the maximum number of recommendations returned.
	ResultLimit int `json:"result_limit"`

	// DaytimeCategory gets the day/night bonus between 06:00 and 18:00.
	DaytimeCategory string `json:"daytime_category"`

	// NighttimeCategory gets the day/night bonus outside daytime.
	NighttimeCategory string `json:"nighttime_category"`

	// PlaceholderImage replaces a missing product image.
	PlaceholderImage string `json:"placeholder_image"`

	// Location is the timezone used for hour-of-day and day-of-week.
	Location *time.Location `json:"-"`

	// Workers is the number of goroutines scoring pairs during a rebuild.
	Workers int `json:"workers"`

	// BatchSize is the number of similarity rows per upsert call.
	BatchSize int `json:"batch_size"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		HistoryWindow:     20,
		TopCategories:     3,
		NeighborLimit:     30,
		ResultLimit:       8,
		DaytimeCategory:   "Electronics",
		NighttimeCategory: "Books",
		PlaceholderImage:  "https://via.placeholder.com/300x200?text=No+Image",
		Location:          time.Local,
		Workers:           runtime.NumCPU(),
		BatchSize:         500,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.HistoryWindow < 1 {
		return fmt.Errorf("history_window must be positive, got %d", c.HistoryWindow)
	}
	if c.TopCategories < 1 {
		return fmt.Errorf("top_categories must be positive, got %d", c.TopCategories)
	}
	if c.NeighborLimit < 1 {
		return fmt.Errorf("neighbor_limit must be positive, got %d", c.NeighborLimit)
	}
	if c.ResultLimit < 1 {
		return fmt.Errorf("result_limit must be positive, got %d", c.ResultLimit)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	return nil
}

func (c *Config) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}
