// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"math"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/curator/internal/models"
)

// PriceRange is the observed [Min, Max] price interval of a profile.
// An empty range has Min > Max and contains nothing.
type PriceRange struct {
	Min float64
	Max float64
}

// emptyPriceRange is the starting point of the running min/max.
func emptyPriceRange() PriceRange {
	return PriceRange{Min: math.Inf(1), Max: 0}
}

// Empty reports whether no price has been observed.
func (r PriceRange) Empty() bool {
	return r.Min > r.Max
}

// Contains reports whether price lies inside the closed interval.
func (r PriceRange) Contains(price float64) bool {
	return !r.Empty() && price >= r.Min && price <= r.Max
}

// MarshalJSON encodes an empty range as null since +Inf has no JSON form.
func (r PriceRange) MarshalJSON() ([]byte, error) {
	if r.Empty() {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	}{r.Min, r.Max})
}

// Profile is a user's derived preference summary. It is never persisted.
type Profile struct {
	// Categories counts interactions per product category.
	Categories map[string]int `json:"categories"`

	// PriceRange spans the prices of interacted products.
	PriceRange PriceRange `json:"price_range"`

	// Hours counts interactions per hour of day (0-23).
	Hours map[int]int `json:"hours"`

	// TopCategories holds the most frequent categories, count descending
	// then name ascending.
	TopCategories []string `json:"top_categories"`

	// Interactions is the number of interactions the profile was built from.
	Interactions int `json:"interactions"`
}

// HasTopCategory reports whether category is one of the preferred ones.
func (p *Profile) HasTopCategory(category string) bool {
	for _, c := range p.TopCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ActiveAt reports whether the user has any recorded activity at hour.
func (p *Profile) ActiveAt(hour int) bool {
	return p.Hours[hour] > 0
}

// Source records which phase selected a candidate.
type Source string

const (
	SourceSimilarity Source = "similarity"
	SourceBackfill   Source = "backfill"
)

// Candidate is a product chosen by the ranker, with its composite score.
type Candidate struct {
	Product models.Product
	Score   float64
	Source  Source
}

// Result is one recommendation as presented to the caller.
type Result struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Relevance   int     `json:"relevance"`
}

// TrackRequest is the input of Engine.TrackInteraction.
type TrackRequest struct {
	UserID    string
	ProductID string
	Type      models.InteractionType

	// Device is typically the request User-Agent. Empty means unknown.
	Device string

	// Context is caller-supplied metadata. Keys override the enrichment keys.
	Context map[string]interface{}

	// Timestamp defaults to the engine clock when zero.
	Timestamp time.Time
}

// RebuildReport summarises one similarity matrix rebuild.
type RebuildReport struct {
	Products   int           `json:"products"`
	Pairs      int           `json:"pairs"`
	Updated    int           `json:"updated_count"`
	PairErrors int           `json:"pair_errors"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
}
