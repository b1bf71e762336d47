// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package models

import "time"

// Product is a catalog entry as seen by the recommendation engine.
// The catalog is owned by another service; the engine only reads it.
type Product struct {
	// ID is the catalog identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Description is free text used for token overlap similarity.
	// May be empty.
	Description string `json:"description"`

	// Price in the store currency. Never negative for well-formed rows.
	Price float64 `json:"price"`

	// Category is the single merchandising category (e.g. "Books").
	Category string `json:"category"`

	// ImageURL is optional; the assembler substitutes a placeholder.
	ImageURL string `json:"image_url,omitempty"`

	// Stock is the units on hand.
	Stock int `json:"stock"`

	// Views is the popularity signal used for backfill ordering.
	Views int64 `json:"views"`

	// CreatedAt is when the product entered the catalog.
	CreatedAt time.Time `json:"created_at"`
}

// SimilarityEntry is one row of the similarity matrix.
// Product1 always sorts before Product2 so each unordered pair has one row.
type SimilarityEntry struct {
	Product1    string    `json:"product1"`
	Product2    string    `json:"product2"`
	Similarity  float64   `json:"similarity"`
	LastUpdated time.Time `json:"last_updated"`
}

// Other returns the side of the pair that is not id.
// When id matches neither side, Product2 is returned.
func (e SimilarityEntry) Other(id string) string {
	if e.Product2 == id {
		return e.Product1
	}
	return e.Product2
}
