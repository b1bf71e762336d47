// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/models"
)

// sampleCatalog is a small demo catalog for development environments.
func sampleCatalog(now time.Time) []models.Product {
	day := 24 * time.Hour
	return []models.Product{
		{ID: "p-1001", Name: "Wireless Mouse", Description: "Ergonomic wireless mouse with USB receiver", Price: 24.99, Category: "Electronics", Stock: 120, Views: 840, CreatedAt: now.Add(-90 * day)},
		{ID: "p-1002", Name: "Wireless Keyboard", Description: "Slim wireless keyboard with USB receiver", Price: 39.99, Category: "Electronics", Stock: 75, Views: 610, CreatedAt: now.Add(-85 * day)},
		{ID: "p-1003", Name: "USB-C Hub", Description: "Seven port USB-C hub with HDMI output", Price: 49.00, Category: "Electronics", Stock: 40, Views: 390, CreatedAt: now.Add(-60 * day)},
		{ID: "p-1004", Name: "Noise Cancelling Headphones", Description: "Over-ear wireless headphones with active noise cancelling", Price: 199.00, Category: "Electronics", Stock: 18, Views: 1320, CreatedAt: now.Add(-45 * day)},
		{ID: "p-2001", Name: "The Pragmatic Programmer", Description: "Classic book on software craftsmanship", Price: 42.50, Category: "Books", Stock: 30, Views: 510, CreatedAt: now.Add(-120 * day)},
		{ID: "p-2002", Name: "Designing Data-Intensive Applications", Description: "Book on the design of reliable data systems", Price: 45.00, Category: "Books", Stock: 22, Views: 720, CreatedAt: now.Add(-100 * day)},
		{ID: "p-2003", Name: "Night Sky Atlas", Description: "Illustrated star atlas for night sky observation", Price: 29.95, Category: "Books", Stock: 12, Views: 150, CreatedAt: now.Add(-30 * day)},
		{ID: "p-3001", Name: "Pour-Over Coffee Set", Description: "Glass dripper with reusable steel filter", Price: 34.00, Category: "Kitchen", Stock: 55, Views: 280, CreatedAt: now.Add(-70 * day)},
		{ID: "p-3002", Name: "Chef Knife", Description: "Eight inch stainless steel chef knife", Price: 89.00, Category: "Kitchen", Stock: 25, Views: 330, CreatedAt: now.Add(-50 * day)},
		{ID: "p-4001", Name: "Yoga Mat", Description: "Non-slip yoga mat with carry strap", Price: 27.50, Category: "Sports", Stock: 64, Views: 240, CreatedAt: now.Add(-40 * day)},
	}
}

// SeedSampleCatalog loads the demo catalog when the products table is empty
// and returns the number of rows written.
func (db *DB) SeedSampleCatalog(ctx context.Context) (int, error) {
	count, err := db.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logging.Debug().Int64("products", count).Msg("Catalog not empty, skipping sample seed")
		return 0, nil
	}

	n, err := db.UpsertProducts(ctx, sampleCatalog(time.Now().UTC()))
	if err != nil {
		return 0, fmt.Errorf("failed to seed catalog: %w", err)
	}
	logging.Info().Int("products", n).Msg("Seeded sample catalog")
	return n, nil
}
