// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"fmt"
)

// Table names.
const (
	tableProducts     = "products"
	tableInteractions = "interactions"
	tableSimilarities = "product_similarities"
)

func (db *DB) createTables(ctx context.Context) error {
	queries := []string{
		// Mirror of the external catalog. The engine only reads it; the
		// catalog feed consumer and the sample seed write it.
		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			description VARCHAR NOT NULL DEFAULT '',
			price DOUBLE NOT NULL DEFAULT 0,
			category VARCHAR NOT NULL DEFAULT '',
			image_url VARCHAR NOT NULL DEFAULT '',
			stock INTEGER NOT NULL DEFAULT 0,
			views BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		);`,

		// Append-only interaction log. No uniqueness beyond the event id.
		`CREATE TABLE IF NOT EXISTS interactions (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			product_id VARCHAR NOT NULL,
			interaction_type VARCHAR NOT NULL,
			occurred_at TIMESTAMP NOT NULL,
			context VARCHAR
		);`,

		// One row per unordered pair, stored with product1 < product2.
		`CREATE TABLE IF NOT EXISTS product_similarities (
			product1 VARCHAR NOT NULL,
			product2 VARCHAR NOT NULL,
			similarity DOUBLE NOT NULL,
			last_updated TIMESTAMP NOT NULL,
			PRIMARY KEY (product1, product2),
			CHECK (product1 < product2),
			CHECK (similarity >= 0 AND similarity <= 1)
		);`,
	}

	for _, q := range queries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes(ctx context.Context) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_interactions_user_time ON interactions(user_id, occurred_at);`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_product_time ON interactions(product_id, occurred_at);`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);`,
	}

	for _, q := range indexes {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
