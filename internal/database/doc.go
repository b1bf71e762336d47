// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package database is the DuckDB-backed store of the recommendation engine.

DB implements the three store interfaces of the recommend package:

  - recommend.Catalog: read access to the products table, a mirror of the
    external catalog (written by the catalog feed consumer in eventprocessor
    through UpsertProducts and DeleteProducts)
  - recommend.InteractionStore: the append-only interactions log
  - recommend.SimilarityStore: the product_similarities matrix

# Schema

	products              (id PK, name, description, price, category,
	                       image_url, stock, views, created_at)
	interactions          (id PK, user_id, product_id, interaction_type,
	                       occurred_at, context JSON text)
	                       idx (user_id, occurred_at), idx (product_id, occurred_at)
	product_similarities  (product1, product2, similarity, last_updated)
	                       PK (product1, product2), product1 < product2

Timestamps are stored as UTC TIMESTAMP values.

# Resilience

Every store call runs through a gobreaker circuit breaker named "duckdb".
After BreakerFailureThreshold consecutive failures calls fail fast with
ErrCircuitOpen until BreakerTimeout has passed. Context cancellation does not
count as a failure. Similarity batch upserts retry on DuckDB transaction
conflicts.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	engine, err := recommend.NewEngine(recCfg, recommend.Deps{
	    Catalog: db, Interactions: db, Similarities: db,
	}, logger)

# Testing

Tests open ":memory:" databases through setupTestDB, which serializes DuckDB
access across parallel tests.
*/
package database
