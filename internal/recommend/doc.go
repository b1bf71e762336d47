// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package recommend implements the product recommendation core.
//
// # Architecture
//
// The engine is split into small parts that each do one thing:
//
//   - Builder: offline O(n²) similarity matrix rebuild over the catalog
//   - AnalyzePreferences: pure profile derivation from recent interactions
//   - Scorer: composite personal score shared by ranking and relevance
//   - Ranker: similarity neighbours first, popularity backfill after
//   - Assembler: presentation records with rationale and relevance
//
// Engine wires them to three stores (Catalog, InteractionStore and
// SimilarityStore) passed in through Deps. The database package implements
// all three.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Deps{
//	    Catalog:      db,
//	    Interactions: db,
//	    Similarities: db,
//	}, logger)
//
//	results, err := engine.GetRecommendations(ctx, userID)
//
// # Errors
//
// Every error returned by Engine is a *Error. Match the kind with errors.Is:
//
//	if errors.Is(err, recommend.ErrNotFound) { ... }
//
// Per-pair computation errors during a rebuild never escape; the pair is
// stored with similarity 0.
//
// # Thread Safety
//
// Engine is safe for concurrent use. At most one rebuild runs at a time;
// a second caller gets ErrRebuildInProgress. Reads may observe a partially
// rebuilt matrix.
package recommend
