// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package models defines the data structures shared by the store, the engine,
the event bus and the HTTP API.

Key Components:

  - Product: a catalog entry, read-only for this service
  - SimilarityEntry: one row of the product similarity matrix, stored with
    Product1 < Product2
  - InteractionEvent: an immutable entry of the interaction log
  - RecentInteraction: an interaction joined with its product's category and
    price, the input of preference analysis
  - APIResponse: the standard HTTP response envelope

The package has no dependencies on other internal packages so every layer can
import it without cycles.
*/
package models
