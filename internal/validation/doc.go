// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package validation provides struct validation using go-playground/validator v10.

A single validator instance is built once and shared; it caches struct
metadata and is safe for concurrent use. Field names in errors are the JSON
names of the request body.

Custom tags:

  - interaction_type: one of view, add_to_cart, purchase, wishlist
  - identifier: a non-blank id of at most 128 printable characters

Example:

	type TrackInteractionRequest struct {
	    ProductID       string `json:"product_id" validate:"required,identifier"`
	    InteractionType string `json:"interaction_type" validate:"required,interaction_type"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	    return
	}

Errors convert to the API's VALIDATION_ERROR shape through ToAPIError. A
single failure reports field, tag and value in Details; several failures are
listed under Details["fields"].
*/
package validation
