// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package models

import "time"

// InteractionType is the action a shopper performed on a product.
type InteractionType string

const (
	// InteractionView is a product page view.
	InteractionView InteractionType = "view"
	// InteractionAddToCart is an add-to-cart action.
	InteractionAddToCart InteractionType = "add_to_cart"
	// InteractionPurchase is a completed purchase.
	InteractionPurchase InteractionType = "purchase"
	// InteractionWishlist is a wishlist addition.
	InteractionWishlist InteractionType = "wishlist"
)

// InteractionTypes lists every accepted type in declaration order.
var InteractionTypes = []InteractionType{
	InteractionView,
	InteractionAddToCart,
	InteractionPurchase,
	InteractionWishlist,
}

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Context keys written by the engine before caller keys are merged.
const (
	ContextTimeOfDay = "time_of_day"
	ContextDayOfWeek = "day_of_week"
	ContextDevice    = "device"
)

// InteractionEvent is an immutable entry of the interaction log.
type InteractionEvent struct {
	// ID is generated on write.
	ID string `json:"id"`

	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	Type      InteractionType `json:"interaction_type"`

	// Timestamp defaults to the time the event was recorded.
	Timestamp time.Time `json:"timestamp"`

	// Context holds time_of_day, day_of_week, device and any caller keys.
	Context map[string]interface{} `json:"context,omitempty"`
}

// RecentInteraction is an interaction joined with the catalog fields the
// preference analyzer needs.
type RecentInteraction struct {
	ProductID string          `json:"product_id"`
	Type      InteractionType `json:"interaction_type"`
	Category  string          `json:"category"`
	Price     float64         `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}
