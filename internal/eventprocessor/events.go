// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package eventprocessor

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/curator/internal/models"
)

// Default topic names.
const (
	DefaultInteractionTopic = "interactions.tracked"
	DefaultRebuildTopic     = "similarities.rebuild"
	DefaultCatalogTopic     = "catalog.products"
)

// Message metadata keys.
const (
	MetadataUserID        = "user_id"
	MetadataProductID     = "product_id"
	MetadataType          = "interaction_type"
	MetadataCorrelationID = "correlation_id"
	MetadataReason        = "reason"
)

// ErrInvalidEvent is returned when a payload fails validation before publish
// or after decode.
var ErrInvalidEvent = errors.New("invalid event")

// InteractionMessage is the payload published for every stored interaction.
type InteractionMessage struct {
	EventID   string                 `json:"event_id"`
	UserID    string                 `json:"user_id"`
	ProductID string                 `json:"product_id"`
	Type      string                 `json:"interaction_type"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// NewInteractionMessage converts a stored event into its wire form.
func NewInteractionMessage(e *models.InteractionEvent) *InteractionMessage {
	return &InteractionMessage{
		EventID:   e.ID,
		UserID:    e.UserID,
		ProductID: e.ProductID,
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		Context:   e.Context,
	}
}

// Validate checks required fields.
func (m *InteractionMessage) Validate() error {
	switch {
	case m.EventID == "":
		return errors.Join(ErrInvalidEvent, errors.New("event_id is required"))
	case m.UserID == "":
		return errors.Join(ErrInvalidEvent, errors.New("user_id is required"))
	case m.ProductID == "":
		return errors.Join(ErrInvalidEvent, errors.New("product_id is required"))
	case !models.InteractionType(m.Type).Valid():
		return errors.Join(ErrInvalidEvent, errors.New("unknown interaction_type "+m.Type))
	case m.Timestamp.IsZero():
		return errors.Join(ErrInvalidEvent, errors.New("timestamp is required"))
	}
	return nil
}

// Event converts the payload back into a models.InteractionEvent.
func (m *InteractionMessage) Event() *models.InteractionEvent {
	return &models.InteractionEvent{
		ID:        m.EventID,
		UserID:    m.UserID,
		ProductID: m.ProductID,
		Type:      models.InteractionType(m.Type),
		Timestamp: m.Timestamp,
		Context:   m.Context,
	}
}

// RebuildRequest asks a consumer to recompute the similarity matrix.
type RebuildRequest struct {
	RequestID   string    `json:"request_id"`
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// Validate checks required fields.
func (r *RebuildRequest) Validate() error {
	if r.RequestID == "" {
		return errors.Join(ErrInvalidEvent, errors.New("request_id is required"))
	}
	if r.RequestedAt.IsZero() {
		return errors.Join(ErrInvalidEvent, errors.New("requested_at is required"))
	}
	return nil
}

// CatalogUpdate carries product changes from the catalog service. Products
// are upserted by id; Removed ids leave the products mirror.
type CatalogUpdate struct {
	UpdateID string           `json:"update_id"`
	Products []models.Product `json:"products,omitempty"`
	Removed  []string         `json:"removed,omitempty"`
	SentAt   time.Time        `json:"sent_at"`
}

// Validate checks required fields and rejects products the similarity
// builder could not score.
func (u *CatalogUpdate) Validate() error {
	if u.UpdateID == "" {
		return errors.Join(ErrInvalidEvent, errors.New("update_id is required"))
	}
	if len(u.Products) == 0 && len(u.Removed) == 0 {
		return errors.Join(ErrInvalidEvent, errors.New("update carries no products or removals"))
	}
	for i := range u.Products {
		p := &u.Products[i]
		switch {
		case p.ID == "":
			return errors.Join(ErrInvalidEvent, fmt.Errorf("products[%d]: id is required", i))
		case p.Name == "":
			return errors.Join(ErrInvalidEvent, fmt.Errorf("product %s: name is required", p.ID))
		case math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0:
			return errors.Join(ErrInvalidEvent, fmt.Errorf("product %s: invalid price %v", p.ID, p.Price))
		}
	}
	for i, id := range u.Removed {
		if id == "" {
			return errors.Join(ErrInvalidEvent, fmt.Errorf("removed[%d] is empty", i))
		}
	}
	return nil
}
