// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/metrics"
	"github.com/tomtom215/curator/internal/models"
)

// CatalogWriter applies catalog changes to the products mirror.
type CatalogWriter interface {
	UpsertProducts(ctx context.Context, products []models.Product) (int, error)
	DeleteProducts(ctx context.Context, ids []string) (int64, error)
}

// CatalogHandler consumes catalog.products messages and keeps the products
// mirror in step with the catalog service.
//
// Upserts are applied before removals, so an update that both changes and
// removes an id ends with the id removed. Both operations are idempotent,
// which makes redelivery after a failed write safe.
type CatalogHandler struct {
	writer CatalogWriter
	logger zerolog.Logger
}

// NewCatalogHandler creates a handler writing through writer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogHandler(writer CatalogWriter, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		writer: writer,
		logger: logger.With().Str("handler", "catalog-feed").Logger(),
	}
}

// Handle implements message.NoPublishHandlerFunc. Store failures are
// returned so the router retries; malformed payloads are dropped.
func (h *CatalogHandler) Handle(msg *message.Message) error {
	update, err := DecodeCatalogUpdate(msg.Payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed catalog update")
		return nil
	}

	ctx := msg.Context()
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}

	upserted, err := h.writer.UpsertProducts(ctx, update.Products)
	if err != nil {
		return fmt.Errorf("apply catalog update %s: %w", update.UpdateID, err)
	}
	metrics.CatalogProductsApplied.WithLabelValues("upsert").Add(float64(upserted))

	removed, err := h.writer.DeleteProducts(ctx, update.Removed)
	if err != nil {
		return fmt.Errorf("apply catalog removals %s: %w", update.UpdateID, err)
	}
	metrics.CatalogProductsApplied.WithLabelValues("remove").Add(float64(removed))

	h.logger.Debug().
		Str("update_id", update.UpdateID).
		Int("upserted", upserted).
		Int64("removed", removed).
		Msg("Catalog update applied")
	return nil
}
