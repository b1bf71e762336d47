// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/curator/internal/models"
)

// InsertInteraction appends event to the interaction log.
func (db *DB) InsertInteraction(ctx context.Context, event *models.InteractionEvent) error {
	if event == nil {
		return fmt.Errorf("interaction event is nil")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var contextJSON sql.NullString
	if len(event.Context) > 0 {
		b, err := json.Marshal(event.Context)
		if err != nil {
			return fmt.Errorf("failed to encode interaction context: %w", err)
		}
		contextJSON = sql.NullString{String: string(b), Valid: true}
	}

	_, err := breakerQuery(db, "insert_interaction", func() (struct{}, error) {
		_, err := db.conn.ExecContext(ctx, `INSERT INTO interactions (
			id, user_id, product_id, interaction_type, occurred_at, context
		) VALUES (?, ?, ?, ?, ?, ?)`,
			event.ID, event.UserID, event.ProductID, string(event.Type),
			event.Timestamp.UTC(), contextJSON)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to insert interaction: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// RecentInteractions returns up to limit interactions of userID, newest
// first, joined with the product's category and price. Interactions whose
// product no longer exists are skipped.
func (db *DB) RecentInteractions(ctx context.Context, userID string, limit int) ([]models.RecentInteraction, error) {
	if limit <= 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return breakerQuery(db, "recent_interactions", func() ([]models.RecentInteraction, error) {
		rows, err := db.conn.QueryContext(ctx, `SELECT i.product_id, i.interaction_type, p.category, p.price, i.occurred_at
			FROM interactions i
			JOIN products p ON p.id = i.product_id
			WHERE i.user_id = ?
			ORDER BY i.occurred_at DESC, i.id DESC
			LIMIT ?`, userID, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to query interactions: %w", err)
		}
		defer closeWithLog(rows, "rows")

		var out []models.RecentInteraction
		for rows.Next() {
			var r models.RecentInteraction
			var typ string
			if err := rows.Scan(&r.ProductID, &typ, &r.Category, &r.Price, &r.Timestamp); err != nil {
				return nil, fmt.Errorf("failed to scan interaction: %w", err)
			}
			r.Type = models.InteractionType(typ)
			r.Timestamp = r.Timestamp.UTC()
			out = append(out, r)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating interactions: %w", err)
		}
		return out, nil
	})
}
