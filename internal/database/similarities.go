// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/curator/internal/database/query"
	"github.com/tomtom215/curator/internal/models"
)

// Rows per INSERT statement. Four arguments per row.
const similarityInsertChunk = 250

// UpsertSimilarities writes entries in one transaction, overwriting existing
// pairs. Transaction conflicts are retried with exponential backoff.
func (db *DB) UpsertSimilarities(ctx context.Context, entries []models.SimilarityEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	for i := range entries {
		if entries[i].Product1 >= entries[i].Product2 {
			return 0, fmt.Errorf("similarity pair %s/%s is not in canonical order", entries[i].Product1, entries[i].Product2)
		}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return breakerQuery(db, "upsert_similarities", func() (int, error) {
		const maxRetries = 3
		var lastErr error

		for attempt := 0; attempt < maxRetries; attempt++ {
			err := db.doUpsertSimilarities(ctx, entries)
			if err == nil {
				return len(entries), nil
			}
			lastErr = err

			if ctx.Err() != nil {
				return 0, fmt.Errorf("operation timed out or canceled: %w", ctx.Err())
			}
			if !isTransactionConflict(err) {
				return 0, err
			}
			if attempt < maxRetries-1 {
				backoff := time.Millisecond * time.Duration(1<<uint(attempt)) // 1ms, 2ms, 4ms
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return 0, ctx.Err()
				}
			}
		}
		return 0, fmt.Errorf("max retries exceeded: %w", lastErr)
	})
}

func (db *DB) doUpsertSimilarities(ctx context.Context, entries []models.SimilarityEntry) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for start := 0; start < len(entries); start += similarityInsertChunk {
		end := start + similarityInsertChunk
		if end > len(entries) {
			end = len(entries)
		}
		chunk := entries[start:end]

		var sb strings.Builder
		sb.WriteString(`INSERT INTO product_similarities (product1, product2, similarity, last_updated) VALUES `)
		args := make([]interface{}, 0, len(chunk)*4)
		for i := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?)")
			updated := chunk[i].LastUpdated
			if updated.IsZero() {
				updated = time.Now()
			}
			args = append(args, chunk[i].Product1, chunk[i].Product2, chunk[i].Similarity, updated.UTC())
		}
		sb.WriteString(` ON CONFLICT (product1, product2) DO UPDATE SET
			similarity = EXCLUDED.similarity,
			last_updated = EXCLUDED.last_updated`)

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("failed to upsert similarities: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit similarities: %w", err)
	}
	return nil
}

// NeighborsOf returns up to limit matrix rows with either side in ids,
// highest similarity first.
func (db *DB) NeighborsOf(ctx context.Context, ids []string, limit int) ([]models.SimilarityEntry, error) {
	if len(ids) == 0 || limit <= 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := query.NewWhereBuilder().AddEitherIn("product1", "product2", ids).BuildWithPrefix()
	stmt := `SELECT product1, product2, similarity, last_updated
		FROM product_similarities ` + where + `
		ORDER BY similarity DESC, product1, product2
		LIMIT ?`
	args = append(args, limit)

	return breakerQuery(db, "neighbors_of", func() ([]models.SimilarityEntry, error) {
		rows, err := db.conn.QueryContext(ctx, stmt, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query similarities: %w", err)
		}
		defer closeWithLog(rows, "rows")

		var out []models.SimilarityEntry
		for rows.Next() {
			var e models.SimilarityEntry
			if err := rows.Scan(&e.Product1, &e.Product2, &e.Similarity, &e.LastUpdated); err != nil {
				return nil, fmt.Errorf("failed to scan similarity: %w", err)
			}
			e.LastUpdated = e.LastUpdated.UTC()
			out = append(out, e)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating similarities: %w", err)
		}
		return out, nil
	})
}

// PruneSimilarities deletes matrix rows that reference products no longer in
// the catalog and returns how many were removed.
func (db *DB) PruneSimilarities(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return breakerQuery(db, "prune_similarities", func() (int64, error) {
		res, err := db.conn.ExecContext(ctx, `DELETE FROM product_similarities
			WHERE product1 NOT IN (SELECT id FROM products)
			   OR product2 NOT IN (SELECT id FROM products)`)
		if err != nil {
			return 0, fmt.Errorf("failed to prune similarities: %w", err)
		}
		return affectedRows(res, "prune")
	})
}
