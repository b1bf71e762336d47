// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const defaultQueryTimeout = 30 * time.Second

// ensureContext applies the configured query timeout when ctx has no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	timeout := defaultQueryTimeout
	if db.cfg != nil && db.cfg.QueryTimeout > 0 {
		timeout = db.cfg.QueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// affectedRows reads RowsAffected from res, naming op in the error.
func affectedRows(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected by %s: %w", op, err)
	}
	return n, nil
}

// Checkpoint flushes the WAL into the database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// RecordCounts holds row counts for the readiness check.
type RecordCounts struct {
	Products     int64 `json:"products"`
	Interactions int64 `json:"interactions"`
	Similarities int64 `json:"similarities"`
}

// RecordCounts returns the row count of each table.
func (db *DB) RecordCounts(ctx context.Context) (*RecordCounts, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return breakerQuery(db, "record_counts", func() (*RecordCounts, error) {
		counts := &RecordCounts{}
		stmt := fmt.Sprintf(`SELECT
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s)`, tableProducts, tableInteractions, tableSimilarities)
		err := db.conn.QueryRowContext(ctx, stmt).Scan(&counts.Products, &counts.Interactions, &counts.Similarities)
		if err != nil {
			return nil, fmt.Errorf("failed to count records: %w", err)
		}
		return counts, nil
	})
}
