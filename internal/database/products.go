// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/curator/internal/database/query"
	"github.com/tomtom215/curator/internal/models"
)

const productColumns = `id, name, description, price, category, image_url, stock, views, created_at`

// FindByID returns the product with id, or nil when it does not exist.
func (db *DB) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return breakerQuery(db, "find_product", func() (*models.Product, error) {
		stmt := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
		p, err := scanProduct(db.conn.QueryRowContext(ctx, stmt, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get product %s: %w", id, err)
		}
		return p, nil
	})
}

// FindByIDs returns the products among ids that exist.
func (db *DB) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return breakerQuery(db, "find_products", func() ([]models.Product, error) {
		where, args := query.NewWhereBuilder().AddIn("id", ids).BuildWithPrefix()
		return db.queryProducts(ctx, `SELECT `+productColumns+` FROM products `+where, args...)
	})
}

// FindAll returns the whole catalog ordered by id.
func (db *DB) FindAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return breakerQuery(db, "find_all_products", func() ([]models.Product, error) {
		return db.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	})
}

// FindByCategoryExcluding returns up to limit products in categories (any
// category when empty) whose id is not in exclude, most viewed first.
func (db *DB) FindByCategoryExcluding(ctx context.Context, categories, exclude []string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := query.NewWhereBuilder().
		AddIn("category", categories).
		AddNotIn("id", exclude).
		BuildWithPrefix()
	stmt := `SELECT ` + productColumns + ` FROM products ` + where + ` ORDER BY views DESC, id LIMIT ?`
	args = append(args, limit)

	return breakerQuery(db, "find_products_by_category", func() ([]models.Product, error) {
		return db.queryProducts(ctx, stmt, args...)
	})
}

// UpsertProducts inserts or replaces catalog rows. Written by the sample
// seed and by the catalog feed consumer.
func (db *DB) UpsertProducts(ctx context.Context, products []models.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return breakerQuery(db, "upsert_products", func() (int, error) {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return 0, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO products (`+productColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				price = EXCLUDED.price,
				category = EXCLUDED.category,
				image_url = EXCLUDED.image_url,
				stock = EXCLUDED.stock,
				views = EXCLUDED.views`)
		if err != nil {
			return 0, fmt.Errorf("failed to prepare product upsert: %w", err)
		}
		defer closeWithLog(stmt, "statement")

		for i := range products {
			p := &products[i]
			created := p.CreatedAt
			if created.IsZero() {
				created = time.Now()
			}
			if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Description, p.Price, p.Category,
				p.ImageURL, p.Stock, p.Views, created.UTC()); err != nil {
				return 0, fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("failed to commit products: %w", err)
		}
		return len(products), nil
	})
}

// DeleteProducts removes catalog rows by id and returns how many existed.
// Similarity rows that reference them are left for PruneSimilarities.
func (db *DB) DeleteProducts(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := query.NewWhereBuilder().AddIn("id", ids).BuildWithPrefix()
	return breakerQuery(db, "delete_products", func() (int64, error) {
		res, err := db.conn.ExecContext(ctx, `DELETE FROM products `+where, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to delete products: %w", err)
		}
		return affectedRows(res, "delete products")
	})
}

// CountProducts returns the catalog size.
func (db *DB) CountProducts(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return breakerQuery(db, "count_products", func() (int64, error) {
		var n int64
		if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to count products: %w", err)
		}
		return n, nil
	})
}

func (db *DB) queryProducts(ctx context.Context, stmt string, args ...interface{}) ([]models.Product, error) {
	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var stock int32
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.ImageURL, &stock, &p.Views, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Stock = int(stock)
	return &p, nil
}
