// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/curator/internal/config"
	"github.com/tomtom215/curator/internal/models"
)

// testDBSemaphore serializes DuckDB use across tests. It is held for the
// whole test, not just for New, because concurrent CGO queries from several
// in-memory databases can hang under CI load.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB opens an in-memory database that is closed when the test ends.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Path:                    ":memory:",
		MaxMemory:               "512MB",
		Threads:                 2,
		QueryTimeout:            10 * time.Second,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

var testEpoch = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func testProduct(id, category string, price float64, views int64) models.Product {
	return models.Product{
		ID:          id,
		Name:        "Product " + id,
		Description: "a " + category + " item",
		Price:       price,
		Category:    category,
		Stock:       10,
		Views:       views,
		CreatedAt:   testEpoch,
	}
}

func insertProducts(t *testing.T, db *DB, products ...models.Product) {
	t.Helper()
	if _, err := db.UpsertProducts(context.Background(), products); err != nil {
		t.Fatalf("UpsertProducts() error = %v", err)
	}
}

func TestNew_CreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{tableProducts, tableInteractions, tableSimilarities} {
		var n int
		err := db.conn.QueryRowContext(context.Background(),
			`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?`, table).Scan(&n)
		if err != nil {
			t.Fatalf("query table %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s not created", table)
		}
	}
}

func TestNew_FileDatabaseReopens(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "curator.duckdb")
	cfg := &config.DatabaseConfig{Path: path, MaxMemory: "256MB", Threads: 1}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := db.UpsertProducts(context.Background(), []models.Product{testProduct("a", "Books", 10, 1)}); err != nil {
		t.Fatalf("UpsertProducts() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	db, err = New(cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()

	n, err := db.CountProducts(context.Background())
	if err != nil {
		t.Fatalf("CountProducts() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountProducts() = %d after reopen, want 1", n)
	}
}

func TestPingAndRecordCounts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	insertProducts(t, db, testProduct("a", "Books", 10, 1), testProduct("b", "Books", 12, 2))
	if _, err := db.UpsertSimilarities(ctx, []models.SimilarityEntry{
		{Product1: "a", Product2: "b", Similarity: 0.9, LastUpdated: testEpoch},
	}); err != nil {
		t.Fatalf("UpsertSimilarities() error = %v", err)
	}

	counts, err := db.RecordCounts(ctx)
	if err != nil {
		t.Fatalf("RecordCounts() error = %v", err)
	}
	if counts.Products != 2 || counts.Interactions != 0 || counts.Similarities != 1 {
		t.Errorf("RecordCounts() = %+v, want 2/0/1", counts)
	}
}

func TestEnsureContext(t *testing.T) {
	db := &DB{cfg: &config.DatabaseConfig{QueryTimeout: 5 * time.Second}}

	t.Run("adds deadline", func(t *testing.T) {
		ctx, cancel := db.ensureContext(context.Background())
		defer cancel()
		deadline, ok := ctx.Deadline()
		if !ok {
			t.Fatal("expected deadline")
		}
		if remaining := time.Until(deadline); remaining > 5*time.Second || remaining < 4*time.Second {
			t.Errorf("deadline in %v, want about 5s", remaining)
		}
	})

	t.Run("keeps caller deadline", func(t *testing.T) {
		parent, cancelParent := context.WithTimeout(context.Background(), time.Minute)
		defer cancelParent()
		ctx, cancel := db.ensureContext(parent)
		defer cancel()
		if ctx != parent {
			t.Error("expected the caller context to be returned unchanged")
		}
	})
}

func TestIsTransactionConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"conflict", errString("TransactionContext Error: Transaction conflict: cannot update"), true},
		{"update conflict", errString("Conflict on update of row"), true},
		{"other", errString("Catalog Error: table missing"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransactionConflict(tt.err); got != tt.want {
				t.Errorf("isTransactionConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
