// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/models"
)

func TestPairSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Product
		want float64
	}{
		{
			name: "wireless mouse scenario",
			a:    models.Product{ID: "a", Category: "Electronics", Price: 100, Description: "wireless mouse"},
			b:    models.Product{ID: "b", Category: "Electronics", Price: 110, Description: "wireless mouse"},
			want: 0.4 + 0.3*(1-10.0/110.0) + 0.3,
		},
		{
			name: "identical products",
			a:    models.Product{ID: "a", Category: "Books", Price: 20, Description: "Go in practice"},
			b:    models.Product{ID: "b", Category: "Books", Price: 20, Description: "go IN practice"},
			want: 1,
		},
		{
			name: "both prices zero contribute nothing",
			a:    models.Product{ID: "a", Category: "Books", Price: 0, Description: "free ebook"},
			b:    models.Product{ID: "b", Category: "Books", Price: 0, Description: "free ebook"},
			want: 0.7,
		},
		{
			name: "one price zero",
			a:    models.Product{ID: "a", Category: "Toys", Price: 0},
			b:    models.Product{ID: "b", Category: "Games", Price: 50},
			want: 0,
		},
		{
			name: "empty description contributes nothing",
			a:    models.Product{ID: "a", Category: "Books", Price: 10, Description: ""},
			b:    models.Product{ID: "b", Category: "Books", Price: 10, Description: "novel"},
			want: 0.7,
		},
		{
			name: "punctuation splits tokens",
			a:    models.Product{ID: "a", Category: "X", Price: 10, Description: "usb-c, cable!"},
			b:    models.Product{ID: "b", Category: "Y", Price: 10, Description: "USB C cable"},
			want: 0.3 + 0.3*1,
		},
		{
			name: "partial overlap",
			a:    models.Product{ID: "a", Category: "X", Price: 10, Description: "red wool sweater"},
			b:    models.Product{ID: "b", Category: "Y", Price: 20, Description: "blue wool sweater"},
			want: 0.3*0.5 + 0.3*0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PairSimilarity(&tt.a, &tt.b)
			if err != nil {
				t.Fatalf("PairSimilarity() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PairSimilarity() = %v, want %v", got, tt.want)
			}
			rev, _ := PairSimilarity(&tt.b, &tt.a)
			if rev != got {
				t.Errorf("PairSimilarity not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestPairSimilarity_InvalidPrice(t *testing.T) {
	for _, price := range []float64{math.NaN(), math.Inf(1), -1} {
		t.Run(fmt.Sprint(price), func(t *testing.T) {
			a := models.Product{ID: "a", Price: price}
			b := models.Product{ID: "b", Price: 10}
			_, err := PairSimilarity(&a, &b)
			if !errors.Is(err, ErrComputation) {
				t.Errorf("error = %v, want ErrComputation", err)
			}
		})
	}
}

func TestTokenSet(t *testing.T) {
	got := tokenSet("  Hello, WORLD!! hello_world 42 ")
	want := []string{"hello", "world", "hello_world", "42"}
	if len(got) != len(want) {
		t.Fatalf("tokenSet() = %v, want %v", got, want)
	}
	for _, w := range want {
		if _, ok := got[w]; !ok {
			t.Errorf("tokenSet() missing %q", w)
		}
	}
	if len(tokenSet("...")) != 0 {
		t.Error("punctuation only should yield no tokens")
	}
}

func newTestBuilder(catalog Catalog, store SimilarityStore, batch int) *Builder {
	b := NewBuilder(catalog, store, 2, batch, zerolog.Nop())
	b.now = func() time.Time { return at(3) }
	return b
}

func TestBuilderRebuild(t *testing.T) {
	catalog := &fakeCatalog{products: []models.Product{
		product("d", "Books", 15, 0),
		product("b", "Electronics", 100, 0),
		product("a", "Electronics", 110, 0),
		product("c", "Books", 12, 0),
	}}
	store := newFakeSimilarities()

	report, err := newTestBuilder(catalog, store, 4).Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	if report.Products != 4 || report.Pairs != 6 || report.Updated != 6 {
		t.Errorf("report = %+v, want 4 products, 6 pairs, 6 updated", report)
	}
	if report.PairErrors != 0 {
		t.Errorf("PairErrors = %d, want 0", report.PairErrors)
	}

	rows := store.snapshot()
	if len(rows) != 6 {
		t.Fatalf("stored %d rows, want 6", len(rows))
	}
	for key, sim := range rows {
		if key[0] == key[1] {
			t.Errorf("self pair stored: %v", key)
		}
		if key[0] >= key[1] {
			t.Errorf("pair not in canonical order: %v", key)
		}
		if sim < 0 || sim > 1 {
			t.Errorf("similarity %v out of range for %v", sim, key)
		}
	}

	entry, ok := store.get("a", "b")
	if !ok {
		t.Fatal("missing pair (a, b)")
	}
	if !entry.LastUpdated.Equal(at(3)) {
		t.Errorf("LastUpdated = %v, want %v", entry.LastUpdated, at(3))
	}
}

func TestBuilderRebuild_Idempotent(t *testing.T) {
	catalog := &fakeCatalog{products: []models.Product{
		product("p1", "Books", 10, 0),
		product("p2", "Books", 30, 0),
		product("p3", "Garden", 30, 0),
		product("p4", "Toys", 5, 0),
		product("p5", "Toys", 0, 0),
	}}
	store := newFakeSimilarities()
	b := newTestBuilder(catalog, store, 3)

	if _, err := b.Rebuild(context.Background()); err != nil {
		t.Fatalf("first Rebuild() error = %v", err)
	}
	first := store.snapshot()

	if _, err := b.Rebuild(context.Background()); err != nil {
		t.Fatalf("second Rebuild() error = %v", err)
	}
	second := store.snapshot()

	if len(first) != 10 || len(second) != 10 {
		t.Fatalf("row counts = %d, %d, want 10", len(first), len(second))
	}
	for k, v := range first {
		if second[k] != v {
			t.Errorf("pair %v changed: %v -> %v", k, v, second[k])
		}
	}
}

func TestBuilderRebuild_Batches(t *testing.T) {
	catalog := &fakeCatalog{}
	for i := 0; i < 6; i++ {
		catalog.products = append(catalog.products, product(fmt.Sprintf("p%d", i), "Books", float64(i+1), 0))
	}
	store := newFakeSimilarities()

	report, err := newTestBuilder(catalog, store, 4).Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if report.Updated != 15 {
		t.Errorf("Updated = %d, want 15", report.Updated)
	}
	for _, n := range store.batchSizes {
		if n > 4 {
			t.Errorf("batch of %d exceeds batch size 4", n)
		}
	}
}

func TestBuilderRebuild_PairErrorContained(t *testing.T) {
	catalog := &fakeCatalog{products: []models.Product{
		product("a", "Books", 10, 0),
		product("b", "Books", math.NaN(), 0),
		product("c", "Books", 12, 0),
	}}
	store := newFakeSimilarities()

	report, err := newTestBuilder(catalog, store, 10).Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if report.PairErrors != 2 {
		t.Errorf("PairErrors = %d, want 2", report.PairErrors)
	}
	for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}} {
		e, ok := store.get(pair[0], pair[1])
		if !ok {
			t.Fatalf("missing pair %v", pair)
		}
		if e.Similarity != 0 {
			t.Errorf("pair %v similarity = %v, want 0", pair, e.Similarity)
		}
	}
	if e, _ := store.get("a", "c"); e.Similarity == 0 {
		t.Error("healthy pair (a, c) should have a positive score")
	}
}

func TestBuilderRebuild_Errors(t *testing.T) {
	storeErr := errors.New("disk full")

	tests := []struct {
		name    string
		catalog *fakeCatalog
		store   *fakeSimilarities
		want    error
	}{
		{"empty catalog", &fakeCatalog{}, newFakeSimilarities(), ErrNotFound},
		{"catalog unavailable", &fakeCatalog{findAllErr: errors.New("conn refused")}, newFakeSimilarities(), ErrUpstream},
		{
			"upsert failure",
			&fakeCatalog{products: []models.Product{product("a", "X", 1, 0), product("b", "X", 2, 0)}},
			&fakeSimilarities{rows: map[[2]string]models.SimilarityEntry{}, upsertErr: storeErr},
			storeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestBuilder(tt.catalog, tt.store, 10).Rebuild(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("Rebuild() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuilderRebuild_SingleProductAndDuplicates(t *testing.T) {
	catalog := &fakeCatalog{products: []models.Product{
		product("a", "Books", 10, 0),
		product("a", "Books", 10, 0),
	}}
	store := newFakeSimilarities()

	report, err := newTestBuilder(catalog, store, 10).Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if report.Products != 1 || report.Pairs != 0 || len(store.snapshot()) != 0 {
		t.Errorf("report = %+v, rows = %d; want one product and no pairs", report, len(store.snapshot()))
	}
}

func TestBuilderRebuild_Cancelled(t *testing.T) {
	catalog := &fakeCatalog{products: []models.Product{
		product("a", "Books", 10, 0),
		product("b", "Books", 12, 0),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestBuilder(catalog, newFakeSimilarities(), 10).Rebuild(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Rebuild() error = %v, want context.Canceled", err)
	}
}
