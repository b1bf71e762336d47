// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/curator/internal/models"
)

func insertEvent(t *testing.T, db *DB, id, user, product string, typ models.InteractionType, ts time.Time) {
	t.Helper()
	err := db.InsertInteraction(context.Background(), &models.InteractionEvent{
		ID: id, UserID: user, ProductID: product, Type: typ, Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("InsertInteraction(%s) error = %v", id, err)
	}
}

func TestInsertInteraction_StoresContextJSON(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	insertProducts(t, db, testProduct("p1", "Books", 10, 1))

	event := &models.InteractionEvent{
		ID:        "evt-1",
		UserID:    "u1",
		ProductID: "p1",
		Type:      models.InteractionPurchase,
		Timestamp: testEpoch,
		Context: map[string]interface{}{
			models.ContextTimeOfDay: 12,
			models.ContextDevice:    "Mozilla/5.0",
			"referrer":              "email",
		},
	}
	if err := db.InsertInteraction(ctx, event); err != nil {
		t.Fatalf("InsertInteraction() error = %v", err)
	}

	var raw sql.NullString
	var typ string
	err := db.conn.QueryRowContext(ctx, `SELECT interaction_type, context FROM interactions WHERE id = ?`, "evt-1").Scan(&typ, &raw)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if typ != "purchase" {
		t.Errorf("interaction_type = %q, want purchase", typ)
	}
	if !raw.Valid {
		t.Fatal("context column is NULL")
	}

	var stored map[string]interface{}
	if err := json.Unmarshal([]byte(raw.String), &stored); err != nil {
		t.Fatalf("context is not JSON: %v", err)
	}
	if stored["referrer"] != "email" || stored[models.ContextDevice] != "Mozilla/5.0" {
		t.Errorf("context = %v", stored)
	}
	if v, ok := stored[models.ContextTimeOfDay].(float64); !ok || v != 12 {
		t.Errorf("time_of_day = %v, want 12", stored[models.ContextTimeOfDay])
	}
}

func TestInsertInteraction_DuplicateID(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "evt-1", "u1", "p1", models.InteractionView, testEpoch)

	err := db.InsertInteraction(context.Background(), &models.InteractionEvent{
		ID: "evt-1", UserID: "u1", ProductID: "p1", Type: models.InteractionView, Timestamp: testEpoch,
	})
	if err == nil {
		t.Fatal("expected primary key violation")
	}
}

func TestRecentInteractions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertProducts(t, db,
		testProduct("book", "Books", 20, 1),
		testProduct("mouse", "Electronics", 25, 1),
	)

	insertEvent(t, db, "e1", "u1", "book", models.InteractionView, testEpoch.Add(-3*time.Hour))
	insertEvent(t, db, "e2", "u1", "mouse", models.InteractionPurchase, testEpoch.Add(-1*time.Hour))
	insertEvent(t, db, "e3", "u1", "gone", models.InteractionView, testEpoch)
	insertEvent(t, db, "e4", "u2", "book", models.InteractionView, testEpoch)
	insertEvent(t, db, "e5", "u1", "book", models.InteractionWishlist, testEpoch.Add(-2*time.Hour))

	t.Run("newest first and skips deleted products", func(t *testing.T) {
		got, err := db.RecentInteractions(ctx, "u1", 10)
		if err != nil {
			t.Fatalf("RecentInteractions() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3: %+v", len(got), got)
		}
		wantProducts := []string{"mouse", "book", "book"}
		wantTypes := []models.InteractionType{models.InteractionPurchase, models.InteractionWishlist, models.InteractionView}
		for i := range got {
			if got[i].ProductID != wantProducts[i] || got[i].Type != wantTypes[i] {
				t.Errorf("[%d] = %s/%s, want %s/%s", i, got[i].ProductID, got[i].Type, wantProducts[i], wantTypes[i])
			}
		}
		if got[0].Category != "Electronics" || got[0].Price != 25 {
			t.Errorf("join fields = %s/%v, want Electronics/25", got[0].Category, got[0].Price)
		}
		if !got[0].Timestamp.Equal(testEpoch.Add(-time.Hour)) {
			t.Errorf("timestamp = %v", got[0].Timestamp)
		}
	})

	t.Run("limit applies after the join", func(t *testing.T) {
		got, err := db.RecentInteractions(ctx, "u1", 1)
		if err != nil {
			t.Fatalf("RecentInteractions() error = %v", err)
		}
		if len(got) != 1 || got[0].ProductID != "mouse" {
			t.Errorf("got %+v, want only mouse", got)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		got, err := db.RecentInteractions(ctx, "nobody", 10)
		if err != nil {
			t.Fatalf("RecentInteractions() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d interactions, want 0", len(got))
		}
	})
}
