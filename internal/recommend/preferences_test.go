// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"reflect"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/curator/internal/models"
)

func interaction(productID, category string, price float64, ts time.Time) models.RecentInteraction {
	return models.RecentInteraction{
		ProductID: productID,
		Type:      models.InteractionView,
		Category:  category,
		Price:     price,
		Timestamp: ts,
	}
}

func TestAnalyzePreferences_Empty(t *testing.T) {
	profile := AnalyzePreferences(nil, 3, time.UTC)

	if len(profile.TopCategories) != 0 {
		t.Errorf("TopCategories = %v, want empty", profile.TopCategories)
	}
	if len(profile.Categories) != 0 || len(profile.Hours) != 0 {
		t.Error("histograms should be empty")
	}
	if !profile.PriceRange.Empty() {
		t.Errorf("PriceRange = %+v, want empty (min > max)", profile.PriceRange)
	}
	if profile.PriceRange.Contains(0) {
		t.Error("empty range must not contain 0")
	}
}

func TestAnalyzePreferences(t *testing.T) {
	recent := []models.RecentInteraction{
		interaction("p1", "Books", 12, at(22)),
		interaction("p2", "Electronics", 250, at(9)),
		interaction("p3", "Books", 8, at(22)),
		interaction("p4", "Garden", 40, at(14)),
		interaction("p5", "Electronics", 99, at(9)),
		interaction("p6", "Toys", 5, at(1)),
	}

	profile := AnalyzePreferences(recent, 3, time.UTC)

	wantCats := map[string]int{"Books": 2, "Electronics": 2, "Garden": 1, "Toys": 1}
	if !reflect.DeepEqual(profile.Categories, wantCats) {
		t.Errorf("Categories = %v, want %v", profile.Categories, wantCats)
	}

	wantHours := map[int]int{22: 2, 9: 2, 14: 1, 1: 1}
	if !reflect.DeepEqual(profile.Hours, wantHours) {
		t.Errorf("Hours = %v, want %v", profile.Hours, wantHours)
	}

	if profile.PriceRange.Min != 5 || profile.PriceRange.Max != 250 {
		t.Errorf("PriceRange = %+v, want [5, 250]", profile.PriceRange)
	}

	// Ties on count break by name: Books before Electronics, Garden before Toys.
	wantTop := []string{"Books", "Electronics", "Garden"}
	if !reflect.DeepEqual(profile.TopCategories, wantTop) {
		t.Errorf("TopCategories = %v, want %v", profile.TopCategories, wantTop)
	}
	if profile.Interactions != 6 {
		t.Errorf("Interactions = %d, want 6", profile.Interactions)
	}
}

func TestAnalyzePreferences_Deterministic(t *testing.T) {
	recent := []models.RecentInteraction{
		interaction("a", "Zeta", 1, at(1)),
		interaction("b", "Alpha", 1, at(1)),
		interaction("c", "Mid", 1, at(1)),
		interaction("d", "Beta", 1, at(1)),
	}
	want := []string{"Alpha", "Beta", "Mid"}
	for i := 0; i < 20; i++ {
		got := AnalyzePreferences(recent, 3, time.UTC).TopCategories
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: TopCategories = %v, want %v", i, got, want)
		}
	}
}

func TestAnalyzePreferences_HourUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	profile := AnalyzePreferences([]models.RecentInteraction{
		interaction("a", "Books", 1, at(20)),
	}, 3, loc)

	if profile.Hours[1] != 1 {
		t.Errorf("Hours = %v, want hour 1 in UTC+5", profile.Hours)
	}
}

func TestPriceRangeJSON(t *testing.T) {
	empty, err := json.Marshal(emptyPriceRange())
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if string(empty) != "null" {
		t.Errorf("empty range = %s, want null", empty)
	}

	full, err := json.Marshal(PriceRange{Min: 5, Max: 10})
	if err != nil {
		t.Fatalf("marshal range: %v", err)
	}
	if string(full) != `{"min":5,"max":10}` {
		t.Errorf("range = %s", full)
	}
}
