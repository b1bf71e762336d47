// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"sort"
	"time"

	"github.com/tomtom215/curator/internal/models"
)

// AnalyzePreferences derives a Profile from recent interactions.
// Hours are taken from each interaction's timestamp in loc. The function is
// total: an empty input yields empty histograms, no top categories and an
// empty price range.
func AnalyzePreferences(recent []models.RecentInteraction, topN int, loc *time.Location) *Profile {
	if loc == nil {
		loc = time.Local
	}

	profile := &Profile{
		Categories:   make(map[string]int),
		PriceRange:   emptyPriceRange(),
		Hours:        make(map[int]int),
		Interactions: len(recent),
	}

	for i := range recent {
		ri := &recent[i]
		profile.Categories[ri.Category]++

		if ri.Price < profile.PriceRange.Min {
			profile.PriceRange.Min = ri.Price
		}
		if ri.Price > profile.PriceRange.Max {
			profile.PriceRange.Max = ri.Price
		}

		profile.Hours[ri.Timestamp.In(loc).Hour()]++
	}

	profile.TopCategories = topCategories(profile.Categories, topN)
	return profile
}

type categoryCount struct {
	name  string
	count int
}

// topCategories orders by count descending, then name ascending.
func topCategories(hist map[string]int, n int) []string {
	counts := make([]categoryCount, 0, len(hist))
	for name, count := range hist {
		counts = append(counts, categoryCount{name, count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	if len(counts) > n {
		counts = counts[:n]
	}

	top := make([]string, len(counts))
	for i, c := range counts {
		top[i] = c.name
	}
	return top
}
