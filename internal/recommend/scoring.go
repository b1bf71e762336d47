// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"time"

	"github.com/tomtom215/curator/internal/models"
)

// Composite score weights. They sum to 1.
const (
	WeightTopCategory = 0.4
	WeightPriceRange  = 0.3
	WeightHourActive  = 0.2
	WeightDayNight    = 0.1
)

// Daytime is [DaytimeStartHour, DaytimeEndHour).
const (
	DaytimeStartHour = 6
	DaytimeEndHour   = 18
)

// Scorer computes the personal composite score of a product.
// Ranking and relevance share it so both see the same numbers.
type Scorer struct {
	DaytimeCategory   string
	NighttimeCategory string
	Location          *time.Location
}

// Score returns the composite score in [0, 1] at instant now.
func (s Scorer) Score(p *models.Product, profile *Profile, now time.Time) float64 {
	hour := s.hour(now)

	score := 0.0
	if profile.HasTopCategory(p.Category) {
		score += WeightTopCategory
	}
	if profile.PriceRange.Contains(p.Price) {
		score += WeightPriceRange
	}
	if profile.ActiveAt(hour) {
		score += WeightHourActive
	}
	if s.dayNightMatch(p.Category, hour) {
		score += WeightDayNight
	}
	return score
}

func (s Scorer) hour(now time.Time) int {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Hour()
}

func (s Scorer) dayNightMatch(category string, hour int) bool {
	if isDaytime(hour) {
		return s.DaytimeCategory != "" && category == s.DaytimeCategory
	}
	return s.NighttimeCategory != "" && category == s.NighttimeCategory
}

func isDaytime(hour int) bool {
	return hour >= DaytimeStartHour && hour < DaytimeEndHour
}
