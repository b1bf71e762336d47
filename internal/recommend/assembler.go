// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"math"
	"strings"
	"time"
)

// Rationale clauses appended to a personalized description, in this order.
const (
	ReasonPreferences = "matches your preferences"
	ReasonBudget      = "fits your budget"
)

// Assembler turns ranked candidates into presentation records.
type Assembler struct {
	scorer      Scorer
	placeholder string
}

// NewAssembler creates an Assembler.
func NewAssembler(scorer Scorer, placeholderImage string) *Assembler {
	return &Assembler{scorer: scorer, placeholder: placeholderImage}
}

// Assemble preserves candidate order. Relevance is recomputed at now,
// whatever hour the candidate was ranked at.
func (a *Assembler) Assemble(candidates []Candidate, profile *Profile, now time.Time) []Result {
	results := make([]Result, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i].Product

		image := p.ImageURL
		if image == "" {
			image = a.placeholder
		}

		results = append(results, Result{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Image:       image,
			Category:    p.Category,
			Description: personalize(p.Description, profile.HasTopCategory(p.Category), profile.PriceRange.Contains(p.Price)),
			Relevance:   relevance(a.scorer.Score(p, profile, now)),
		})
	}
	return results
}

func personalize(base string, preferred, affordable bool) string {
	reasons := make([]string, 0, 2)
	if preferred {
		reasons = append(reasons, ReasonPreferences)
	}
	if affordable {
		reasons = append(reasons, ReasonBudget)
	}
	if len(reasons) == 0 {
		return base
	}
	return base + " (" + strings.Join(reasons, ", ") + ")"
}

// relevance scales a [0, 1] score to an integer percentage.
func relevance(score float64) int {
	return int(math.Round(clamp01(score) * 100))
}
