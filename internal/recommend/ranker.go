// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/models"
)

// Ranker selects candidates for a user: similarity neighbours of recently
// interacted products first, then popular products from the preferred
// categories.
type Ranker struct {
	catalog       Catalog
	similarities  SimilarityStore
	scorer        Scorer
	neighborLimit int
	resultLimit   int
	logger        zerolog.Logger
}

// NewRanker creates a Ranker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRanker(catalog Catalog, similarities SimilarityStore, scorer Scorer, neighborLimit, resultLimit int, logger zerolog.Logger) *Ranker {
	return &Ranker{
		catalog:       catalog,
		similarities:  similarities,
		scorer:        scorer,
		neighborLimit: neighborLimit,
		resultLimit:   resultLimit,
		logger:        logger,
	}
}

// Rank returns up to resultLimit unique candidates, highest score first for
// the similarity phase, followed by backfill in popularity order.
//
// Backfill runs whenever the similarity phase produced too few candidates,
// including when it failed. If a phase fails, Rank still returns whatever
// candidates it collected together with an ErrUpstream error, leaving the
// degrade-or-fail decision to the caller.
func (r *Ranker) Rank(ctx context.Context, profile *Profile, recent []models.RecentInteraction, now time.Time) ([]Candidate, error) {
	var errs []error

	candidates, err := r.similarityCandidates(ctx, profile, recent, now)
	if err != nil {
		errs = append(errs, err)
	}

	if len(candidates) < r.resultLimit {
		backfill, err := r.backfill(ctx, profile, candidates, now)
		if err != nil {
			errs = append(errs, err)
		}
		candidates = append(candidates, backfill...)
	}

	if len(errs) > 0 {
		return candidates, upstream("rank", errors.Join(errs...))
	}
	return candidates, nil
}

func (r *Ranker) similarityCandidates(ctx context.Context, profile *Profile, recent []models.RecentInteraction, now time.Time) ([]Candidate, error) {
	if len(recent) == 0 {
		return nil, nil
	}

	interacted := make(map[string]struct{}, len(recent))
	ids := make([]string, 0, len(recent))
	for i := range recent {
		id := recent[i].ProductID
		if _, ok := interacted[id]; ok {
			continue
		}
		interacted[id] = struct{}{}
		ids = append(ids, id)
	}

	neighbors, err := r.similarities.NeighborsOf(ctx, ids, r.neighborLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch similarities: %w", err)
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	// Neighbours arrive by similarity descending; keep the first sighting.
	seen := make(map[string]struct{}, len(neighbors))
	otherIDs := make([]string, 0, len(neighbors))
	for _, entry := range neighbors {
		other := entry.Product2
		if _, ok := interacted[entry.Product1]; !ok {
			other = entry.Product1
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		otherIDs = append(otherIDs, other)
	}

	products, err := r.catalog.FindByIDs(ctx, otherIDs)
	if err != nil {
		return nil, fmt.Errorf("hydrate neighbours: %w", err)
	}
	byID := make(map[string]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	candidates := make([]Candidate, 0, len(otherIDs))
	for _, id := range otherIDs {
		p, ok := byID[id]
		if !ok {
			r.logger.Debug().Str("product_id", id).Msg("Similar product no longer in catalog")
			continue
		}
		candidates = append(candidates, Candidate{
			Product: *p,
			Score:   r.scorer.Score(p, profile, now),
			Source:  SourceSimilarity,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > r.resultLimit {
		candidates = candidates[:r.resultLimit]
	}
	return candidates, nil
}

// backfill fetches popular products from the top categories, excluding the
// already selected ones. An empty top category list means no category filter.
func (r *Ranker) backfill(ctx context.Context, profile *Profile, selected []Candidate, now time.Time) ([]Candidate, error) {
	need := r.resultLimit - len(selected)
	exclude := make([]string, len(selected))
	for i := range selected {
		exclude[i] = selected[i].Product.ID
	}

	products, err := r.catalog.FindByCategoryExcluding(ctx, profile.TopCategories, exclude, need)
	if err != nil {
		return nil, fmt.Errorf("backfill: %w", err)
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}

	out := make([]Candidate, 0, need)
	for i := range products {
		p := &products[i]
		if _, dup := excluded[p.ID]; dup {
			continue
		}
		excluded[p.ID] = struct{}{}
		out = append(out, Candidate{
			Product: *p,
			Score:   r.scorer.Score(p, profile, now),
			Source:  SourceBackfill,
		})
		if len(out) == need {
			break
		}
	}
	return out, nil
}
