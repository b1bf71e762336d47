// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/curator/internal/models"
)

// Pairwise similarity weights. They sum to 1.
const (
	WeightCategory    = 0.4
	WeightPrice       = 0.3
	WeightDescription = 0.3
)

// productFeatures caches what pair scoring needs from a product.
type productFeatures struct {
	id       string
	category string
	price    float64
	tokens   map[string]struct{}
}

func newProductFeatures(p *models.Product) productFeatures {
	return productFeatures{
		id:       p.ID,
		category: p.Category,
		price:    p.Price,
		tokens:   tokenSet(p.Description),
	}
}

// PairSimilarity scores two products in [0, 1]:
//
//	0.4 * category equal + 0.3 * price proximity + 0.3 * description Jaccard
//
// It fails with ErrComputation for prices that are negative, NaN or infinite.
func PairSimilarity(a, b *models.Product) (float64, error) {
	return pairScore(newProductFeatures(a), newProductFeatures(b))
}

func pairScore(a, b productFeatures) (float64, error) {
	if err := checkPrice(a); err != nil {
		return 0, err
	}
	if err := checkPrice(b); err != nil {
		return 0, err
	}

	score := 0.0
	if a.category == b.category {
		score += WeightCategory
	}
	score += WeightPrice * priceProximity(a.price, b.price)
	score += WeightDescription * jaccard(a.tokens, b.tokens)

	return clamp01(score), nil
}

func checkPrice(f productFeatures) error {
	if math.IsNaN(f.price) || math.IsInf(f.price, 0) || f.price < 0 {
		return computation("similarity", fmt.Errorf("product %s has invalid price %v", f.id, f.price))
	}
	return nil
}

// priceProximity is 1 - |a-b|/max(a,b), and 0 when both prices are 0.
func priceProximity(a, b float64) float64 {
	hi := math.Max(a, b)
	if hi == 0 {
		return 0
	}
	return 1 - math.Abs(a-b)/hi
}

// tokenSet lowercases s and splits it on anything that is not a letter,
// digit or underscore.
func tokenSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// jaccard is |A∩B| / |A∪B|, 0 when either side is empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	return float64(intersection) / float64(len(a)+len(b)-intersection)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Builder recomputes the similarity matrix over the whole catalog.
type Builder struct {
	catalog   Catalog
	store     SimilarityStore
	workers   int
	batchSize int
	now       func() time.Time
	logger    zerolog.Logger
}

// NewBuilder creates a Builder. workers and batchSize below 1 become 1.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuilder(catalog Catalog, store SimilarityStore, workers, batchSize int, logger zerolog.Logger) *Builder {
	return &Builder{
		catalog:   catalog,
		store:     store,
		workers:   max(workers, 1),
		batchSize: max(batchSize, 1),
		now:       time.Now,
		logger:    logger,
	}
}

// Rebuild scores every unordered pair of distinct products and upserts the
// rows. Rows are written chunk by chunk, so readers may see a mix of old and
// new values while it runs. An empty catalog fails with ErrNotFound.
func (b *Builder) Rebuild(ctx context.Context) (*RebuildReport, error) {
	started := b.now()

	products, err := b.catalog.FindAll(ctx)
	if err != nil {
		return nil, upstream("rebuild", fmt.Errorf("load catalog: %w", err))
	}

	features := canonicalFeatures(products)
	if len(features) == 0 {
		return nil, notFound("rebuild", "catalog is empty")
	}

	n := len(features)
	report := &RebuildReport{
		Products:  n,
		Pairs:     n * (n - 1) / 2,
		StartedAt: started,
	}

	var pairErrors atomic.Int64
	chunkRows := b.workers * 4

	for start := 0; start < n-1; start += chunkRows {
		end := min(start+chunkRows, n-1)
		rows := make([][]models.SimilarityEntry, end-start)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.workers)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rows[i-start] = b.scoreRow(features, i, started, &pairErrors)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return report, upstream("rebuild", err)
		}

		updated, err := b.flush(ctx, rows)
		report.Updated += updated
		if err != nil {
			return report, upstream("rebuild", err)
		}
	}

	report.PairErrors = int(pairErrors.Load())
	report.Duration = b.now().Sub(started)
	return report, nil
}

// canonicalFeatures sorts products by id and drops duplicate ids, so that
// for i < j the pair (features[i], features[j]) is already in storage order.
func canonicalFeatures(products []models.Product) []productFeatures {
	sorted := make([]*models.Product, len(products))
	for i := range products {
		sorted[i] = &products[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	features := make([]productFeatures, 0, len(sorted))
	for i, p := range sorted {
		if i > 0 && p.ID == sorted[i-1].ID {
			continue
		}
		features = append(features, newProductFeatures(p))
	}
	return features
}

func (b *Builder) scoreRow(features []productFeatures, i int, at time.Time, pairErrors *atomic.Int64) []models.SimilarityEntry {
	row := make([]models.SimilarityEntry, 0, len(features)-i-1)
	for j := i + 1; j < len(features); j++ {
		sim, err := pairScore(features[i], features[j])
		if err != nil {
			pairErrors.Add(1)
			b.logger.Warn().Err(err).
				Str("product1", features[i].id).
				Str("product2", features[j].id).
				Msg("Similarity computation failed, storing 0")
			sim = 0
		}
		row = append(row, models.SimilarityEntry{
			Product1:    features[i].id,
			Product2:    features[j].id,
			Similarity:  sim,
			LastUpdated: at,
		})
	}
	return row
}

func (b *Builder) flush(ctx context.Context, rows [][]models.SimilarityEntry) (int, error) {
	updated := 0
	batch := make([]models.SimilarityEntry, 0, b.batchSize)

	write := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := b.store.UpsertSimilarities(ctx, batch)
		updated += n
		batch = batch[:0]
		if err != nil {
			return fmt.Errorf("upsert similarities: %w", err)
		}
		return nil
	}

	for _, row := range rows {
		for _, entry := range row {
			batch = append(batch, entry)
			if len(batch) == b.batchSize {
				if err := write(); err != nil {
					return updated, err
				}
			}
		}
	}
	return updated, write()
}
