// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/curator/internal/models"
)

// fakeCatalog implements Catalog over an in-memory slice.
type fakeCatalog struct {
	mu       sync.Mutex
	products []models.Product

	findByIDErr error
	findAllErr  error
	findIDsErr  error
	backfillErr error

	backfillCalls []backfillCall
}

type backfillCall struct {
	categories []string
	exclude    []string
	limit      int
}

func (c *fakeCatalog) FindByID(_ context.Context, id string) (*models.Product, error) {
	if c.findByIDErr != nil {
		return nil, c.findByIDErr
	}
	for i := range c.products {
		if c.products[i].ID == id {
			p := c.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	if c.findIDsErr != nil {
		return nil, c.findIDsErr
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Product
	for _, p := range c.products {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeCatalog) FindAll(_ context.Context) ([]models.Product, error) {
	if c.findAllErr != nil {
		return nil, c.findAllErr
	}
	return append([]models.Product(nil), c.products...), nil
}

func (c *fakeCatalog) FindByCategoryExcluding(_ context.Context, categories, exclude []string, limit int) ([]models.Product, error) {
	c.mu.Lock()
	c.backfillCalls = append(c.backfillCalls, backfillCall{
		categories: append([]string(nil), categories...),
		exclude:    append([]string(nil), exclude...),
		limit:      limit,
	})
	c.mu.Unlock()

	if c.backfillErr != nil {
		return nil, c.backfillErr
	}

	cats := make(map[string]bool, len(categories))
	for _, cat := range categories {
		cats[cat] = true
	}
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	var out []models.Product
	for _, p := range c.products {
		if skip[p.ID] {
			continue
		}
		if len(cats) > 0 && !cats[p.Category] {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeInteractions implements InteractionStore.
type fakeInteractions struct {
	mu        sync.Mutex
	events    []models.InteractionEvent
	recent    map[string][]models.RecentInteraction
	insertErr error
	recentErr error
}

func (s *fakeInteractions) InsertInteraction(_ context.Context, event *models.InteractionEvent) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *fakeInteractions) RecentInteractions(_ context.Context, userID string, limit int) ([]models.RecentInteraction, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	recent := s.recent[userID]
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

func (s *fakeInteractions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// fakeSimilarities implements SimilarityStore with a map keyed by pair.
type fakeSimilarities struct {
	mu         sync.Mutex
	rows       map[[2]string]models.SimilarityEntry
	batchSizes []int

	upsertErr    error
	neighborsErr error
	// block, when set, is waited on by UpsertSimilarities.
	block chan struct{}
}

func newFakeSimilarities(entries ...models.SimilarityEntry) *fakeSimilarities {
	s := &fakeSimilarities{rows: make(map[[2]string]models.SimilarityEntry)}
	for _, e := range entries {
		s.rows[[2]string{e.Product1, e.Product2}] = e
	}
	return s
}

func (s *fakeSimilarities) UpsertSimilarities(_ context.Context, entries []models.SimilarityEntry) (int, error) {
	if s.block != nil {
		<-s.block
	}
	if s.upsertErr != nil {
		return 0, s.upsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchSizes = append(s.batchSizes, len(entries))
	for _, e := range entries {
		s.rows[[2]string{e.Product1, e.Product2}] = e
	}
	return len(entries), nil
}

func (s *fakeSimilarities) NeighborsOf(_ context.Context, ids []string, limit int) ([]models.SimilarityEntry, error) {
	if s.neighborsErr != nil {
		return nil, s.neighborsErr
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.Lock()
	var out []models.SimilarityEntry
	for _, e := range s.rows {
		if want[e.Product1] || want[e.Product2] {
			out = append(out, e)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		if out[i].Product1 != out[j].Product1 {
			return out[i].Product1 < out[j].Product1
		}
		return out[i].Product2 < out[j].Product2
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeSimilarities) get(a, b string) (models.SimilarityEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rows[[2]string{a, b}]
	return e, ok
}

func (s *fakeSimilarities) snapshot() map[[2]string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[[2]string]float64, len(s.rows))
	for k, v := range s.rows {
		out[k] = v.Similarity
	}
	return out
}

// fakePublisher implements EventPublisher.
type fakePublisher struct {
	mu        sync.Mutex
	published []models.InteractionEvent
	err       error
}

func (p *fakePublisher) PublishInteraction(_ context.Context, event *models.InteractionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, *event)
	return p.err
}

// at returns a UTC time on a fixed date at hour:00.
func at(hour int) time.Time {
	return time.Date(2026, 3, 15, hour, 0, 0, 0, time.UTC)
}

func product(id, category string, price float64, views int64) models.Product {
	return models.Product{
		ID:          id,
		Name:        "Product " + id,
		Description: "a " + category + " item",
		Price:       price,
		Category:    category,
		Views:       views,
	}
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Location = time.UTC
	cfg.Workers = 2
	return cfg
}
