// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/metrics"
	"github.com/tomtom215/curator/internal/models"
)

// Catalog is the read-only product catalog.
type Catalog interface {
	// FindByID returns nil, nil when the product does not exist.
	FindByID(ctx context.Context, id string) (*models.Product, error)

	// FindByIDs returns the products that exist, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)

	// FindAll returns the full catalog. Used only by rebuilds.
	FindAll(ctx context.Context) ([]models.Product, error)

	// FindByCategoryExcluding returns up to limit products whose category is
	// in categories (any category when empty) and whose id is not in exclude,
	// most viewed first.
	FindByCategoryExcluding(ctx context.Context, categories, exclude []string, limit int) ([]models.Product, error)
}

// InteractionStore is the append-only interaction log.
type InteractionStore interface {
	InsertInteraction(ctx context.Context, event *models.InteractionEvent) error

	// RecentInteractions returns up to limit events for user, newest first,
	// joined with the product's category and price. Events whose product is
	// gone from the catalog are skipped.
	RecentInteractions(ctx context.Context, userID string, limit int) ([]models.RecentInteraction, error)
}

// SimilarityStore persists the similarity matrix.
type SimilarityStore interface {
	// UpsertSimilarities inserts or overwrites the given rows and returns how
	// many were written. Implementations must not retain entries.
	UpsertSimilarities(ctx context.Context, entries []models.SimilarityEntry) (int, error)

	// NeighborsOf returns up to limit rows with either side in ids, by
	// similarity descending.
	NeighborsOf(ctx context.Context, ids []string, limit int) ([]models.SimilarityEntry, error)
}

// EventPublisher announces stored interactions. Optional.
type EventPublisher interface {
	PublishInteraction(ctx context.Context, event *models.InteractionEvent) error
}

// Deps are the collaborators of an Engine.
type Deps struct {
	Catalog      Catalog
	Interactions InteractionStore
	Similarities SimilarityStore
	Publisher    EventPublisher
}

// Rebuild triggers, used as a metrics label.
const (
	TriggerAPI      = "api"
	TriggerSchedule = "schedule"
	TriggerEvent    = "event"
	TriggerStartup  = "startup"
)

// Engine is the recommendation core. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	catalog      Catalog
	interactions InteractionStore
	publisher    EventPublisher

	builder   *Builder
	ranker    *Ranker
	assembler *Assembler

	rebuilding  atomic.Bool
	lastRebuild struct {
		sync.RWMutex
		report *RebuildReport
	}

	now func() time.Time
}

// NewEngine creates an engine from cfg and deps.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Deps, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Catalog == nil || deps.Interactions == nil || deps.Similarities == nil {
		return nil, errors.New("catalog, interaction and similarity stores are required")
	}

	logger = logger.With().Str("component", "recommend").Logger()
	scorer := Scorer{
		DaytimeCategory:   cfg.DaytimeCategory,
		NighttimeCategory: cfg.NighttimeCategory,
		Location:          cfg.location(),
	}

	return &Engine{
		config:       cfg,
		logger:       logger,
		catalog:      deps.Catalog,
		interactions: deps.Interactions,
		publisher:    deps.Publisher,
		builder:      NewBuilder(deps.Catalog, deps.Similarities, cfg.Workers, cfg.BatchSize, logger),
		ranker:       NewRanker(deps.Catalog, deps.Similarities, scorer, cfg.NeighborLimit, cfg.ResultLimit, logger),
		assembler:    NewAssembler(scorer, cfg.PlaceholderImage),
		now:          time.Now,
	}, nil
}

// SetPublisher attaches the event publisher. Call before serving requests.
func (e *Engine) SetPublisher(p EventPublisher) {
	e.publisher = p
}

// TrackInteraction validates and stores one interaction event.
//
// The context is enriched with time_of_day, day_of_week (both taken from the
// time of recording, not the event timestamp) and device before the caller's
// keys are merged over it. Nothing is written when the product does
// not exist.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) TrackInteraction(ctx context.Context, req TrackRequest) (*models.InteractionEvent, error) {
	const op = "track"

	switch {
	case req.UserID == "":
		return nil, e.rejectTrack(invalidArgument(op, "user is required"), "invalid_argument")
	case req.ProductID == "":
		return nil, e.rejectTrack(invalidArgument(op, "product_id is required"), "invalid_argument")
	case req.Type == "":
		return nil, e.rejectTrack(invalidArgument(op, "interaction_type is required"), "invalid_argument")
	case !req.Type.Valid():
		return nil, e.rejectTrack(invalidArgument(op, "unknown interaction_type %q", req.Type), "invalid_argument")
	}

	product, err := e.catalog.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.rejectTrack(upstream(op, fmt.Errorf("find product: %w", err)), "upstream")
	}
	if product == nil {
		return nil, e.rejectTrack(notFound(op, "product %s", req.ProductID), "not_found")
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = e.now()
	}

	event := &models.InteractionEvent{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Type:      req.Type,
		Timestamp: ts,
		Context:   e.enrichContext(e.now(), req.Device, req.Context),
	}

	if err := e.interactions.InsertInteraction(ctx, event); err != nil {
		return nil, e.rejectTrack(upstream(op, fmt.Errorf("insert interaction: %w", err)), "upstream")
	}
	metrics.InteractionsTracked.WithLabelValues(string(event.Type)).Inc()

	if e.publisher != nil {
		if err := e.publisher.PublishInteraction(ctx, event); err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Str("interaction_id", event.ID).
				Msg("Failed to publish interaction event")
		}
	}

	logging.Ctx(ctx).Debug().
		Str("interaction_id", event.ID).
		Str("product_id", event.ProductID).
		Str("interaction_type", string(event.Type)).
		Msg("Interaction tracked")

	return event, nil
}

func (e *Engine) rejectTrack(err error, reason string) error {
	metrics.InteractionsRejected.WithLabelValues(reason).Inc()
	return err
}

func (e *Engine) enrichContext(recordedAt time.Time, device string, extra map[string]interface{}) map[string]interface{} {
	local := recordedAt.In(e.config.location())

	ctx := make(map[string]interface{}, 3+len(extra))
	ctx[models.ContextTimeOfDay] = local.Hour()
	ctx[models.ContextDayOfWeek] = int(local.Weekday())
	if device != "" {
		ctx[models.ContextDevice] = device
	}
	for k, v := range extra {
		ctx[k] = v
	}
	return ctx
}

// PreferenceProfile loads the user's recent history and derives a Profile.
func (e *Engine) PreferenceProfile(ctx context.Context, userID string) (*Profile, []models.RecentInteraction, error) {
	if userID == "" {
		return nil, nil, invalidArgument("profile", "user is required")
	}

	recent, err := e.interactions.RecentInteractions(ctx, userID, e.config.HistoryWindow)
	if err != nil {
		return nil, nil, upstream("profile", fmt.Errorf("recent interactions: %w", err))
	}
	return AnalyzePreferences(recent, e.config.TopCategories, e.config.location()), recent, nil
}

// GetRecommendations returns up to ResultLimit personalised results.
//
// A failure in one ranking phase is tolerated as long as the other produced
// results; the list is then served and the request counted as degraded.
func (e *Engine) GetRecommendations(ctx context.Context, userID string) ([]Result, error) {
	start := time.Now()
	logger := logging.Ctx(ctx)

	profile, recent, err := e.PreferenceProfile(ctx, userID)
	if err != nil {
		metrics.RecordRecommendation("error", time.Since(start), 0, 0)
		return nil, err
	}

	now := e.now()
	candidates, err := e.ranker.Rank(ctx, profile, recent, now)
	outcome := "success"
	if err != nil {
		if len(candidates) == 0 {
			metrics.RecordRecommendation("error", time.Since(start), 0, 0)
			return nil, err
		}
		outcome = "degraded"
		logger.Warn().Err(err).
			Int("candidates", len(candidates)).
			Msg("Serving partial recommendations")
	}

	results := e.assembler.Assemble(candidates, profile, now)

	similar, backfill := countSources(candidates)
	metrics.RecordRecommendation(outcome, time.Since(start), similar, backfill)
	logger.Debug().
		Int("interactions", len(recent)).
		Int("similar", similar).
		Int("backfill", backfill).
		Msg("Recommendations assembled")

	return results, nil
}

func countSources(candidates []Candidate) (similar, backfill int) {
	for i := range candidates {
		if candidates[i].Source == SourceSimilarity {
			similar++
		} else {
			backfill++
		}
	}
	return similar, backfill
}

// RebuildSimilarities recomputes the similarity matrix. Only one rebuild runs
// at a time; overlapping calls return ErrRebuildInProgress immediately.
func (e *Engine) RebuildSimilarities(ctx context.Context, trigger string) (*RebuildReport, error) {
	if !e.rebuilding.CompareAndSwap(false, true) {
		metrics.RecordRebuild("busy", trigger, 0, 0, 0)
		return nil, &Error{Kind: ErrRebuildInProgress, Op: "rebuild"}
	}
	defer e.rebuilding.Store(false)

	e.logger.Info().Str("trigger", trigger).Msg("Similarity rebuild started")

	report, err := e.builder.Rebuild(ctx)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrNotFound) {
			outcome = "empty_catalog"
		}
		metrics.RecordRebuild(outcome, trigger, 0, 0, 0)
		return report, err
	}

	metrics.RecordRebuild("success", trigger, report.Duration, report.Pairs, report.PairErrors)
	e.lastRebuild.Lock()
	e.lastRebuild.report = report
	e.lastRebuild.Unlock()

	e.logger.Info().
		Str("trigger", trigger).
		Int("products", report.Products).
		Int("pairs", report.Pairs).
		Int("updated", report.Updated).
		Int("pair_errors", report.PairErrors).
		Dur("duration", report.Duration).
		Msg("Similarity rebuild completed")

	return report, nil
}

// LastRebuild returns the report of the last successful rebuild, or nil.
func (e *Engine) LastRebuild() *RebuildReport {
	e.lastRebuild.RLock()
	defer e.lastRebuild.RUnlock()
	return e.lastRebuild.report
}

// RebuildInProgress reports whether a rebuild is running.
func (e *Engine) RebuildInProgress() bool {
	return e.rebuilding.Load()
}
