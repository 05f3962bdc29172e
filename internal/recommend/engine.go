// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pricewatch/internal/metrics"
	"github.com/tomtom215/pricewatch/internal/models"
)

// ErrNoStore is returned by NewEngine when no Store is supplied.
var ErrNoStore = errors.New("recommend: store is required")

// Store is the persistence the engine needs. The database package
// implements it; tests use an in-memory mock.
type Store interface {
	GetUserPreferences(ctx context.Context, userID int64) ([]models.UserPreference, error)
	UpsertUserPreference(ctx context.Context, pref *models.UserPreference) error

	// GetUserBehaviors returns the user's behavior log with product
	// category, source and current price joined in.
	GetUserBehaviors(ctx context.Context, userID int64) ([]models.UserBehavior, error)
	GetUserWatchlist(ctx context.Context, userID int64) ([]models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)

	// GetEngagementCounts counts VIEW, WATCH_ADD and NOTIFICATION_CLICK
	// events per product across all users.
	GetEngagementCounts(ctx context.Context) (map[int64]int, error)
	// GetWatchlistCounts counts watch-list entries per product across all users.
	GetWatchlistCounts(ctx context.Context) (map[int64]int, error)

	// UpsertRecommendation atomically inserts or updates the (user, product)
	// row and returns the stored row.
	UpsertRecommendation(ctx context.Context, rec *models.Recommendation) (*models.Recommendation, error)
	GetUserRecommendations(ctx context.Context, userID int64, limit int) ([]models.RecommendationDTO, error)
	GetRecommendationsByAlgorithm(ctx context.Context, userID int64, algorithm models.Algorithm) ([]models.RecommendationDTO, error)
	GetRecommendationsByCategories(ctx context.Context, userID int64, categories []string) ([]models.RecommendationDTO, error)
	GetUnviewedRecommendations(ctx context.Context, userID int64) ([]models.RecommendationDTO, error)
	CountUnviewedRecommendations(ctx context.Context, userID int64) (int64, error)

	// MarkRecommendationViewed sets viewed=true and appends a VIEW behavior
	// for the underlying (user, product) in one transaction.
	MarkRecommendationViewed(ctx context.Context, id int64, at time.Time) (*models.Recommendation, error)
}

// BehaviorPublisher is notified of behavior events the engine appends.
type BehaviorPublisher interface {
	PublishBehavior(ctx context.Context, b *models.UserBehavior) error
}

const userLockStripes = 64

// Engine runs the recommendation pipeline and owns the recommendation and
// preference side of the store. It is safe for concurrent use; generation
// for the same user is serialized.
type Engine struct {
	config *Config
	logger zerolog.Logger
	store  Store

	scorers []Scorer
	scMu    sync.RWMutex

	publisher BehaviorPublisher

	// userLocks is striped by user ID; users sharing a stripe also share
	// the lock.
	userLocks [userLockStripes]sync.Mutex

	now func() time.Time
}

// NewEngine creates an engine over store. cfg may be nil for defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store Store, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrNoStore
	}
	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
		store:  store,
		now:    time.Now,
	}, nil
}

// RegisterScorer adds a strategy to the pipeline.
func (e *Engine) RegisterScorer(s Scorer) {
	e.scMu.Lock()
	defer e.scMu.Unlock()

	e.scorers = append(e.scorers, s)
	e.logger.Info().
		Str("algorithm", s.Algorithm().String()).
		Msg("registered scorer")
}

// SetBehaviorPublisher sets the sink for behaviors appended by MarkViewed.
func (e *Engine) SetBehaviorPublisher(p BehaviorPublisher) {
	e.publisher = p
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

func (e *Engine) getScorers() []Scorer {
	e.scMu.RLock()
	defer e.scMu.RUnlock()
	out := make([]Scorer, len(e.scorers))
	copy(out, e.scorers)
	return out
}

func (e *Engine) userLock(userID int64) *sync.Mutex {
	return &e.userLocks[uint64(userID)%userLockStripes]
}

// Generate runs the full pipeline for userID, persists the results and
// returns them in ranked order. It never fails: any error is logged and an
// empty slice is returned.
func (e *Engine) Generate(ctx context.Context, userID int64, limit int) (out []models.RecommendationDTO) {
	start := time.Now()
	logger := e.logger.With().Int64("user_id", userID).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("recommendation pipeline panicked")
			metrics.RecordGeneration("error", time.Since(start))
			out = []models.RecommendationDTO{}
		}
	}()

	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	dtos, err := e.generate(ctx, userID, e.config.ResolveLimit(limit), logger)
	if err != nil {
		logger.Error().Err(err).Msg("recommendation generation failed")
		metrics.RecordGeneration("error", time.Since(start))
		return []models.RecommendationDTO{}
	}

	outcome := "ok"
	if len(dtos) == 0 {
		outcome = "empty"
	}
	metrics.RecordGeneration(outcome, time.Since(start))
	logger.Info().
		Int("count", len(dtos)).
		Dur("duration", time.Since(start)).
		Msg("recommendations generated")
	return dtos
}

//nolint:gocritic // logger passed by value for zerolog chaining
func (e *Engine) generate(ctx context.Context, userID int64, limit int, logger zerolog.Logger) ([]models.RecommendationDTO, error) {
	prefs, err := e.store.GetUserPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if len(prefs) == 0 {
		prefs = e.defaultPreferences(userID)
	}

	req := &Request{
		UserID:      userID,
		Limit:       limit,
		Preferences: prefs,
		Now:         e.now(),
	}

	results := e.runScorers(ctx, req)
	combined := Combine(results, e.config.Weights, limit)

	if len(combined) == 0 {
		combined, err = e.fallback(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
		if len(combined) > 0 {
			metrics.RecommendFallbackTotal.Inc()
			logger.Debug().Int("count", len(combined)).Msg("using popularity fallback")
		}
	}
	if len(combined) == 0 {
		return []models.RecommendationDTO{}, nil
	}

	ids := make([]int64, len(combined))
	for i, c := range combined {
		ids[i] = c.ProductID
	}
	products, err := e.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	focused, err := e.applyCategoryFocus(ctx, userID, combined, products, limit)
	if err != nil {
		return nil, err
	}

	return e.persist(ctx, userID, focused, products)
}

func (e *Engine) defaultPreferences(userID int64) []models.UserPreference {
	prefs := make([]models.UserPreference, 0, len(e.config.DefaultCategories))
	for _, cat := range e.config.DefaultCategories {
		prefs = append(prefs, models.UserPreference{
			UserID:   userID,
			Category: cat,
			Weight:   e.config.DefaultPreferenceWeight,
		})
	}
	return prefs
}

// runScorers runs every registered scorer concurrently and returns the
// results in registration order.
func (e *Engine) runScorers(ctx context.Context, req *Request) []ScorerResult {
	scorers := e.getScorers()
	results := make([]ScorerResult, len(scorers))

	scoreCtx, cancel := context.WithTimeout(ctx, e.config.Limits.ScorerTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for i, s := range scorers {
		wg.Add(1)
		go func(idx int, sc Scorer) {
			defer wg.Done()
			results[idx] = e.runScorer(scoreCtx, req, sc)
		}(i, s)
	}
	wg.Wait()

	for _, res := range results {
		if res.Err != nil {
			e.logger.Warn().
				Str("algorithm", res.Algorithm.String()).
				Int64("user_id", req.UserID).
				Err(res.Err).
				Msg("scorer failed, contributing no candidates")
		}
	}
	return results
}

func (e *Engine) runScorer(ctx context.Context, req *Request, s Scorer) (res ScorerResult) {
	start := time.Now()
	res.Algorithm = s.Algorithm()

	defer func() {
		if r := recover(); r != nil {
			res.Candidates = nil
			res.Err = fmt.Errorf("scorer panicked: %v", r)
		}
		res.Duration = time.Since(start)
		metrics.RecordScorerRun(res.Algorithm.String(), res.Duration, len(res.Candidates), res.Err)
	}()

	cands, err := s.Score(ctx, req)
	if err != nil {
		res.Err = err
		return res
	}
	res.Candidates = cands
	return res
}

// fallback ranks products by engagement across all users, or by watch-list
// popularity when nobody has engaged with anything yet.
func (e *Engine) fallback(ctx context.Context, limit int) ([]Candidate, error) {
	counts, err := e.store.GetEngagementCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("engagement counts: %w", err)
	}
	if len(counts) == 0 {
		counts, err = e.store.GetWatchlistCounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("watchlist counts: %w", err)
		}
	}
	return FallbackCandidates(counts, limit), nil
}

func (e *Engine) applyCategoryFocus(ctx context.Context, userID int64, cands []Candidate, products map[int64]models.Product, limit int) ([]Candidate, error) {
	behaviors, err := e.store.GetUserBehaviors(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load behaviors for focus: %w", err)
	}
	watchlist, err := e.store.GetUserWatchlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load watchlist for focus: %w", err)
	}

	dominant, _ := DominantCategory(behaviors, watchlist)

	categories := make(map[int64]string, len(products))
	for id := range products {
		categories[id] = products[id].Category
	}
	return ApplyCategoryFocus(cands, categories, dominant, e.config.Focus.Boost, limit), nil
}

// persist clamps and upserts each candidate, returning DTOs in input order.
func (e *Engine) persist(ctx context.Context, userID int64, cands []Candidate, products map[int64]models.Product) ([]models.RecommendationDTO, error) {
	out := make([]models.RecommendationDTO, 0, len(cands))
	for _, c := range cands {
		saved, err := e.store.UpsertRecommendation(ctx, &models.Recommendation{
			UserID:    userID,
			ProductID: c.ProductID,
			Score:     Clamp01(c.Score),
			Algorithm: c.Algorithm,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert recommendation for product %d: %w", c.ProductID, err)
		}
		metrics.RecommendationsPersisted.WithLabelValues(saved.Algorithm.String()).Inc()

		p, ok := products[c.ProductID]
		var pp *models.Product
		if ok {
			pp = &p
		}
		out = append(out, models.NewRecommendationDTO(saved, pp))
	}
	return out, nil
}
