// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package trend analyses price and interaction history per product.
//
// Three signals are computed for a product:
//
//   - price trend: mean relative change over the last observations
//   - popularity trend: growth of daily interaction counts, later half
//     over earlier half
//   - seasonality: coefficient of variation of interaction counts per
//     month of year, capped at 1
//
// TrendScore blends them as clamp01(0.4*price + 0.4*popularity +
// 0.2*seasonality). Analyses are cached per product and dropped when a new
// behavior or price is recorded for it.
package trend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pricewatch/internal/cache"
	"github.com/tomtom215/pricewatch/internal/models"
)

const (
	priceWeight       = 0.4
	popularityWeight  = 0.4
	seasonalityWeight = 0.2

	minSeasonMonths = 3
)

// Store is the data the trend service reads.
type Store interface {
	// GetPriceHistory returns observations ordered by CheckedAt ascending.
	GetPriceHistory(ctx context.Context, productID int64) ([]models.PriceHistory, error)
	GetProductBehaviors(ctx context.Context, productID int64) ([]models.UserBehavior, error)
	GetAllProducts(ctx context.Context) ([]models.Product, error)
}

// Config holds trend thresholds.
type Config struct {
	// PriceThreshold is the price trend a product must exceed to be trending.
	PriceThreshold float64 `koanf:"price_threshold"`
	// PopularityThreshold is the growth a product must exceed to be growing.
	PopularityThreshold float64 `koanf:"popularity_threshold"`
	// SeasonalThreshold is the seasonality a product must exceed to be seasonal.
	SeasonalThreshold float64 `koanf:"seasonal_threshold"`
	// HistoryWindow is how many recent price observations are analysed.
	HistoryWindow int `koanf:"history_window"`
	// CacheTTL bounds how long an analysis is reused.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		PriceThreshold:      0.05,
		PopularityThreshold: 0.1,
		SeasonalThreshold:   0.5,
		HistoryWindow:       10,
		CacheTTL:            15 * time.Minute,
	}
}

// Analysis is the full trend picture of one product.
type Analysis struct {
	ProductID       int64   `json:"product_id"`
	PriceTrend      float64 `json:"price_trend"`
	PopularityTrend float64 `json:"popularity_trend"`
	Seasonality     float64 `json:"seasonality"`
	Score           float64 `json:"score"`
}

// Service computes and caches product trends.
type Service struct {
	cfg    Config
	store  Store
	cache  *cache.Cache[int64, *Analysis]
	logger zerolog.Logger
}

// NewService creates a trend service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(cfg Config, store Store, logger zerolog.Logger) *Service {
	if cfg.HistoryWindow < 2 {
		cfg.HistoryWindow = DefaultConfig().HistoryWindow
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	return &Service{
		cfg:    cfg,
		store:  store,
		cache:  cache.New[int64, *Analysis]("trend", cfg.CacheTTL),
		logger: logger.With().Str("component", "trend").Logger(),
	}
}

// Close releases the analysis cache.
func (s *Service) Close() {
	s.cache.Close()
}

// Invalidate drops the cached analysis for productID.
func (s *Service) Invalidate(productID int64) {
	s.cache.Delete(productID)
}

// InvalidateAll drops every cached analysis.
func (s *Service) InvalidateAll() {
	s.cache.Clear()
}

// Analyze returns the trend analysis for productID.
func (s *Service) Analyze(ctx context.Context, productID int64) (*Analysis, error) {
	return s.cache.GetOrLoad(productID, func() (*Analysis, error) {
		history, err := s.store.GetPriceHistory(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("load price history for product %d: %w", productID, err)
		}
		behaviors, err := s.store.GetProductBehaviors(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("load behaviors for product %d: %w", productID, err)
		}

		a := &Analysis{
			ProductID:       productID,
			PriceTrend:      PriceTrend(history, s.cfg.HistoryWindow),
			PopularityTrend: PopularityTrend(behaviors),
			Seasonality:     Seasonality(behaviors),
		}
		a.Score = Score(a.PriceTrend, a.PopularityTrend, a.Seasonality)
		return a, nil
	})
}

// TrendScore returns the blended trend score of productID in [0, 1].
func (s *Service) TrendScore(ctx context.Context, productID int64) (float64, error) {
	a, err := s.Analyze(ctx, productID)
	if err != nil {
		return 0, err
	}
	return a.Score, nil
}

// TrendingProducts returns products whose price trend exceeds the threshold.
func (s *Service) TrendingProducts(ctx context.Context) ([]models.Product, error) {
	return s.filter(ctx, func(a *Analysis) bool { return a.PriceTrend > s.cfg.PriceThreshold })
}

// GrowingPopularityProducts returns products whose interaction volume is
// growing faster than the threshold.
func (s *Service) GrowingPopularityProducts(ctx context.Context) ([]models.Product, error) {
	return s.filter(ctx, func(a *Analysis) bool { return a.PopularityTrend > s.cfg.PopularityThreshold })
}

// SeasonalProducts returns products with seasonality above the threshold.
func (s *Service) SeasonalProducts(ctx context.Context) ([]models.Product, error) {
	return s.filter(ctx, func(a *Analysis) bool { return a.Seasonality > s.cfg.SeasonalThreshold })
}

// Trending returns all three trend sets at once.
func (s *Service) Trending(ctx context.Context) (*models.TrendingProducts, error) {
	products, err := s.store.GetAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	out := &models.TrendingProducts{
		PriceTrending:     []models.Product{},
		GrowingPopularity: []models.Product{},
		Seasonal:          []models.Product{},
	}
	for i := range products {
		a, err := s.Analyze(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		if a.PriceTrend > s.cfg.PriceThreshold {
			out.PriceTrending = append(out.PriceTrending, products[i])
		}
		if a.PopularityTrend > s.cfg.PopularityThreshold {
			out.GrowingPopularity = append(out.GrowingPopularity, products[i])
		}
		if a.Seasonality > s.cfg.SeasonalThreshold {
			out.Seasonal = append(out.Seasonal, products[i])
		}
	}
	return out, nil
}

func (s *Service) filter(ctx context.Context, keep func(*Analysis) bool) ([]models.Product, error) {
	products, err := s.store.GetAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	out := make([]models.Product, 0)
	for i := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := s.Analyze(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		if keep(a) {
			out = append(out, products[i])
		}
	}
	return out, nil
}

// PriceTrend is the mean relative change between consecutive prices over
// the last window observations. Each change and the mean are rounded to
// four decimals. Pairs with a non-positive earlier price are skipped.
func PriceTrend(history []models.PriceHistory, window int) float64 {
	if len(history) < 2 {
		return 0
	}
	sorted := make([]models.PriceHistory, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CheckedAt.Before(sorted[j].CheckedAt) })
	if len(sorted) > window {
		sorted = sorted[len(sorted)-window:]
	}

	var total float64
	var n int
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1].Price
		if prev <= 0 {
			continue
		}
		total += round4((sorted[i].Price - prev) / prev)
		n++
	}
	if n == 0 {
		return 0
	}
	return round4(total / float64(n))
}

// PopularityTrend compares the average daily interaction count of the
// later half of active days with the earlier half: (late-early)/early.
// Days are UTC calendar days in chronological order.
func PopularityTrend(behaviors []models.UserBehavior) float64 {
	daily := make(map[string]int)
	for i := range behaviors {
		daily[behaviors[i].CreatedAt.UTC().Format(time.DateOnly)]++
	}
	if len(daily) < 2 {
		return 0
	}

	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)

	mid := len(days) / 2
	early := meanCount(daily, days[:mid])
	late := meanCount(daily, days[mid:])
	if early == 0 {
		return 0
	}
	return (late - early) / early
}

// Seasonality is the coefficient of variation (population standard
// deviation over mean) of interaction counts per month of year, capped at
// 1. Fewer than three distinct months yield 0.
func Seasonality(behaviors []models.UserBehavior) float64 {
	monthly := make(map[time.Month]float64)
	for i := range behaviors {
		monthly[behaviors[i].CreatedAt.UTC().Month()]++
	}
	if len(monthly) < minSeasonMonths {
		return 0
	}

	var sum float64
	for _, c := range monthly {
		sum += c
	}
	mean := sum / float64(len(monthly))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, c := range monthly {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(len(monthly))
	return math.Min(1.0, math.Sqrt(variance)/mean)
}

// Score blends the three signals and clamps the result to [0, 1].
func Score(price, popularity, seasonality float64) float64 {
	v := priceWeight*price + popularityWeight*popularity + seasonalityWeight*seasonality
	return math.Max(0, math.Min(1, v))
}

func meanCount(daily map[string]int, days []string) float64 {
	if len(days) == 0 {
		return 0
	}
	var sum int
	for _, d := range days {
		sum += daily[d]
	}
	return float64(sum) / float64(len(days))
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
