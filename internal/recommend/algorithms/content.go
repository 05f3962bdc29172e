// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package algorithms

import (
	"context"
	"fmt"
	"math"

	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/recommend"
)

const (
	sourceBonusPerEvent = 0.05
	sourceBonusCap      = 0.2
	priceBandBonus      = 0.15
	priceCheaperBonus   = 0.1
	priceBand           = 0.2
	popularityBonusPer  = 0.01
	popularityBonusCap  = 0.2
)

// Content scores products against the user's category preferences.
//
// Candidates are products anyone has engaged with, or every watch-listed
// product when nobody has. For each candidate:
//
//	score = mean(matching preference weights) | NoMatchScore
//	      + min(0.2, 0.05 * user events on the product's source)
//	      + 0.15 if price within 20% of the user's mean interaction price,
//	        else 0.1 if cheaper
//	      + min(0.2, 0.01 * VIEW/WATCH_ADD events on the product)
//
// The result is not clamped.
type Content struct {
	cfg  recommend.ContentConfig
	data DataProvider
}

// NewContent creates a content scorer.
func NewContent(cfg recommend.ContentConfig, data DataProvider) *Content {
	return &Content{cfg: cfg, data: data}
}

// Algorithm returns CONTENT_BASED.
func (c *Content) Algorithm() models.Algorithm {
	return models.AlgorithmContentBased
}

// Score implements recommend.Scorer.
func (c *Content) Score(ctx context.Context, req *recommend.Request) ([]recommend.Candidate, error) {
	products, err := c.data.GetEngagedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load engaged products: %w", err)
	}
	if len(products) == 0 {
		products, err = c.data.GetWatchlistedProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("load watchlisted products: %w", err)
		}
	}
	if len(products) == 0 {
		return nil, nil
	}

	behaviors, err := c.data.GetUserBehaviors(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user behaviors: %w", err)
	}
	popularity, err := c.data.GetPopularityCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load popularity: %w", err)
	}

	profile := newContentProfile(req.Preferences, behaviors)

	out := make([]recommend.Candidate, 0, len(products))
	for i := range products {
		if recommend.ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		p := &products[i]
		score := profile.categoryScore(p.Category, c.cfg.NoMatchScore) +
			profile.sourceBonus(p.Source) +
			profile.priceBonus(p.CurrentPrice) +
			math.Min(popularityBonusCap, popularityBonusPer*float64(popularity[p.ID]))
		if score < c.cfg.MinScore {
			continue
		}
		out = append(out, recommend.Candidate{
			ProductID: p.ID,
			Score:     score,
			Algorithm: models.AlgorithmContentBased,
		})
	}
	return recommend.TopN(out, req.Limit), nil
}

// contentProfile is the per-user aggregate the content formula reads.
type contentProfile struct {
	weights  map[string][]float64
	sources  map[string]int
	avgPrice float64
	hasPrice bool
}

func newContentProfile(prefs []models.UserPreference, behaviors []models.UserBehavior) *contentProfile {
	cp := &contentProfile{
		weights: make(map[string][]float64, len(prefs)),
		sources: make(map[string]int),
	}
	for i := range prefs {
		cp.weights[prefs[i].Category] = append(cp.weights[prefs[i].Category], prefs[i].Weight)
	}

	var sum float64
	var n int
	for i := range behaviors {
		b := &behaviors[i]
		if b.Source != "" {
			cp.sources[b.Source]++
		}
		if b.CurrentPrice != nil {
			sum += *b.CurrentPrice
			n++
		}
	}
	if n > 0 {
		cp.avgPrice = sum / float64(n)
		cp.hasPrice = true
	}
	return cp
}

func (cp *contentProfile) categoryScore(category string, noMatch float64) float64 {
	ws := cp.weights[category]
	if category == "" || len(ws) == 0 {
		return noMatch
	}
	var sum float64
	for _, w := range ws {
		sum += w
	}
	return sum / float64(len(ws))
}

func (cp *contentProfile) sourceBonus(source string) float64 {
	if source == "" {
		return 0
	}
	return math.Min(sourceBonusCap, sourceBonusPerEvent*float64(cp.sources[source]))
}

func (cp *contentProfile) priceBonus(price *float64) float64 {
	if price == nil || !cp.hasPrice {
		return 0
	}
	if math.Abs(*price-cp.avgPrice) <= priceBand*cp.avgPrice {
		return priceBandBonus
	}
	if *price < cp.avgPrice {
		return priceCheaperBonus
	}
	return 0
}
