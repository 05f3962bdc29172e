// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/recommend"
)

// Cluster buckets users by how many preferences they hold and recommends
// what the rest of the bucket engages with, at a flat score.
type Cluster struct {
	cfg  recommend.ClusterConfig
	data DataProvider
}

// NewCluster creates a cluster scorer.
func NewCluster(cfg recommend.ClusterConfig, data DataProvider) *Cluster {
	return &Cluster{cfg: cfg, data: data}
}

// Algorithm returns CLUSTERING.
func (c *Cluster) Algorithm() models.Algorithm {
	return models.AlgorithmClustering
}

// ClusterOf maps a preference count to a cluster: two counts per step,
// capped at clusters-1. With five clusters: <=2 -> 0, <=4 -> 1, <=6 -> 2,
// <=8 -> 3, else 4.
func ClusterOf(prefCount, clusters int) int {
	if prefCount <= 0 {
		return 0
	}
	id := (prefCount - 1) / 2
	if id > clusters-1 {
		id = clusters - 1
	}
	return id
}

// Score implements recommend.Scorer.
func (c *Cluster) Score(ctx context.Context, req *recommend.Request) ([]recommend.Candidate, error) {
	prefs, err := c.data.GetAllUserPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	all, err := c.data.GetAllBehaviors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load behaviors: %w", err)
	}
	tracked, err := trackedSet(ctx, c.data, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	target := ClusterOf(len(prefs[req.UserID]), c.cfg.Clusters)

	counts := make(map[int64]int)
	for i := range all {
		b := &all[i]
		if b.UserID == req.UserID || !b.BehaviorType.IsEngagement() {
			continue
		}
		if ClusterOf(len(prefs[b.UserID]), c.cfg.Clusters) != target {
			continue
		}
		counts[b.ProductID]++
	}

	ids := rankByCount(counts, tracked, req.Limit)
	return flatCandidates(ids, c.cfg.Score, models.AlgorithmClustering), nil
}
