// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/recommend"
)

// Collaborative recommends what similar users engage with.
//
// Similarity is recommend.UserSimilarity over stored preferences and
// behavior types; a user without preferences has no neighbors. Up to
// MaxNeighbors users at or above MinSimilarity contribute the decayed weight
// of each engagement event; weights are summed per product. Products on the
// user's watch list are excluded.
type Collaborative struct {
	cfg  recommend.CollaborativeConfig
	data DataProvider
}

// NewCollaborative creates a collaborative scorer.
func NewCollaborative(cfg recommend.CollaborativeConfig, data DataProvider) *Collaborative {
	return &Collaborative{cfg: cfg, data: data}
}

// Algorithm returns COLLABORATIVE.
func (c *Collaborative) Algorithm() models.Algorithm {
	return models.AlgorithmCollaborative
}

type neighbor struct {
	userID     int64
	similarity float64
}

// Score implements recommend.Scorer.
func (c *Collaborative) Score(ctx context.Context, req *recommend.Request) ([]recommend.Candidate, error) {
	prefs, err := c.data.GetAllUserPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	all, err := c.data.GetAllBehaviors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load behaviors: %w", err)
	}
	byUser := groupByUser(all)

	neighbors := c.neighbors(req.UserID, prefs, byUser)
	if len(neighbors) == 0 {
		return nil, nil
	}

	tracked, err := trackedSet(ctx, c.data, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	scores := make(map[int64]float64)
	for _, n := range neighbors {
		for i := range byUser[n.userID] {
			b := &byUser[n.userID][i]
			if !b.BehaviorType.IsEngagement() {
				continue
			}
			if _, skip := tracked[b.ProductID]; skip {
				continue
			}
			scores[b.ProductID] += recommend.DecayedBehaviorWeight(b.BehaviorType, b.CreatedAt, req.Now)
		}
	}

	out := make([]recommend.Candidate, 0, len(scores))
	for id, s := range scores {
		out = append(out, recommend.Candidate{
			ProductID: id,
			Score:     s,
			Algorithm: models.AlgorithmCollaborative,
		})
	}
	out = recommend.TopN(out, req.Limit)
	for i := range out {
		out[i].Score = recommend.Clamp01(out[i].Score)
	}
	return out, nil
}

// neighbors returns the most similar users, most similar first. Only users
// with stored preferences take part on either side.
func (c *Collaborative) neighbors(userID int64, prefs map[int64][]models.UserPreference, byUser map[int64][]models.UserBehavior) []neighbor {
	if len(prefs[userID]) == 0 {
		return nil
	}
	target := recommend.NewUserSignature(prefs[userID], byUser[userID])

	out := make([]neighbor, 0)
	for other, otherPrefs := range prefs {
		if other == userID || len(otherPrefs) == 0 {
			continue
		}
		sim := recommend.UserSimilarity(target, recommend.NewUserSignature(otherPrefs, byUser[other]))
		if sim >= c.cfg.MinSimilarity {
			out = append(out, neighbor{userID: other, similarity: sim})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].similarity != out[j].similarity {
			return out[i].similarity > out[j].similarity
		}
		return out[i].userID < out[j].userID
	})
	if len(out) > c.cfg.MaxNeighbors {
		out = out[:c.cfg.MaxNeighbors]
	}
	return out
}
