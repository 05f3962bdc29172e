// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/pricewatch/internal/models"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid recommend config")

// weightSumTolerance is how far the combination weights may drift from 1.0.
const weightSumTolerance = 0.01

// Config is the immutable configuration of the recommendation engine.
// It is validated once by NewEngine and never mutated afterwards.
type Config struct {
	// Weights are the fixed combination weights of the seven strategies.
	Weights AlgorithmWeights `json:"weights" koanf:"weights"`

	Content       ContentConfig       `json:"content" koanf:"content"`
	Collaborative CollaborativeConfig `json:"collaborative" koanf:"collaborative"`
	Factorization FactorizationConfig `json:"factorization" koanf:"factorization"`
	Cluster       ClusterConfig       `json:"cluster" koanf:"cluster"`
	Temporal      TemporalConfig      `json:"temporal" koanf:"temporal"`
	Personalized  PersonalizedConfig  `json:"personalized" koanf:"personalized"`
	Focus         FocusConfig         `json:"focus" koanf:"focus"`
	Limits        LimitsConfig        `json:"limits" koanf:"limits"`

	// DefaultCategories seed a user with no stored preferences.
	// Default: electronics, clothing, books, home.
	DefaultCategories []string `json:"default_categories" koanf:"default_categories"`

	// DefaultPreferenceWeight is the weight given to each default category.
	// Default: 0.5.
	DefaultPreferenceWeight float64 `json:"default_preference_weight" koanf:"default_preference_weight"`
}

// AlgorithmWeights holds the per-strategy combination weights.
type AlgorithmWeights struct {
	Content       float64 `json:"content" koanf:"content"`
	Collaborative float64 `json:"collaborative" koanf:"collaborative"`
	Factorization float64 `json:"factorization" koanf:"factorization"`
	Clustering    float64 `json:"clustering" koanf:"clustering"`
	Temporal      float64 `json:"temporal" koanf:"temporal"`
	Trend         float64 `json:"trend" koanf:"trend"`
	Personalized  float64 `json:"personalized" koanf:"personalized"`
}

// Sum returns the total of all weights.
//
//nolint:gocritic // value receiver keeps weights immutable
func (w AlgorithmWeights) Sum() float64 {
	return w.Content + w.Collaborative + w.Factorization + w.Clustering +
		w.Temporal + w.Trend + w.Personalized
}

// For returns the weight applied to candidates tagged with a.
// HYBRID is never a scorer tag and therefore has no weight.
//
//nolint:gocritic // value receiver keeps weights immutable
func (w AlgorithmWeights) For(a models.Algorithm) float64 {
	switch a {
	case models.AlgorithmContentBased:
		return w.Content
	case models.AlgorithmCollaborative:
		return w.Collaborative
	case models.AlgorithmMatrixFactorization:
		return w.Factorization
	case models.AlgorithmClustering:
		return w.Clustering
	case models.AlgorithmTemporal:
		return w.Temporal
	case models.AlgorithmTrendBased:
		return w.Trend
	case models.AlgorithmPersonalized:
		return w.Personalized
	case models.AlgorithmHybrid:
		return 0
	default:
		return 0
	}
}

// ContentConfig tunes the content scorer.
type ContentConfig struct {
	// MinScore drops candidates scoring below it.
	// Default: 0.5.
	MinScore float64 `json:"min_score" koanf:"min_score"`

	// NoMatchScore is the base score when no preference matches the category.
	// Default: 0.3.
	NoMatchScore float64 `json:"no_match_score" koanf:"no_match_score"`
}

// CollaborativeConfig tunes the collaborative scorer.
type CollaborativeConfig struct {
	// MinSimilarity is the lowest similarity for a neighbour to count.
	// Default: 0.3.
	MinSimilarity float64 `json:"min_similarity" koanf:"min_similarity"`

	// MaxNeighbors caps the number of similar users consulted.
	// Default: 10.
	MaxNeighbors int `json:"max_neighbors" koanf:"max_neighbors"`
}

// FactorizationConfig tunes the factorization scorer.
type FactorizationConfig struct {
	// Scale divides user factor times item factor.
	// Default: 100.
	Scale float64 `json:"scale" koanf:"scale"`

	// MinScore drops candidates scoring below it.
	// Default: 0.4.
	MinScore float64 `json:"min_score" koanf:"min_score"`
}

// ClusterConfig tunes the cluster scorer.
type ClusterConfig struct {
	// Clusters is the number of preference-count clusters.
	// Default: 5.
	Clusters int `json:"clusters" koanf:"clusters"`

	// Score is the flat score given to cluster-popular products.
	// Default: 0.6.
	Score float64 `json:"score" koanf:"score"`
}

// TemporalConfig tunes the temporal scorer.
type TemporalConfig struct {
	// Score is the flat score given to day-part products.
	// Default: 0.5.
	Score float64 `json:"score" koanf:"score"`
}

// PersonalizedConfig tunes the personalization scorer.
type PersonalizedConfig struct {
	// MinScore drops candidates scoring below it.
	// Default: 0.4.
	MinScore float64 `json:"min_score" koanf:"min_score"`
}

// FocusConfig tunes the dominant-category pass.
type FocusConfig struct {
	// Boost multiplies surviving scores.
	// Default: 1.5.
	Boost float64 `json:"boost" koanf:"boost"`
}

// LimitsConfig holds operational limits.
type LimitsConfig struct {
	// DefaultLimit is used when a caller passes limit <= 0.
	// Default: 10.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit caps caller-supplied limits.
	// Default: 100.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`

	// ScorerTimeout bounds each scorer run.
	// Default: 10s.
	ScorerTimeout time.Duration `json:"scorer_timeout" koanf:"scorer_timeout"`
}

// DefaultWeights returns the standard combination weights.
func DefaultWeights() AlgorithmWeights {
	return AlgorithmWeights{
		Content:       0.25,
		Collaborative: 0.20,
		Factorization: 0.15,
		Clustering:    0.10,
		Temporal:      0.10,
		Trend:         0.10,
		Personalized:  0.10,
	}
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights:       DefaultWeights(),
		Content:       ContentConfig{MinScore: 0.5, NoMatchScore: 0.3},
		Collaborative: CollaborativeConfig{MinSimilarity: 0.3, MaxNeighbors: 10},
		Factorization: FactorizationConfig{Scale: 100, MinScore: 0.4},
		Cluster:       ClusterConfig{Clusters: 5, Score: 0.6},
		Temporal:      TemporalConfig{Score: 0.5},
		Personalized:  PersonalizedConfig{MinScore: 0.4},
		Focus:         FocusConfig{Boost: 1.5},
		Limits: LimitsConfig{
			DefaultLimit:  10,
			MaxLimit:      100,
			ScorerTimeout: 10 * time.Second,
		},
		DefaultCategories:       []string{"electronics", "clothing", "books", "home"},
		DefaultPreferenceWeight: 0.5,
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	for _, a := range models.AllAlgorithms {
		if w := c.Weights.For(a); w < 0 {
			return fmt.Errorf("%w: weights.%s must be non-negative, got %f", ErrInvalidConfig, a, w)
		}
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0, got %.4f", ErrInvalidConfig, sum)
	}

	unit := map[string]float64{
		"content.min_score":            c.Content.MinScore,
		"content.no_match_score":       c.Content.NoMatchScore,
		"collaborative.min_similarity": c.Collaborative.MinSimilarity,
		"factorization.min_score":      c.Factorization.MinScore,
		"cluster.score":                c.Cluster.Score,
		"temporal.score":               c.Temporal.Score,
		"personalized.min_score":       c.Personalized.MinScore,
		"default_preference_weight":    c.DefaultPreferenceWeight,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %f", ErrInvalidConfig, name, v)
		}
	}

	if c.Collaborative.MaxNeighbors < 1 {
		return fmt.Errorf("%w: collaborative.max_neighbors must be positive, got %d", ErrInvalidConfig, c.Collaborative.MaxNeighbors)
	}
	if c.Factorization.Scale <= 0 {
		return fmt.Errorf("%w: factorization.scale must be positive, got %f", ErrInvalidConfig, c.Factorization.Scale)
	}
	if c.Cluster.Clusters < 1 {
		return fmt.Errorf("%w: cluster.clusters must be positive, got %d", ErrInvalidConfig, c.Cluster.Clusters)
	}
	if c.Focus.Boost <= 0 {
		return fmt.Errorf("%w: focus.boost must be positive, got %f", ErrInvalidConfig, c.Focus.Boost)
	}
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("%w: limits.default_limit must be positive, got %d", ErrInvalidConfig, c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("%w: limits.max_limit must be >= limits.default_limit, got %d < %d",
			ErrInvalidConfig, c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.ScorerTimeout <= 0 {
		return fmt.Errorf("%w: limits.scorer_timeout must be positive, got %v", ErrInvalidConfig, c.Limits.ScorerTimeout)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.DefaultCategories = append([]string(nil), c.DefaultCategories...)
	return &out
}

// ResolveLimit maps a caller-supplied limit onto [1, MaxLimit].
func (c *Config) ResolveLimit(limit int) int {
	if limit <= 0 {
		return c.Limits.DefaultLimit
	}
	if limit > c.Limits.MaxLimit {
		return c.Limits.MaxLimit
	}
	return limit
}
