// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package models

import (
	"fmt"
	"time"
)

// Algorithm identifies the strategy that produced a recommendation.
type Algorithm int

const (
	AlgorithmContentBased Algorithm = iota + 1
	AlgorithmCollaborative
	AlgorithmMatrixFactorization
	AlgorithmClustering
	AlgorithmTemporal
	AlgorithmTrendBased
	AlgorithmPersonalized
	// AlgorithmHybrid marks a score merged from more than one strategy.
	AlgorithmHybrid
)

// AllAlgorithms lists every algorithm in declaration order.
var AllAlgorithms = []Algorithm{
	AlgorithmContentBased,
	AlgorithmCollaborative,
	AlgorithmMatrixFactorization,
	AlgorithmClustering,
	AlgorithmTemporal,
	AlgorithmTrendBased,
	AlgorithmPersonalized,
	AlgorithmHybrid,
}

// String returns the canonical upper-case name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmContentBased:
		return "CONTENT_BASED"
	case AlgorithmCollaborative:
		return "COLLABORATIVE"
	case AlgorithmMatrixFactorization:
		return "MATRIX_FACTORIZATION"
	case AlgorithmClustering:
		return "CLUSTERING"
	case AlgorithmTemporal:
		return "TEMPORAL"
	case AlgorithmTrendBased:
		return "TREND_BASED"
	case AlgorithmPersonalized:
		return "PERSONALIZED"
	case AlgorithmHybrid:
		return "HYBRID"
	default:
		return "UNKNOWN"
	}
}

// ParseAlgorithm converts a canonical name back to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range AllAlgorithms {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown algorithm %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(b []byte) error {
	parsed, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Recommendation is a persisted (user, product) recommendation.
// At most one row exists per (UserID, ProductID).
type Recommendation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Score     float64   `json:"score"`
	Algorithm Algorithm `json:"algorithm"`
	Viewed    bool      `json:"viewed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecommendationDTO is a recommendation joined with its product for display.
type RecommendationDTO struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product_id"`
	ProductName     string    `json:"product_name"`
	ProductURL      string    `json:"product_url"`
	ProductCategory string    `json:"product_category,omitempty"`
	ProductSource   string    `json:"product_source,omitempty"`
	CurrentPrice    *float64  `json:"current_price,omitempty"`
	Score           float64   `json:"score"`
	Algorithm       Algorithm `json:"algorithm"`
	IsViewed        bool      `json:"is_viewed"`
}

// NewRecommendationDTO joins rec with p.
func NewRecommendationDTO(rec *Recommendation, p *Product) RecommendationDTO {
	dto := RecommendationDTO{
		ID:        rec.ID,
		ProductID: rec.ProductID,
		Score:     rec.Score,
		Algorithm: rec.Algorithm,
		IsViewed:  rec.Viewed,
	}
	if p != nil {
		dto.ProductName = p.Name
		dto.ProductURL = p.URL
		dto.ProductCategory = p.Category
		dto.ProductSource = p.Source
		dto.CurrentPrice = p.CurrentPrice
	}
	return dto
}

// RecommendationStats summarizes a user's stored recommendations.
type RecommendationStats struct {
	UnviewedCount int64               `json:"unviewed_count"`
	Recent        []RecommendationDTO `json:"recent"`
}
