// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/pricewatch/internal/logging"
	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/validation"
)

// GenerateRecommendations runs the hybrid engine for a user and returns the
// persisted results. Generation never fails; an empty list means there was
// nothing to recommend.
//
// POST /api/v1/users/{userID}/recommendations/generate?limit=
func (h *Handler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := validation.GenerateRequest{
		UserID: pathInt64(r, "userID"),
		Limit:  getIntParam(r, "limit", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	recs := h.engine.Generate(r.Context(), req.UserID, req.Limit)

	logging.Ctx(r.Context()).Info().
		Int64("user_id", req.UserID).
		Int("count", len(recs)).
		Msg("Recommendations generated")

	respondSuccess(w, http.StatusOK, recs, len(recs), start)
}

// GetRecommendations lists stored recommendations. The algorithm, categories
// and unviewed filters are exclusive and checked in that order; without a
// filter the top limit by score are returned.
//
// GET /api/v1/users/{userID}/recommendations?limit=&algorithm=&categories=&unviewed=
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := validation.RecommendationsQuery{
		UserID:     pathInt64(r, "userID"),
		Limit:      getIntParam(r, "limit", 0),
		Algorithm:  r.URL.Query().Get("algorithm"),
		Categories: parseCommaSeparated(r.URL.Query().Get("categories")),
		Unviewed:   getBoolParam(r, "unviewed"),
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	var (
		recs []models.RecommendationDTO
		err  error
	)
	switch {
	case q.Algorithm != "":
		// The validator has already accepted the name.
		alg, _ := models.ParseAlgorithm(q.Algorithm) //nolint:errcheck // validated above
		recs, err = h.engine.GetRecommendationsByAlgorithm(r.Context(), q.UserID, alg)
	case len(q.Categories) > 0:
		recs, err = h.engine.GetRecommendationsByCategories(r.Context(), q.UserID, q.Categories)
	case q.Unviewed:
		recs, err = h.engine.GetUnviewedRecommendations(r.Context(), q.UserID)
	default:
		recs, err = h.engine.GetUserRecommendations(r.Context(), q.UserID, q.Limit)
	}
	if err != nil {
		respondServiceError(w, err, "Failed to load recommendations")
		return
	}

	respondSuccess(w, http.StatusOK, recs, len(recs), start)
}

// GetRecommendationStats returns the unviewed count and the top stored
// recommendations.
//
// GET /api/v1/users/{userID}/recommendations/stats
func (h *Handler) GetRecommendationStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p := validation.UserPathParams{UserID: pathInt64(r, "userID")}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	stats, err := h.engine.Stats(r.Context(), p.UserID)
	if err != nil {
		respondServiceError(w, err, "Failed to load recommendation stats")
		return
	}

	respondSuccess(w, http.StatusOK, stats, -1, start)
}

// MarkRecommendationViewed flags a recommendation as viewed and records the
// matching VIEW behavior.
//
// POST /api/v1/recommendations/{id}/view
func (h *Handler) MarkRecommendationViewed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p := validation.RecommendationIDParams{ID: pathInt64(r, "id")}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	rec, err := h.engine.MarkViewed(r.Context(), p.ID)
	if err != nil {
		respondServiceError(w, err, "Failed to mark recommendation viewed")
		return
	}

	respondSuccess(w, http.StatusOK, rec, -1, start)
}
