// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/pricewatch/internal/logging"
	"github.com/tomtom215/pricewatch/internal/metrics"
	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/validation"
)

// preferenceRefresh is the payload of a manual preference refresh.
type preferenceRefresh struct {
	Preferences []models.UserPreference `json:"preferences"`
	Profile     *models.UserProfile     `json:"profile"`
}

// userParams validates the {userID} segment, writing the error response
// itself. ok is false when the request has been answered.
func userParams(w http.ResponseWriter, r *http.Request) (userID int64, ok bool) {
	p := validation.UserPathParams{UserID: pathInt64(r, "userID")}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return 0, false
	}
	return p.UserID, true
}

// GetPreferences lists the stored category preferences of a user.
//
// GET /api/v1/users/{userID}/preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userParams(w, r)
	if !ok {
		return
	}

	prefs, err := h.store.GetUserPreferences(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to load preferences")
		return
	}
	respondSuccess(w, http.StatusOK, prefs, len(prefs), start)
}

// RefreshPreferences recomputes category preferences from the behavior log
// and persists a new profile snapshot.
//
// POST /api/v1/users/{userID}/preferences/refresh
func (h *Handler) RefreshPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userParams(w, r)
	if !ok {
		return
	}

	prefs, err := h.engine.UpdateUserPreferences(r.Context(), userID)
	metrics.RecordPreferenceRefresh("api", err)
	if err != nil {
		respondServiceError(w, err, "Failed to refresh preferences")
		return
	}

	profile, err := h.profiles.UpdateUserProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to refresh profile")
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("user_id", userID).
		Int("categories", len(prefs)).
		Msg("Preferences refreshed")

	respondSuccess(w, http.StatusOK, preferenceRefresh{Preferences: prefs, Profile: profile}, len(prefs), start)
}

// GetProfile returns the live personalization profile of a user.
//
// GET /api/v1/users/{userID}/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userParams(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Profile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to build profile")
		return
	}
	respondSuccess(w, http.StatusOK, profile, -1, start)
}

// TrackBehavior records one behavior event for a user.
//
// POST /api/v1/users/{userID}/behaviors
//
//	{"product_id": 12, "type": "WATCH_ADD"}
func (h *Handler) TrackBehavior(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userParams(w, r)
	if !ok {
		return
	}

	var req validation.TrackBehaviorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	t, err := models.ParseBehaviorType(req.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	b, err := h.tracker.Track(r.Context(), userID, req.ProductID, t)
	if err != nil {
		respondServiceError(w, err, "Failed to track behavior")
		return
	}
	respondSuccess(w, http.StatusCreated, b, -1, start)
}

// GetBehaviorCounts returns the number of recorded behaviors per type.
//
// GET /api/v1/users/{userID}/behaviors/counts
func (h *Handler) GetBehaviorCounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userParams(w, r)
	if !ok {
		return
	}

	counts, err := h.tracker.Counts(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to count behaviors")
		return
	}
	respondSuccess(w, http.StatusOK, counts, -1, start)
}
