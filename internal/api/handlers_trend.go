// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package api

import (
	"net/http"
	"time"
)

// GetTrending returns products whose price is rising, whose popularity is
// growing, and whose demand is seasonal.
//
// GET /api/v1/trending
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	trending, err := h.trends.Trending(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to compute trending products")
		return
	}
	respondSuccess(w, http.StatusOK, trending, -1, start)
}
