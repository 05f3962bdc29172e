// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/pricewatch/internal/models"
)

// Health reports database connectivity and event router state. The status is
// "degraded" when the database does not answer a ping; the endpoint itself
// always returns 200 so liveness probes do not restart a process waiting on
// its database.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil
	eventsRunning := h.events != nil && h.events.IsRunning()

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	respondSuccess(w, http.StatusOK, models.HealthStatus{
		Status:            status,
		Version:           h.version,
		DatabaseConnected: dbConnected,
		EventsRunning:     eventsRunning,
		Uptime:            time.Since(h.startTime).Seconds(),
	}, -1, start)
}
