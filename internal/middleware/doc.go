// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package middleware provides HTTP middleware for the PriceWatch API.
//
// All middleware has the chi signature func(http.Handler) http.Handler:
//
//   - RequestID: X-Request-ID propagation plus request and correlation IDs
//     in the logging context
//   - PrometheusMetrics: pricewatch_api_* series keyed by route pattern
//   - RequestLogger: structured zerolog access log with slow-request warnings
//
// CORS, rate limiting, compression and panic recovery come from go-chi/cors,
// go-chi/httprate and chi's own middleware package and are wired in
// internal/api.
package middleware
