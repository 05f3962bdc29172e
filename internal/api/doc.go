// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package api exposes PriceWatch over HTTP using the chi router.
//
// # Routes
//
// All JSON routes live under /api/v1:
//
//	GET  /health
//	GET  /trending
//	POST /recommendations/{id}/view
//	POST /users/{userID}/recommendations/generate?limit=
//	GET  /users/{userID}/recommendations?limit=&algorithm=&categories=&unviewed=
//	GET  /users/{userID}/recommendations/stats
//	GET  /users/{userID}/preferences
//	POST /users/{userID}/preferences/refresh
//	GET  /users/{userID}/profile
//	POST /users/{userID}/behaviors
//	GET  /users/{userID}/behaviors/counts
//
// Prometheus metrics are served at /metrics.
//
// # Responses
//
// Every response uses the models.APIResponse envelope. Errors carry one of
// VALIDATION_ERROR (400), NOT_FOUND (404), DATABASE_ERROR (500) or
// INTERNAL_ERROR. Validation failures list offending fields in
// error.details.
//
// # Middleware
//
// Request ID, real IP, request logging, panic recovery, Prometheus metrics
// and CORS apply to every route. Rate limiting (go-chi/httprate) and gzip
// compression apply to everything except health and metrics.
package api
