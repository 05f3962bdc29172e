// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package services provides suture.Service wrappers for the HTTP server, the
// behavior event router and the scheduled preference refresh.
package services
