// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package models defines the data types shared by the storage, recommendation,
// tracking and HTTP layers.
//
// Catalog types (User, Product, PriceHistory, WatchItem) mirror the DuckDB
// tables. Product.CurrentPrice is never stored on the product row; readers
// attach it from the latest price_history entry.
//
// BehaviorType and Algorithm are closed enumerations. Both marshal to their
// upper-case names in JSON and in the database.
package models
