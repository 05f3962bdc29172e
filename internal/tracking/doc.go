// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package tracking records user behaviors on catalog products.
//
// Every tracked event is appended to the behavior log, mirrored into the
// watch list for WATCH_ADD and WATCH_REMOVE, counted in
// pricewatch_behavior_events_total and, when a Publisher is set, forwarded
// to the event bus so preference and cache consumers can react.
package tracking
