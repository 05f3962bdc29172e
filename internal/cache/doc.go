// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package cache provides the in-memory caches used by the analysis services
// and the event consumer.
//
// # Cache
//
// Cache is a generic TTL map. Each instance is named; hits and misses are
// exported as pricewatch_cache_hits_total and pricewatch_cache_misses_total
// labelled with that name. Expired entries are dropped lazily on Get and in
// bulk by a background sweep that stops on Close.
//
//	profiles := cache.New[int64, *models.UserProfile]("profiles", 10*time.Minute)
//	defer profiles.Close()
//	if p, ok := profiles.Get(userID); ok {
//	    return p, nil
//	}
//
// # LRUCache
//
// LRUCache is a bounded, TTL-aware set of string keys used to drop
// redelivered event messages (IsDuplicate).
//
// # Thread Safety
//
// All types are safe for concurrent use.
package cache
