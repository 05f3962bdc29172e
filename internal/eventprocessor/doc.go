// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package eventprocessor carries behavior events between the tracker and the
// components that derive state from them, using Watermill.
//
// # Flow
//
//	tracking.Service / recommend.Engine.MarkViewed
//	        │ PublishBehavior
//	        ▼
//	   Publisher ──(circuit breaker)──► behavior.<type>
//	                                         │
//	                                         ▼
//	   Router (Recoverer, Retry, Throttle, Deduplicator)
//	        │
//	        ▼
//	   Consumer ──► trend cache invalidation
//	            ──► profile cache invalidation
//	            ──► preference refresh (WATCH_ADD, NOTIFICATION_CLICK)
//
// # Backends
//
//   - memory: gochannel pub/sub, in process, no persistence (default)
//   - nats: NATS JetStream via watermill-nats; requires the nats build tag
//
// Messages carry the event ID both as Watermill UUID and as metadata; the
// Deduplicator keys on it so broker redeliveries are processed once within
// the configured TTL.
package eventprocessor
