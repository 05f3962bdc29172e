// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator caches struct metadata, reports fields by
// their json or query tag, and registers two domain validators:
//
//   - behavior_type: VIEW, WATCH_ADD, WATCH_REMOVE or NOTIFICATION_CLICK
//   - algorithm: any recommendation algorithm name (CONTENT_BASED, HYBRID, ...)
//
// Failures convert to the API's VALIDATION_ERROR envelope:
//
//	req := validation.TrackBehaviorRequest{...}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
package validation
