// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package recommend implements the hybrid product recommendation pipeline.
//
// # Architecture
//
// Seven independent scorers (package recommend/algorithms) each propose
// candidate products for a user:
//
//   - CONTENT_BASED: category preference match plus source, price and
//     popularity bonuses
//   - COLLABORATIVE: products engaged with by similar users
//   - MATRIX_FACTORIZATION: user row times item popularity on the
//     user-product interaction matrix
//   - CLUSTERING: popular products within the user's preference-count cluster
//   - TEMPORAL: products popular in the current day-part
//   - TREND_BASED: price-trending and growing-popularity products
//   - PERSONALIZED: per-product score from the personalization profile
//
// The engine runs the scorers concurrently, combines their candidates with
// fixed weights (a product proposed twice becomes HYBRID), falls back to
// global popularity when nothing is proposed, narrows the list to the
// user's dominant category and upserts the result.
//
// # Determinism
//
// Candidates are ordered by descending score with ties broken by ascending
// product ID. Category ties are broken lexicographically.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), db, logger)
//	if err != nil {
//	    return err
//	}
//	for _, s := range algorithms.All(cfg, db, trends, personal) {
//	    engine.RegisterScorer(s)
//	}
//	recs := engine.Generate(ctx, userID, 10)
//
// # Thread Safety
//
// Engine is safe for concurrent use. Generation for one user is serialized
// by a per-user mutex; different users run in parallel. Persistence relies
// on the store's atomic upsert so at most one row exists per
// (user, product).
package recommend
