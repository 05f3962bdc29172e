// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package algorithms

import "github.com/tomtom215/pricewatch/internal/recommend"

// All returns the seven scorers configured from cfg, in combination order.
func All(cfg *recommend.Config, data DataProvider, trends TrendSource, personal PersonalizationSource) []recommend.Scorer {
	return []recommend.Scorer{
		NewContent(cfg.Content, data),
		NewCollaborative(cfg.Collaborative, data),
		NewFactorization(cfg.Factorization, data),
		NewCluster(cfg.Cluster, data),
		NewTemporal(cfg.Temporal, data),
		NewTrend(data, trends),
		NewPersonalized(cfg.Personalized, data, personal),
	}
}
