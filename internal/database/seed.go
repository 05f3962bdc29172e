// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tomtom215/pricewatch/internal/logging"
	"github.com/tomtom215/pricewatch/internal/models"
)

// SeedDemoData populates an empty catalog with demo users, products, price
// history, watch lists and behaviors. It is a no-op when products exist.
func (db *DB) SeedDemoData(ctx context.Context) error {
	var existing int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&existing); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if existing > 0 {
		logging.Info().Int64("products", existing).Msg("Catalog not empty, skipping demo seed")
		return nil
	}

	logging.Info().Msg("Seeding database with demo data...")

	const (
		numUsers      = 6
		daysOfHistory = 30
		eventsPerUser = 40
	)

	// Fixed seed so demo recommendations are reproducible
	rng := rand.New(rand.NewSource(42)) //nolint:gosec // demo data only

	catalog := []struct {
		name     string
		category string
		source   string
		price    float64
	}{
		{"Noise Cancelling Headphones", "electronics", "amazon", 249.99},
		{"4K Monitor 27in", "electronics", "bestbuy", 399.00},
		{"Mechanical Keyboard", "electronics", "amazon", 129.50},
		{"USB-C Dock", "electronics", "newegg", 89.99},
		{"Rain Jacket", "clothing", "rei", 149.00},
		{"Running Shoes", "clothing", "amazon", 119.95},
		{"Wool Sweater", "clothing", "uniqlo", 59.90},
		{"Distributed Systems Book", "books", "amazon", 54.00},
		{"Cookbook", "books", "bookshop", 32.50},
		{"Cast Iron Skillet", "home", "target", 39.99},
		{"Robot Vacuum", "home", "amazon", 279.00},
		{"Desk Lamp", "home", "ikea", 24.99},
		{"Board Game", "", "", 44.00},
	}

	now := db.now()
	start := now.AddDate(0, 0, -daysOfHistory)

	products := make([]models.Product, 0, len(catalog))
	for _, c := range catalog {
		p := models.Product{
			Name:     c.name,
			URL:      fmt.Sprintf("https://shop.example/%d", len(products)+1),
			Category: c.category,
			Source:   c.source,
		}
		if err := db.CreateProduct(ctx, &p); err != nil {
			return err
		}
		products = append(products, p)

		// One observation every three days with a random walk of up to +/-5%
		price := c.price
		for day := 0; day <= daysOfHistory; day += 3 {
			price = roundCents(price * (1 + (rng.Float64()-0.5)*0.1))
			if err := db.AddPriceHistory(ctx, &models.PriceHistory{
				ProductID: p.ID,
				Price:     price,
				CheckedAt: start.AddDate(0, 0, day),
			}); err != nil {
				return err
			}
		}
	}

	types := []models.BehaviorType{
		models.BehaviorView, models.BehaviorView, models.BehaviorView,
		models.BehaviorWatchAdd, models.BehaviorNotificationClick, models.BehaviorWatchRemove,
	}

	for i := 0; i < numUsers; i++ {
		u := models.User{Email: fmt.Sprintf("demo%d@pricewatch.example", i+1), CreatedAt: start}
		if err := db.CreateUser(ctx, &u); err != nil {
			return err
		}

		for j := 0; j < eventsPerUser; j++ {
			p := products[rng.Intn(len(products))]
			t := types[rng.Intn(len(types))]
			at := start.Add(time.Duration(rng.Int63n(int64(daysOfHistory * 24 * time.Hour))))

			if err := db.AddBehavior(ctx, &models.UserBehavior{
				UserID:       u.ID,
				ProductID:    p.ID,
				BehaviorType: t,
				CreatedAt:    at,
			}); err != nil {
				return err
			}

			switch t {
			case models.BehaviorWatchAdd:
				if err := db.AddToWatchlist(ctx, u.ID, p.ID, at); err != nil {
					return err
				}
			case models.BehaviorWatchRemove:
				if err := db.RemoveFromWatchlist(ctx, u.ID, p.ID); err != nil {
					return err
				}
			}
		}
	}

	logging.Info().
		Int("users", numUsers).
		Int("products", len(products)).
		Msg("Demo data seeded")
	return nil
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
