// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package models

import "time"

// User is an account that tracks products and receives recommendations.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a catalog item.
type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`

	// Category is empty when the product has no category.
	Category string `json:"category,omitempty"`

	// Source is the shop the product is tracked on; empty when unknown.
	Source string `json:"source,omitempty"`

	// CurrentPrice is the price of the most recent observation, attached at
	// read time. Nil when the product has no price history.
	CurrentPrice *float64 `json:"current_price,omitempty"`
}

// HasCategory reports whether the product is categorized.
func (p *Product) HasCategory() bool {
	return p.Category != ""
}

// PriceHistory is one append-only price observation.
type PriceHistory struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Price     float64   `json:"price"`
	CheckedAt time.Time `json:"checked_at"`
}

// WatchItem is a product on a user's watch list.
type WatchItem struct {
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}
