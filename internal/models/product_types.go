package models

import (
	"time"
)

// Product is the model for the 'products' table.
// Quantity is the available stock; it never goes below zero.
type Product struct {
	ID          int64  `json:"id" db:"id"`
	CategoryID  int64  `json:"categoryId" db:"category_id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`

	// --- Pricing & Stock ---
	Quantity  int   `json:"quantity" db:"quantity"`
	UnitPrice int64 `json:"price" db:"price"`

	// --- Attributes ---
	Size  string `json:"size" db:"size"`
	Color string `json:"color" db:"color"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ProductSummary is the short projection used in listings.
type ProductSummary struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"price"`
}

// ViewerFlags are the per-user markers shown on a product page.
type ViewerFlags struct {
	Favorite   bool `json:"favorite"`
	InCart     bool `json:"inCart"`
	UserRating int  `json:"userRating,omitempty"` // 0 means not rated
}

// RatingSummary aggregates all ratings of one product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
