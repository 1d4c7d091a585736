package models

import "time"

// CartLine defines the struct for the 'cart_lines' table.
// There is exactly one row per (user_id, product_id).
type CartLine struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"-" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	LineTotal int64     `json:"lineTotal" db:"line_total"` // Quantity * unit price at the time of add
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartTotals is the aggregate shown with every cart and checkout view.
type CartTotals struct {
	TotalPrice    int64 `json:"totalPrice"`
	TotalQuantity int   `json:"totalQuantity"`
}
