package models

import "time"

// ShippingSnapshot is the copy of the ShippingProfile stored on an order.
// It never changes, even when the live profile is edited later.
type ShippingSnapshot struct {
	FirstName string `json:"firstName" db:"ship_first_name"`
	LastName  string `json:"lastName" db:"ship_last_name"`
	Email     string `json:"email" db:"ship_email"`
	Phone     string `json:"phone" db:"ship_phone"`
	Address   string `json:"address" db:"ship_address"`
}

// Order is the model for the 'orders' table. Rows are insert-only.
type Order struct {
	ID               string           `json:"id" db:"id"` // UUIDv4
	UserID           int64            `json:"userId" db:"user_id"`
	Shipping         ShippingSnapshot `json:"shipping"`
	TotalPrice       int64            `json:"totalPrice" db:"total_price"`
	TotalQuantity    int              `json:"totalQuantity" db:"total_quantity"`
	PaymentSessionID string           `json:"paymentSessionId" db:"payment_session_id"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
}

// OrderLine is the model for the 'order_lines' table.
type OrderLine struct {
	OrderID   string `json:"orderId" db:"order_id"`
	ProductID int64  `json:"productId" db:"product_id"`
	Quantity  int    `json:"quantity" db:"quantity"`
	LineTotal int64  `json:"lineTotal" db:"line_total"` // Snapshot of the cart line total
}

// OutboxMessage is a row of the 'outbox' table waiting to be relayed.
type OutboxMessage struct {
	ID        int64     `db:"id"`
	EventID   string    `db:"event_id"`
	Topic     string    `db:"topic"`
	Key       string    `db:"message_key"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}
