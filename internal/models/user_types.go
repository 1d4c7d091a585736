package models

import "time"

// Customer is the model for the 'customers' table (one profile per user).
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Phone     string    `json:"phone" db:"phone"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ShippingProfile is the model for the 'shipping_profiles' table.
// user_id is unique: saving a profile always upserts.
type ShippingProfile struct {
	UserID    int64  `json:"-" db:"user_id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Email     string `json:"email" db:"email"`
	Phone     string `json:"phone" db:"phone"`
	Address   string `json:"address" db:"address"`
}

// Snapshot copies the profile into the immutable form stored on orders.
func (p ShippingProfile) Snapshot() ShippingSnapshot {
	return ShippingSnapshot{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
	}
}
