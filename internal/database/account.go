package database

import (
	"context"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

func (s *Store) CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO customers (user_id, first_name, last_name, phone, updated_at) VALUES (?, ?, ?, ?, ?)",
		c.UserID, c.FirstName, c.LastName, c.Phone, c.UpdatedAt)
	if err != nil {
		return models.Customer{}, duplicate(err, fmt.Sprintf("customer profile for user %d", c.UserID))
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return models.Customer{}, fmt.Errorf("customer id: %w", err)
	}
	return c, nil
}

func (s *Store) Customer(ctx context.Context, userID int64) (models.Customer, error) {
	var c models.Customer
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, user_id, first_name, last_name, phone, updated_at FROM customers WHERE user_id = ?", userID).
		Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Phone, &c.UpdatedAt)
	if err != nil {
		return models.Customer{}, notFound(err, fmt.Sprintf("customer profile for user %d", userID))
	}
	return c, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c models.Customer) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE customers SET first_name = ?, last_name = ?, phone = ?, updated_at = ? WHERE user_id = ?",
		c.FirstName, c.LastName, c.Phone, c.UpdatedAt, c.UserID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}
