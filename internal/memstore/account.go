package memstore

import (
	"context"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/models"
)

func (s *Store) CreateCustomer(_ context.Context, c models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.customers[c.UserID]; ok {
		return models.Customer{}, fmt.Errorf("%w: customer profile for user %d", commerce.ErrAlreadyExists, c.UserID)
	}
	c.ID = s.st.id()
	s.st.customers[c.UserID] = c
	return c, nil
}

func (s *Store) Customer(_ context.Context, userID int64) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.customers[userID]
	if !ok {
		return models.Customer{}, fmt.Errorf("%w: customer profile for user %d", commerce.ErrNotFound, userID)
	}
	return c, nil
}

func (s *Store) UpdateCustomer(_ context.Context, c models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.customers[c.UserID]; !ok {
		return fmt.Errorf("%w: customer profile for user %d", commerce.ErrNotFound, c.UserID)
	}
	s.st.customers[c.UserID] = c
	return nil
}
