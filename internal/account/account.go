// Package account manages the customer profile attached to each user.
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/models"
)

// Store persists customer profiles. There is at most one per user.
type Store interface {
	// CreateCustomer returns commerce.ErrAlreadyExists for a second profile.
	CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error)
	Customer(ctx context.Context, userID int64) (models.Customer, error)
	UpdateCustomer(ctx context.Context, c models.Customer) error
}

// CustomerPatch carries the fields a PATCH may change. Nil leaves a field as is.
type CustomerPatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create stores the caller's profile.
func (s *Service) Create(ctx context.Context, userID int64, firstName, lastName, phone string) (models.Customer, error) {
	if userID <= 0 {
		return models.Customer{}, commerce.ErrUnauthorized
	}
	c := models.Customer{
		UserID:    userID,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Phone:     strings.TrimSpace(phone),
		UpdatedAt: s.now().UTC(),
	}
	if err := validate(c); err != nil {
		return models.Customer{}, err
	}
	return s.store.CreateCustomer(ctx, c)
}

// Get returns the profile of userID to any signed-in caller.
func (s *Service) Get(ctx context.Context, callerID, userID int64) (models.Customer, error) {
	if callerID <= 0 {
		return models.Customer{}, commerce.ErrUnauthorized
	}
	return s.store.Customer(ctx, userID)
}

// Update applies patch to userID's profile. Only the owner may do this.
func (s *Service) Update(ctx context.Context, callerID, userID int64, patch CustomerPatch) (models.Customer, error) {
	if callerID <= 0 {
		return models.Customer{}, commerce.ErrUnauthorized
	}
	if callerID != userID {
		return models.Customer{}, fmt.Errorf("%w: profile of user %d", commerce.ErrForbidden, userID)
	}
	c, err := s.store.Customer(ctx, userID)
	if err != nil {
		return models.Customer{}, err
	}
	if patch.FirstName != nil {
		c.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		c.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Phone != nil {
		c.Phone = strings.TrimSpace(*patch.Phone)
	}
	if err := validate(c); err != nil {
		return models.Customer{}, err
	}
	c.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		return models.Customer{}, err
	}
	return c, nil
}

func validate(c models.Customer) error {
	switch {
	case c.FirstName == "" || len(c.FirstName) > 50:
		return fmt.Errorf("%w: first name must be 1 to 50 characters", commerce.ErrValidation)
	case c.LastName == "" || len(c.LastName) > 50:
		return fmt.Errorf("%w: last name must be 1 to 50 characters", commerce.ErrValidation)
	case c.Phone == "" || len(c.Phone) > 30:
		return fmt.Errorf("%w: phone must be 1 to 30 characters", commerce.ErrValidation)
	}
	return nil
}
