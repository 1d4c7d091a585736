package commerce

import (
	"context"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// Cart is a user's lines plus their totals.
type Cart struct {
	Lines []models.CartLine `json:"lines"`
	models.CartTotals
}

// CheckoutView is the read-only projection shown before payment and used
// as the payment amount.
type CheckoutView struct {
	Cart
	Shipping        *models.ShippingProfile `json:"shipping"`
	ShippingMissing bool                    `json:"shippingMissing"`
}

// summarize is the only place cart totals are computed.
func summarize(lines []models.CartLine) Cart {
	c := Cart{Lines: lines}
	if c.Lines == nil {
		c.Lines = []models.CartLine{}
	}
	for _, l := range c.Lines {
		c.TotalPrice += l.LineTotal
		c.TotalQuantity += l.Quantity
	}
	return c
}

// BuildCheckoutView reads the cart and the shipping profile. It never
// mutates anything.
func (s *Service) BuildCheckoutView(ctx context.Context, userID int64) (CheckoutView, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return CheckoutView{}, err
	}

	view := CheckoutView{Cart: cart}
	profile, err := s.store.ShippingProfile(ctx, userID)
	switch {
	case err == nil:
		view.Shipping = &profile
	case errors.Is(err, ErrNotFound):
		view.ShippingMissing = true
	default:
		return CheckoutView{}, fmt.Errorf("load shipping profile: %w", err)
	}
	return view, nil
}

// SaveShippingProfile creates or replaces the user's only shipping profile.
func (s *Service) SaveShippingProfile(ctx context.Context, p models.ShippingProfile) (models.ShippingProfile, error) {
	if p.UserID <= 0 {
		return models.ShippingProfile{}, ErrUnauthorized
	}
	if p.FirstName == "" || p.LastName == "" || p.Email == "" || p.Phone == "" || p.Address == "" {
		return models.ShippingProfile{}, fmt.Errorf("%w: all shipping fields are required", ErrValidation)
	}
	if err := s.store.UpsertShippingProfile(ctx, p); err != nil {
		return models.ShippingProfile{}, fmt.Errorf("save shipping profile: %w", err)
	}
	return p, nil
}

// GetShippingProfile returns ErrNotFound when the user has not set one.
func (s *Service) GetShippingProfile(ctx context.Context, userID int64) (models.ShippingProfile, error) {
	if userID <= 0 {
		return models.ShippingProfile{}, ErrUnauthorized
	}
	return s.store.ShippingProfile(ctx, userID)
}
