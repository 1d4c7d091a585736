package commerce

import (
	"context"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// AddToCart reserves qty units of the product and merges them into the
// user's line for it, creating the line on first add.
func (s *Service) AddToCart(ctx context.Context, userID, productID int64, qty int) (models.CartLine, error) {
	if userID <= 0 {
		return models.CartLine{}, ErrUnauthorized
	}
	if productID <= 0 {
		return models.CartLine{}, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if qty < 1 {
		return models.CartLine{}, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	var saved models.CartLine
	err := s.store.InTx(ctx, func(tx Tx) error {
		p, err := s.ledger.Reserve(tx, productID, qty)
		if err != nil {
			return outOfStock(err)
		}

		now := s.now()
		line, err := tx.CartLine(userID, productID)
		switch {
		case err == nil:
			line.Quantity += qty
			line.LineTotal += int64(qty) * p.UnitPrice
		case errors.Is(err, ErrNotFound):
			line = models.CartLine{
				UserID:    userID,
				ProductID: productID,
				Quantity:  qty,
				LineTotal: int64(qty) * p.UnitPrice,
				CreatedAt: now,
			}
		default:
			return err
		}
		line.UpdatedAt = now

		saved, err = tx.SaveCartLine(line)
		return err
	})
	if err != nil {
		s.observeCartError(err)
		return models.CartLine{}, err
	}
	return saved, nil
}

// SetCartLineQuantity moves the line to newQty, reserving or releasing the
// difference. Zero deletes the line; the returned line then has Quantity 0.
func (s *Service) SetCartLineQuantity(ctx context.Context, userID, productID int64, newQty int) (models.CartLine, error) {
	if userID <= 0 {
		return models.CartLine{}, ErrUnauthorized
	}
	if newQty < 0 {
		return models.CartLine{}, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	var result models.CartLine
	err := s.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.LockProduct(productID)
		if err != nil {
			return err
		}
		line, err := tx.CartLine(userID, productID)
		if err != nil {
			return err
		}

		delta := newQty - line.Quantity
		switch {
		case delta > 0:
			if p, err = s.ledger.reserveLocked(tx, p, delta); err != nil {
				return outOfStock(err)
			}
		case delta < 0:
			if p, err = s.ledger.releaseLocked(tx, p, -delta); err != nil {
				return err
			}
		}

		if newQty == 0 {
			result = line
			result.Quantity, result.LineTotal = 0, 0
			return tx.DeleteCartLine(userID, productID)
		}

		line.Quantity = newQty
		line.LineTotal = int64(newQty) * p.UnitPrice
		line.UpdatedAt = s.now()
		result, err = tx.SaveCartLine(line)
		return err
	})
	if err != nil {
		s.observeCartError(err)
		return models.CartLine{}, err
	}
	return result, nil
}

// RemoveFromCart releases the whole line back to stock and deletes it.
// A missing line is ErrNotFound and changes nothing.
func (s *Service) RemoveFromCart(ctx context.Context, userID, productID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	return s.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.LockProduct(productID)
		if err != nil {
			return err
		}
		line, err := tx.CartLine(userID, productID)
		if err != nil {
			return err
		}
		if _, err := s.ledger.releaseLocked(tx, p, line.Quantity); err != nil {
			return err
		}
		return tx.DeleteCartLine(userID, productID)
	})
}

// GetCart returns the user's lines in insertion order with their totals.
func (s *Service) GetCart(ctx context.Context, userID int64) (Cart, error) {
	if userID <= 0 {
		return Cart{}, ErrUnauthorized
	}
	lines, err := s.store.CartLines(ctx, userID)
	if err != nil {
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}
	return summarize(lines), nil
}

func outOfStock(err error) error {
	if errors.Is(err, ErrInsufficientStock) {
		return fmt.Errorf("%w: %w", ErrOutOfStock, err)
	}
	return err
}

func (s *Service) observeCartError(err error) {
	if errors.Is(err, ErrOutOfStock) {
		s.recorder.StockRejected()
	}
}
