package commerce

import (
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// Ledger owns Product.Quantity. Reserving and releasing are the two halves
// of one conserved transfer between stock and carts, so they only run on a
// transaction that also carries the matching cart line change.
type Ledger struct{}

// Reserve locks the product row and takes qty out of stock.
// It returns the product as it is after the reservation.
func (l Ledger) Reserve(tx Tx, productID int64, qty int) (models.Product, error) {
	p, err := tx.LockProduct(productID)
	if err != nil {
		return models.Product{}, err
	}
	return l.reserveLocked(tx, p, qty)
}

// reserveLocked expects p to have been read with LockProduct on tx.
func (Ledger) reserveLocked(tx Tx, p models.Product, qty int) (models.Product, error) {
	if qty <= 0 {
		return p, fmt.Errorf("%w: reserve quantity must be positive", ErrValidation)
	}
	if p.Quantity < qty {
		return p, fmt.Errorf("%w: product %d has %d, requested %d", ErrInsufficientStock, p.ID, p.Quantity, qty)
	}
	if err := tx.SetProductQuantity(p.ID, p.Quantity-qty); err != nil {
		return p, fmt.Errorf("reserve product %d: %w", p.ID, err)
	}
	p.Quantity -= qty
	return p, nil
}

// releaseLocked returns qty to stock. p must have been read with LockProduct
// on tx; the caller guarantees qty was reserved earlier, so there is no
// upper bound check.
func (Ledger) releaseLocked(tx Tx, p models.Product, qty int) (models.Product, error) {
	if qty <= 0 {
		return p, nil
	}
	if err := tx.SetProductQuantity(p.ID, p.Quantity+qty); err != nil {
		return p, fmt.Errorf("release product %d: %w", p.ID, err)
	}
	p.Quantity += qty
	return p, nil
}
