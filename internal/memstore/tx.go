package memstore

import (
	"fmt"
	"time"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/models"
)

// tx needs no row locks: the store mutex is held for its whole life.
type tx struct {
	st  *state
	now func() time.Time
}

func (t *tx) LockProduct(productID int64) (models.Product, error) {
	p, ok := t.st.products[productID]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: product %d", commerce.ErrNotFound, productID)
	}
	return p, nil
}

func (t *tx) SetProductQuantity(productID int64, quantity int) error {
	p, ok := t.st.products[productID]
	if !ok {
		return fmt.Errorf("%w: product %d", commerce.ErrNotFound, productID)
	}
	if quantity < 0 {
		return fmt.Errorf("product %d: quantity %d would be negative", productID, quantity)
	}
	p.Quantity = quantity
	t.st.products[productID] = p
	return nil
}

func (t *tx) CartLine(userID, productID int64) (models.CartLine, error) {
	for _, l := range t.st.cartLines {
		if l.UserID == userID && l.ProductID == productID {
			return l, nil
		}
	}
	return models.CartLine{}, fmt.Errorf("%w: product %d is not in the cart", commerce.ErrNotFound, productID)
}

func (t *tx) SaveCartLine(line models.CartLine) (models.CartLine, error) {
	if line.ID == 0 {
		if _, err := t.CartLine(line.UserID, line.ProductID); err == nil {
			return models.CartLine{}, fmt.Errorf("%w: cart line for product %d", commerce.ErrAlreadyExists, line.ProductID)
		}
		line.ID = t.st.id()
	} else if _, ok := t.st.cartLines[line.ID]; !ok {
		return models.CartLine{}, fmt.Errorf("%w: cart line %d", commerce.ErrNotFound, line.ID)
	}
	t.st.cartLines[line.ID] = line
	return line, nil
}

func (t *tx) DeleteCartLine(userID, productID int64) error {
	l, err := t.CartLine(userID, productID)
	if err != nil {
		return err
	}
	delete(t.st.cartLines, l.ID)
	return nil
}

func (t *tx) LockCart(userID int64) ([]models.CartLine, error) {
	return userLines(t.st, userID), nil
}

func (t *tx) ClearCart(userID int64) error {
	for id, l := range t.st.cartLines {
		if l.UserID == userID {
			delete(t.st.cartLines, id)
		}
	}
	return nil
}

func (t *tx) ShippingProfile(userID int64) (models.ShippingProfile, error) {
	p, ok := t.st.shipping[userID]
	if !ok {
		return models.ShippingProfile{}, fmt.Errorf("%w: shipping profile", commerce.ErrNotFound)
	}
	return p, nil
}

func (t *tx) CreateOrder(order models.Order, lines []models.OrderLine) error {
	if _, ok := t.st.sessions[order.PaymentSessionID]; ok {
		return fmt.Errorf("%w: session %s", commerce.ErrDuplicatePayment, order.PaymentSessionID)
	}
	if _, ok := t.st.orders[order.ID]; ok {
		return fmt.Errorf("%w: order %s", commerce.ErrAlreadyExists, order.ID)
	}
	t.st.orders[order.ID] = order
	t.st.orderLines[order.ID] = append([]models.OrderLine(nil), lines...)
	t.st.orderSeq = append(t.st.orderSeq, order.ID)
	t.st.sessions[order.PaymentSessionID] = order.ID
	return nil
}

func (t *tx) AppendOutbox(event commerce.OutboxEvent) error {
	t.st.outbox = append(t.st.outbox, models.OutboxMessage{
		ID:        t.st.id(),
		EventID:   event.EventID,
		Topic:     event.Topic,
		Key:       event.Key,
		Payload:   append([]byte(nil), event.Payload...),
		CreatedAt: t.now().UTC(),
	})
	return nil
}
