package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/models"
)

// tx is commerce.Tx on a *sql.Tx. ctx is the one InTx was called with.
type tx struct {
	ctx context.Context
	tx  *sql.Tx
}

const productColumns = `id, category_id, title, slug, description, quantity, price, size, color, created_at`

const lockProduct = `SELECT ` + productColumns + ` FROM products WHERE id = ? FOR UPDATE`

func (t *tx) LockProduct(productID int64) (models.Product, error) {
	p, err := scanProduct(t.tx.QueryRowContext(t.ctx, lockProduct, productID))
	if err != nil {
		return models.Product{}, notFound(err, fmt.Sprintf("product %d", productID))
	}
	return p, nil
}

func scanProduct(row scanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.CategoryID, &p.Title, &p.Slug, &p.Description, &p.Quantity, &p.UnitPrice, &p.Size, &p.Color, &p.CreatedAt)
	return p, err
}

const setProductQuantity = `UPDATE products SET quantity = ? WHERE id = ?`

func (t *tx) SetProductQuantity(productID int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("product %d: quantity %d would be negative", productID, quantity)
	}
	if _, err := t.tx.ExecContext(t.ctx, setProductQuantity, quantity, productID); err != nil {
		return fmt.Errorf("update product %d quantity: %w", productID, err)
	}
	return nil
}

const lockCartLine = `SELECT id, user_id, product_id, quantity, line_total, created_at, updated_at
	FROM cart_lines WHERE user_id = ? AND product_id = ? FOR UPDATE`

func (t *tx) CartLine(userID, productID int64) (models.CartLine, error) {
	var l models.CartLine
	err := t.tx.QueryRowContext(t.ctx, lockCartLine, userID, productID).
		Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.LineTotal, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return models.CartLine{}, notFound(err, fmt.Sprintf("product %d is not in the cart", productID))
	}
	return l, nil
}

const (
	insertCartLine = `INSERT INTO cart_lines (user_id, product_id, quantity, line_total, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`
	updateCartLine = `UPDATE cart_lines SET quantity = ?, line_total = ?, updated_at = ? WHERE id = ? AND user_id = ?`
)

func (t *tx) SaveCartLine(line models.CartLine) (models.CartLine, error) {
	if line.ID == 0 {
		res, err := t.tx.ExecContext(t.ctx, insertCartLine,
			line.UserID, line.ProductID, line.Quantity, line.LineTotal, line.CreatedAt, line.UpdatedAt)
		if err != nil {
			return models.CartLine{}, duplicate(err, "cart line")
		}
		if line.ID, err = res.LastInsertId(); err != nil {
			return models.CartLine{}, fmt.Errorf("cart line id: %w", err)
		}
		return line, nil
	}

	if _, err := t.tx.ExecContext(t.ctx, updateCartLine, line.Quantity, line.LineTotal, line.UpdatedAt, line.ID, line.UserID); err != nil {
		return models.CartLine{}, fmt.Errorf("update cart line %d: %w", line.ID, err)
	}
	return line, nil
}

const deleteCartLine = `DELETE FROM cart_lines WHERE user_id = ? AND product_id = ?`

func (t *tx) DeleteCartLine(userID, productID int64) error {
	if _, err := t.tx.ExecContext(t.ctx, deleteCartLine, userID, productID); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

const lockCart = queryCartLines + ` FOR UPDATE`

func (t *tx) LockCart(userID int64) ([]models.CartLine, error) {
	rows, err := t.tx.QueryContext(t.ctx, lockCart, userID)
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	return scanCartLines(rows)
}

const clearCart = `DELETE FROM cart_lines WHERE user_id = ?`

func (t *tx) ClearCart(userID int64) error {
	if _, err := t.tx.ExecContext(t.ctx, clearCart, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (t *tx) ShippingProfile(userID int64) (models.ShippingProfile, error) {
	return scanShipping(t.tx.QueryRowContext(t.ctx, queryShippingProfile+` FOR UPDATE`, userID))
}

const (
	insertOrder     = `INSERT INTO orders (` + orderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insertOrderLine = `INSERT INTO order_lines (order_id, product_id, quantity, line_total) VALUES (?, ?, ?, ?)`
)

func (t *tx) CreateOrder(o models.Order, lines []models.OrderLine) error {
	_, err := t.tx.ExecContext(t.ctx, insertOrder, o.ID, o.UserID,
		o.Shipping.FirstName, o.Shipping.LastName, o.Shipping.Email, o.Shipping.Phone, o.Shipping.Address,
		o.TotalPrice, o.TotalQuantity, o.PaymentSessionID, o.CreatedAt)
	if err != nil {
		return duplicate(err, "order "+o.ID)
	}

	stmt, err := t.tx.PrepareContext(t.ctx, insertOrderLine)
	if err != nil {
		return fmt.Errorf("prepare order lines: %w", err)
	}
	defer stmt.Close()
	for _, l := range lines {
		if _, err := stmt.ExecContext(t.ctx, o.ID, l.ProductID, l.Quantity, l.LineTotal); err != nil {
			return duplicate(err, "order line")
		}
	}
	return nil
}

const insertOutbox = `INSERT INTO outbox (event_id, topic, message_key, payload, created_at) VALUES (?, ?, ?, ?, UTC_TIMESTAMP(6))`

func (t *tx) AppendOutbox(e commerce.OutboxEvent) error {
	if _, err := t.tx.ExecContext(t.ctx, insertOutbox, e.EventID, e.Topic, e.Key, e.Payload); err != nil {
		return duplicate(err, "outbox event "+e.EventID)
	}
	return nil
}
