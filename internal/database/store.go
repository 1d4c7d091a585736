package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/models"
)

// Store implements every persistence interface on one *sql.DB.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// InTx runs fn in a READ COMMITTED transaction. Row locks taken with
// SELECT ... FOR UPDATE inside fn are held until commit or rollback.
func (s *Store) InTx(ctx context.Context, fn func(tx commerce.Tx) error) error {
	sqlTx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback is a no-op after a successful commit.
	defer sqlTx.Rollback()

	if err := fn(&tx{ctx: ctx, tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const queryCartLines = `SELECT id, user_id, product_id, quantity, line_total, created_at, updated_at
	FROM cart_lines WHERE user_id = ? ORDER BY id`

func (s *Store) CartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	rows, err := s.DB.QueryContext(ctx, queryCartLines, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	return scanCartLines(rows)
}

func scanCartLines(rows *sql.Rows) ([]models.CartLine, error) {
	defer rows.Close()
	var lines []models.CartLine
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.LineTotal, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

const queryShippingProfile = `SELECT user_id, first_name, last_name, email, phone, address
	FROM shipping_profiles WHERE user_id = ?`

func (s *Store) ShippingProfile(ctx context.Context, userID int64) (models.ShippingProfile, error) {
	return scanShipping(s.DB.QueryRowContext(ctx, queryShippingProfile, userID))
}

func scanShipping(row scanner) (models.ShippingProfile, error) {
	var p models.ShippingProfile
	if err := row.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Address); err != nil {
		return models.ShippingProfile{}, notFound(err, "shipping profile")
	}
	return p, nil
}

const upsertShippingProfile = `INSERT INTO shipping_profiles (user_id, first_name, last_name, email, phone, address)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE first_name = VALUES(first_name), last_name = VALUES(last_name),
		email = VALUES(email), phone = VALUES(phone), address = VALUES(address)`

func (s *Store) UpsertShippingProfile(ctx context.Context, p models.ShippingProfile) error {
	_, err := s.DB.ExecContext(ctx, upsertShippingProfile, p.UserID, p.FirstName, p.LastName, p.Email, p.Phone, p.Address)
	if err != nil {
		return fmt.Errorf("upsert shipping profile: %w", err)
	}
	return nil
}

const orderColumns = `id, user_id, ship_first_name, ship_last_name, ship_email, ship_phone, ship_address,
	total_price, total_quantity, payment_session_id, created_at`

const queryOrders = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`

func (s *Store) Orders(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, queryOrders, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const (
	queryOrder      = `SELECT ` + orderColumns + ` FROM orders WHERE id = ? AND user_id = ?`
	queryOrderLines = `SELECT order_id, product_id, quantity, line_total FROM order_lines WHERE order_id = ? ORDER BY product_id`
)

func (s *Store) Order(ctx context.Context, userID int64, orderID string) (models.Order, []models.OrderLine, error) {
	o, err := scanOrder(s.DB.QueryRowContext(ctx, queryOrder, orderID, userID))
	if err != nil {
		return models.Order{}, nil, notFound(err, "order "+orderID)
	}

	rows, err := s.DB.QueryContext(ctx, queryOrderLines, orderID)
	if err != nil {
		return models.Order{}, nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()
	var lines []models.OrderLine
	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.Quantity, &l.LineTotal); err != nil {
			return models.Order{}, nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	return o, lines, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID,
		&o.Shipping.FirstName, &o.Shipping.LastName, &o.Shipping.Email, &o.Shipping.Phone, &o.Shipping.Address,
		&o.TotalPrice, &o.TotalQuantity, &o.PaymentSessionID, &o.CreatedAt)
	return o, err
}
