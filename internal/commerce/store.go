package commerce

import (
	"context"

	"github.com/01moynul/storefront-golang/internal/models"
)

// Store is the persisted state the engine works on.
// Implementations: database.Store (MySQL) and memstore.Store.
type Store interface {
	// InTx runs fn inside one transaction. The transaction is committed
	// when fn returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// CartLines returns the user's lines ordered by line id.
	CartLines(ctx context.Context, userID int64) ([]models.CartLine, error)
	// ShippingProfile returns ErrNotFound when the user has none.
	ShippingProfile(ctx context.Context, userID int64) (models.ShippingProfile, error)
	UpsertShippingProfile(ctx context.Context, p models.ShippingProfile) error

	Orders(ctx context.Context, userID int64) ([]models.Order, error)
	// Order is scoped to its owner: another user's order is ErrNotFound.
	Order(ctx context.Context, userID int64, orderID string) (models.Order, []models.OrderLine, error)
}

// Tx is the set of row operations available inside Store.InTx.
// Lock order is always product row first, then cart lines.
type Tx interface {
	// LockProduct reads the product row and holds its lock until the
	// transaction ends. Missing product is ErrNotFound.
	LockProduct(productID int64) (models.Product, error)
	SetProductQuantity(productID int64, quantity int) error

	// CartLine locks and returns the (user, product) line or ErrNotFound.
	CartLine(userID, productID int64) (models.CartLine, error)
	// SaveCartLine inserts the line when ID is zero and updates it
	// otherwise. The stored line is returned with its ID set.
	SaveCartLine(line models.CartLine) (models.CartLine, error)
	DeleteCartLine(userID, productID int64) error

	// LockCart locks and returns all lines of the user, ordered by id.
	LockCart(userID int64) ([]models.CartLine, error)
	ClearCart(userID int64) error

	ShippingProfile(userID int64) (models.ShippingProfile, error)

	// CreateOrder inserts the order and its lines. A reused payment
	// session id is ErrDuplicatePayment.
	CreateOrder(order models.Order, lines []models.OrderLine) error

	// AppendOutbox stores an event to be relayed after commit.
	AppendOutbox(event OutboxEvent) error
}

// OutboxEvent is a message recorded in the same transaction as the change
// it describes.
type OutboxEvent struct {
	EventID string
	Topic   string
	Key     string
	Payload []byte
}

// PaymentRequest is what the engine asks the payment gateway to charge.
type PaymentRequest struct {
	UserID         int64
	Amount         int64
	Quantity       int
	IdempotencyKey string
}

// PaymentGateway creates a payment session. An empty session id counts as
// a failure.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req PaymentRequest) (string, error)
}

// Recorder receives domain counters. metrics.ShopMetrics implements it.
type Recorder interface {
	StockRejected()
	PaymentFailed()
	OrderCreated(totalPrice int64)
}

type nopRecorder struct{}

func (nopRecorder) StockRejected()     {}
func (nopRecorder) PaymentFailed()     {}
func (nopRecorder) OrderCreated(int64) {}
