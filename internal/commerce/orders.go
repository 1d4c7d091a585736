package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/models"
)

// Stage is where a checkout attempt currently is.
type Stage string

const (
	StageCart           Stage = "CART"
	StagePaymentPending Stage = "PAYMENT_PENDING"
	StageOrderCreated   Stage = "ORDER_CREATED"
)

// commitTimeout bounds the order transaction that follows a successful charge.
const commitTimeout = 10 * time.Second

// EventOrderCreated is the outbox event type written with every new order.
const EventOrderCreated = "order.created"

// OrderCreatedEvent is the outbox payload for EventOrderCreated.
type OrderCreatedEvent struct {
	OrderID          string             `json:"orderId"`
	UserID           int64              `json:"userId"`
	TotalPrice       int64              `json:"totalPrice"`
	TotalQuantity    int                `json:"totalQuantity"`
	PaymentSessionID string             `json:"paymentSessionId"`
	Lines            []models.OrderLine `json:"lines"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// FinalizeOrder charges the checkout total and turns the cart into an
// order. The gateway is called with no transaction open; the order, its
// lines, the outbox event and the cart deletion then commit together.
// On any failure the cart and stock are left exactly as they were.
func (s *Service) FinalizeOrder(ctx context.Context, userID int64, idempotencyKey string) (models.Order, []models.OrderLine, error) {
	view, err := s.BuildCheckoutView(ctx, userID)
	if err != nil {
		return models.Order{}, nil, err
	}
	if view.TotalQuantity == 0 {
		return models.Order{}, nil, ErrEmptyCart
	}
	if view.ShippingMissing {
		return models.Order{}, nil, ErrMissingShippingInfo
	}

	s.logStage(ctx, userID, "", StagePaymentPending, nil)
	started := s.now()
	sessionID, err := s.gateway.CreateSession(ctx, PaymentRequest{
		UserID:         userID,
		Amount:         view.TotalPrice,
		Quantity:       view.TotalQuantity,
		IdempotencyKey: idempotencyKey,
	})
	if err == nil && sessionID == "" {
		err = errors.New("gateway returned no session id")
	}
	if err != nil {
		s.recorder.PaymentFailed()
		err = fmt.Errorf("%w: %w", ErrPaymentFailed, err)
		s.logStage(ctx, userID, "", StageCart, err)
		return models.Order{}, nil, err
	}
	logging.Log(logging.Fields{
		RequestID:  logging.RequestID(ctx),
		UserID:     userID,
		Step:       "payment",
		Status:     "session_created",
		DurationMS: s.now().Sub(started).Milliseconds(),
	})

	order := models.Order{
		ID:               s.newID(),
		UserID:           userID,
		TotalPrice:       view.TotalPrice,
		TotalQuantity:    view.TotalQuantity,
		PaymentSessionID: sessionID,
		CreatedAt:        s.now(),
	}
	lines := make([]models.OrderLine, 0, len(view.Lines))
	for _, l := range view.Lines {
		lines = append(lines, models.OrderLine{
			OrderID:   order.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal,
		})
	}

	// The provider has accepted the charge, so the order must commit even if
	// the caller has gone away.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()
	err = s.store.InTx(commitCtx, func(tx Tx) error {
		current, err := tx.LockCart(userID)
		if err != nil {
			return err
		}
		if !sameLines(current, view.Lines) {
			return ErrCartChanged
		}
		profile, err := tx.ShippingProfile(userID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMissingShippingInfo, err)
		}
		order.Shipping = profile.Snapshot()

		if err := tx.CreateOrder(order, lines); err != nil {
			return err
		}
		event, err := orderCreatedEvent(order, lines)
		if err != nil {
			return err
		}
		if err := tx.AppendOutbox(event); err != nil {
			return err
		}
		// Stock stays consumed: the reservation made at add time becomes final.
		return tx.ClearCart(userID)
	})
	if err != nil {
		s.logStage(ctx, userID, order.ID, StageCart, err)
		return models.Order{}, nil, err
	}

	s.recorder.OrderCreated(order.TotalPrice)
	s.logStage(ctx, userID, order.ID, StageOrderCreated, nil)
	return order, lines, nil
}

// ListOrders returns the user's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}
	orders, err := s.store.Orders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// GetOrder returns one of the user's orders with its lines. Orders of
// other users and malformed ids are ErrNotFound.
func (s *Service) GetOrder(ctx context.Context, userID int64, orderID string) (models.Order, []models.OrderLine, error) {
	if userID <= 0 {
		return models.Order{}, nil, ErrUnauthorized
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return models.Order{}, nil, fmt.Errorf("%w: order %q", ErrNotFound, orderID)
	}
	return s.store.Order(ctx, userID, orderID)
}

func sameLines(a, b []models.CartLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProductID != b[i].ProductID ||
			a[i].Quantity != b[i].Quantity ||
			a[i].LineTotal != b[i].LineTotal {
			return false
		}
	}
	return true
}

func orderCreatedEvent(order models.Order, lines []models.OrderLine) (OutboxEvent, error) {
	payload, err := json.Marshal(OrderCreatedEvent{
		OrderID:          order.ID,
		UserID:           order.UserID,
		TotalPrice:       order.TotalPrice,
		TotalQuantity:    order.TotalQuantity,
		PaymentSessionID: order.PaymentSessionID,
		Lines:            lines,
		CreatedAt:        order.CreatedAt,
	})
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("encode %s event: %w", EventOrderCreated, err)
	}
	return OutboxEvent{
		EventID: uuid.New().String(),
		Topic:   EventOrderCreated,
		Key:     order.ID,
		Payload: payload,
	}, nil
}

func (s *Service) logStage(ctx context.Context, userID int64, orderID string, stage Stage, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	logging.Log(logging.Fields{
		RequestID: logging.RequestID(ctx),
		UserID:    userID,
		OrderID:   orderID,
		Step:      "checkout",
		Status:    status,
		Message:   string(stage),
		Err:       err,
	})
}
