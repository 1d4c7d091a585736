// Package commerce is the cart-to-order transaction engine: the inventory
// ledger, the per-user cart, the checkout aggregate and the order finalizer.
package commerce

import (
	"time"

	"github.com/google/uuid"
)

// Service exposes every cart, checkout and order operation.
// It holds no mutable state of its own; the Store is the only shared resource.
type Service struct {
	store    Store
	gateway  PaymentGateway
	ledger   Ledger
	recorder Recorder

	now   func() time.Time
	newID func() string
}

// NewService wires the engine. recorder may be nil.
func NewService(store Store, gateway PaymentGateway, recorder Recorder) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		store:    store,
		gateway:  gateway,
		recorder: recorder,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}
