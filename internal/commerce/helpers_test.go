package commerce_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/memstore"
	"github.com/01moynul/storefront-golang/internal/models"
)

type fakeGateway struct {
	mu      sync.Mutex
	calls   []commerce.PaymentRequest
	session string
	err     error
	before  func()
}

func (g *fakeGateway) CreateSession(_ context.Context, req commerce.PaymentRequest) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	before, session, err := g.before, g.session, g.err
	g.mu.Unlock()

	if before != nil {
		before()
	}
	return session, err
}

func (g *fakeGateway) Calls() []commerce.PaymentRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]commerce.PaymentRequest(nil), g.calls...)
}

type fakeRecorder struct {
	mu            sync.Mutex
	stockRejected int
	paymentFailed int
	ordersTotal   int64
}

func (r *fakeRecorder) StockRejected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stockRejected++
}

func (r *fakeRecorder) PaymentFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paymentFailed++
}

func (r *fakeRecorder) OrderCreated(total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ordersTotal += total
}

type fixture struct {
	store    *memstore.Store
	gateway  *fakeGateway
	recorder *fakeRecorder
	svc      *commerce.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memstore.New(),
		gateway:  &fakeGateway{session: "cs_test_1"},
		recorder: &fakeRecorder{},
	}
	f.svc = commerce.NewService(f.store, f.gateway, f.recorder)
	return f
}

func (f *fixture) product(t *testing.T, stock int, price int64) models.Product {
	t.Helper()
	return f.store.AddProduct(models.Product{Title: "Product", Quantity: stock, UnitPrice: price})
}

func (f *fixture) stock(t *testing.T, productID int64) int {
	t.Helper()
	p, err := f.store.Product(context.Background(), productID)
	require.NoError(t, err)
	return p.Quantity
}

func (f *fixture) shipping(t *testing.T, userID int64) {
	t.Helper()
	_, err := f.svc.SaveShippingProfile(context.Background(), models.ShippingProfile{
		UserID:    userID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+4400000000",
		Address:   "12 St James's Square",
	})
	require.NoError(t, err)
}
