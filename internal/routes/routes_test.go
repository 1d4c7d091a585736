package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/account"
	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/catalog"
	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/memstore"
	"github.com/01moynul/storefront-golang/internal/metrics"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/payment"
)

type testAPI struct {
	router *gin.Engine
	store  *memstore.Store
	tokens *auth.Tokens
	shoes  models.Category
	boots  models.Product
}

func newTestAPI(t *testing.T, gateway commerce.PaymentGateway) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	clothing := store.AddCategory("Clothing", nil)
	shoes := store.AddCategory("Shoes", &clothing.ID)
	boots := store.AddProduct(models.Product{CategoryID: shoes.ID, Title: "Boots", Quantity: 10, UnitPrice: 100})
	for i := 0; i < 4; i++ {
		store.AddProduct(models.Product{CategoryID: shoes.ID, Title: fmt.Sprintf("Sandal %d", i), Quantity: 1, UnitPrice: 50})
	}

	m := metrics.New()
	h := handlers.New(
		commerce.NewService(store, gateway, m),
		catalog.NewService(store, nil),
		account.NewService(store),
	)
	tokens := auth.NewTokens("test-secret", time.Hour)
	return &testAPI{
		router: SetupRouter(h, tokens, m, "http://localhost:3000"),
		store:  store,
		tokens: tokens,
		shoes:  shoes,
		boots:  boots,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		token, err := a.tokens.GenerateToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var shipping = map[string]string{
	"firstName": "Ada",
	"lastName":  "Lovelace",
	"email":     "ada@example.com",
	"phone":     "+44 20 0000",
	"address":   "12 Analytical St",
}

func TestPing(t *testing.T) {
	api := newTestAPI(t, payment.SandboxGateway{})
	w := api.do(t, http.MethodGet, "/ping", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t, payment.SandboxGateway{})
	for _, path := range []string{"/cart/", "/checkout/", "/my_orders/", "/my_favorite/"} {
		w := api.do(t, http.MethodGet, path, 0, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestCheckoutFlow(t *testing.T) {
	api := newTestAPI(t, payment.SandboxGateway{})
	const user = 7

	w := api.do(t, http.MethodPost, "/cart/add/", user, gin.H{"product_id": api.boots.ID, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, "/cart/add/", user, gin.H{"product_id": api.boots.ID, "quantity": 8})
	assert.Equal(t, http.StatusConflict, w.Code)

	cart := decode[commerce.Cart](t, api.do(t, http.MethodGet, "/cart/", user, nil))
	assert.Equal(t, int64(300), cart.TotalPrice)
	assert.Equal(t, 3, cart.TotalQuantity)

	view := decode[commerce.CheckoutView](t, api.do(t, http.MethodGet, "/checkout/", user, nil))
	assert.True(t, view.ShippingMissing)

	// Missing shipping answers 200 with an error and creates nothing.
	w = api.do(t, http.MethodPost, "/payment/", user, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shipping information is missing")

	w = api.do(t, http.MethodPut, "/shipping/", user, shipping)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, "/payment/", user, nil)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/my_orders/"), location)

	w = api.do(t, http.MethodGet, location, user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	order := decode[struct {
		models.Order
		Lines []models.OrderLine `json:"lines"`
	}](t, w)
	assert.Equal(t, int64(300), order.TotalPrice)
	assert.Equal(t, "Ada", order.Shipping.FirstName)
	require.Len(t, order.Lines, 1)

	// Another user cannot see it.
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, location, 8, nil).Code)

	// The cart is empty now.
	assert.Equal(t, http.StatusConflict, api.do(t, http.MethodPost, "/payment/", user, nil).Code)

	orders := decode[[]models.Order](t, api.do(t, http.MethodGet, "/my_orders/", user, nil))
	assert.Len(t, orders, 1)

	p, err := api.store.Product(t.Context(), api.boots.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Quantity)
}

func TestPaymentDeclined(t *testing.T) {
	api := newTestAPI(t, payment.SandboxGateway{DeclineOver: 150})
	const user = 7

	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/cart/add/", user, gin.H{"product_id": api.boots.ID, "quantity": 2}).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/shipping/", user, shipping).Code)

	w := api.do(t, http.MethodPost, "/payment/", user, nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	cart := decode[commerce.Cart](t, api.do(t, http.MethodGet, "/cart/", user, nil))
	assert.Equal(t, 2, cart.TotalQuantity)
}

func TestRepeatedDeclinesKeepPaymentOpenForOthers(t *testing.T) {
	api := newTestAPI(t, payment.NewBreaker(payment.SandboxGateway{DeclineOver: 150}, time.Second, time.Minute))
	const big, small = 7, 8

	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/cart/add/", big, gin.H{"product_id": api.boots.ID, "quantity": 2}).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/shipping/", big, shipping).Code)
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusPaymentRequired, api.do(t, http.MethodPost, "/payment/", big, nil).Code)
	}

	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/cart/add/", small, gin.H{"product_id": api.boots.ID, "quantity": 1}).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/shipping/", small, shipping).Code)
	w := api.do(t, http.MethodPost, "/payment/", small, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
}

// hangUpGateway charges through the sandbox and then cancels the request,
// like a client that disconnects while the provider answers.
type hangUpGateway struct {
	payment.SandboxGateway
	cancel context.CancelFunc
}

func (g *hangUpGateway) CreateSession(ctx context.Context, req commerce.PaymentRequest) (string, error) {
	id, err := g.SandboxGateway.CreateSession(ctx, req)
	g.cancel()
	return id, err
}

func TestPaymentCommitsAfterClientDisconnect(t *testing.T) {
	gw := &hangUpGateway{}
	api := newTestAPI(t, gw)
	const user = 7

	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/cart/add/", user, gin.H{"product_id": api.boots.ID, "quantity": 3}).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/shipping/", user, shipping).Code)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gw.cancel = cancel
	token, err := api.tokens.GenerateToken(user)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/payment/", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	orders := decode[[]models.Order](t, api.do(t, http.MethodGet, "/my_orders/", user, nil))
	require.Len(t, orders, 1)
	assert.Equal(t, "/my_orders/"+orders[0].ID, w.Header().Get("Location"))
	cart := decode[commerce.Cart](t, api.do(t, http.MethodGet, "/cart/", user, nil))
	assert.Zero(t, cart.TotalQuantity)
}

func TestCartUpdateAndDelete(t *testing.T) {
	api := newTestAPI(t, payment.SandboxGateway{})
	const user = 7
	base := fmt.Sprintf("/cart/%d/", api.boots.ID)

	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/cart/add/", user, gin.H{"product_id": api.boots.ID, "quantity": 2}).Code)

	w := api.do(t, http.MethodPut, base+"update/", user, gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 5, decode[models.CartLine](t, w).Quantity)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodPut, base+"update/", user, gin.H{"quantity": 0}).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, base+"delete/", user, nil).Code)

	p, err := api.store.Product(t.Context(), api.boots.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity)
}

func TestCategoryPagination(t *testing.T) {
	api := newTestAPI(t, payment.SandboxGateway{})

	w := api.do(t, http.MethodGet, "/category/shoes?page_size=2", 0, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[struct {
		Category models.Category       `json:"category"`
		Products handlers.PageResponse `json:"products"`
	}](t, w)
	assert.Equal(t, api.shoes.ID, body.Category.ID)
	assert.Equal(t, 5, body.Products.Count)
	assert.Len(t, body.Products.Results, 2)
	require.NotNil(t, body.Products.Next)
	assert.Contains(t, *body.Products.Next, "page=2")
	assert.Nil(t, body.Products.Previous)

	w = api.do(t, http.MethodGet, "/category/shoes?page_size=2&page=3", 0, nil)
	page3 := decode[struct {
		Products handlers.PageResponse `json:"products"`
	}](t, w)
	assert.Nil(t, page3.Products.Next)
	require.NotNil(t, page3.Products.Previous)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/category/shoes?page=9", 0, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/category/nothing-here", 0, nil).Code)

	tree := decode[[]models.CategoryNode](t, api.do(t, http.MethodGet, "/category/", 0, nil))
	require.Len(t, tree, 1)
	assert.Len(t, tree[0].Subcategories, 1)
}

func TestProductDetailViewerFlags(t *testing.T) {
	api := newTestAPI(t, payment.SandboxGateway{})
	const user = 7
	path := fmt.Sprintf("/products/%d", api.boots.ID)

	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/favorite/add/", user, gin.H{"productId": api.boots.ID}).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/rating/", user, gin.H{"productId": api.boots.ID, "star": 5}).Code)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/review/", user, gin.H{"productId": api.boots.ID, "text": "Warm"}).Code)

	anon := decode[catalog.ProductDetail](t, api.do(t, http.MethodGet, path, 0, nil))
	assert.Nil(t, anon.Viewer)
	assert.Len(t, anon.Reviews, 1)
	assert.Equal(t, 1, anon.Rating.Count)

	mine := decode[catalog.ProductDetail](t, api.do(t, http.MethodGet, path, user, nil))
	require.NotNil(t, mine.Viewer)
	assert.True(t, mine.Viewer.Favorite)
	assert.False(t, mine.Viewer.InCart)
	assert.Equal(t, 5, mine.Viewer.UserRating)

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, "/rating/", user, gin.H{"productId": api.boots.ID, "star": 9}).Code)
}

func TestCustomerProfile(t *testing.T) {
	api := newTestAPI(t, payment.SandboxGateway{})

	w := api.do(t, http.MethodPost, "/customer/", 7, gin.H{"firstName": "Ada", "lastName": "Lovelace", "phone": "1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, http.StatusConflict, api.do(t, http.MethodPost, "/customer/", 7, gin.H{"firstName": "Ada", "lastName": "Lovelace", "phone": "1"}).Code)

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/customer/7/", 8, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodPatch, "/customer/7/update/", 8, gin.H{"phone": "2"}).Code)

	w = api.do(t, http.MethodPatch, "/customer/7/update/", 7, gin.H{"phone": "2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", decode[models.Customer](t, w).Phone)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t, payment.SandboxGateway{})
	api.do(t, http.MethodGet, "/ping", 0, nil)

	w := api.do(t, http.MethodGet, "/metrics", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/ping")
}
