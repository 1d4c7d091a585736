package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/models"
)

// IdempotencyHeader is forwarded to the payment gateway.
const IdempotencyHeader = "Idempotency-Key"

// GetCheckout is the handler for GET /checkout/
func (h *Handlers) GetCheckout(c *gin.Context) {
	view, err := h.Commerce.BuildCheckoutView(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, "checkout", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type ShippingInput struct {
	FirstName string `json:"firstName" binding:"required,max=50"`
	LastName  string `json:"lastName" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,max=30"`
	Address   string `json:"address" binding:"required,max=500"`
}

// PutShipping is the handler for PUT /shipping/
func (h *Handlers) PutShipping(c *gin.Context) {
	var input ShippingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.Commerce.SaveShippingProfile(c.Request.Context(), models.ShippingProfile{
		UserID:    middleware.UserID(c),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
	})
	if err != nil {
		respondError(c, "save_shipping", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handlers) GetShipping(c *gin.Context) {
	profile, err := h.Commerce.GetShippingProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, "get_shipping", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Payment is the handler for POST /payment/
// On success it redirects to the new order.
func (h *Handlers) Payment(c *gin.Context) {
	order, _, err := h.Commerce.FinalizeOrder(c.Request.Context(), middleware.UserID(c), c.GetHeader(IdempotencyHeader))
	if err != nil {
		// Missing shipping is reported on the checkout page, not as a failure.
		if errors.Is(err, commerce.ErrMissingShippingInfo) {
			c.JSON(http.StatusOK, gin.H{"error": err.Error()})
			return
		}
		respondError(c, "payment", err)
		return
	}
	c.Header("Location", "/my_orders/"+order.ID)
	c.JSON(http.StatusSeeOther, gin.H{"message": "Order created", "orderId": order.ID})
}

// ListOrders is the handler for GET /my_orders/
func (h *Handlers) ListOrders(c *gin.Context) {
	orders, err := h.Commerce.ListOrders(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, "list_orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type orderResponse struct {
	models.Order
	Lines []models.OrderLine `json:"lines"`
}

func (h *Handlers) GetOrder(c *gin.Context) {
	order, lines, err := h.Commerce.GetOrder(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, "get_order", err)
		return
	}
	if lines == nil {
		lines = []models.OrderLine{}
	}
	c.JSON(http.StatusOK, orderResponse{Order: order, Lines: lines})
}
