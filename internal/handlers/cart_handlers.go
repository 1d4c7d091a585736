package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/middleware"
)

//
// --- Cart Handlers ---
//

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /cart/add/
// It reserves stock and merges the quantity into the user's line.
func (h *Handlers) AddToCart(c *gin.Context) {
	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	line, err := h.Commerce.AddToCart(c.Request.Context(), middleware.UserID(c), input.ProductID, input.Quantity)
	if err != nil {
		respondError(c, "add_to_cart", err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

// UpdateCartInput is the body of PUT /cart/:product/update/.
// Zero is allowed and removes the line.
type UpdateCartInput struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

func (h *Handlers) UpdateCartLine(c *gin.Context) {
	productID, ok := pathID(c, "product")
	if !ok {
		return
	}
	var input UpdateCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	line, err := h.Commerce.SetCartLineQuantity(c.Request.Context(), middleware.UserID(c), productID, *input.Quantity)
	if err != nil {
		respondError(c, "update_cart_line", err)
		return
	}
	if line.Quantity == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *Handlers) RemoveFromCart(c *gin.Context) {
	productID, ok := pathID(c, "product")
	if !ok {
		return
	}
	if err := h.Commerce.RemoveFromCart(c.Request.Context(), middleware.UserID(c), productID); err != nil {
		respondError(c, "remove_from_cart", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCart is the handler for GET /cart/
func (h *Handlers) GetCart(c *gin.Context) {
	cart, err := h.Commerce.GetCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, "get_cart", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
