package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/account"
	"github.com/01moynul/storefront-golang/internal/middleware"
)

// --- Customer Profile ---

// CustomerInput holds the *input* for a new profile. The user id always
// comes from the token, never from the body.
type CustomerInput struct {
	FirstName string `json:"firstName" binding:"required,max=50"`
	LastName  string `json:"lastName" binding:"required,max=50"`
	Phone     string `json:"phone" binding:"required,max=30"`
}

// CreateCustomer is the handler for POST /customer/
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var input CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	customer, err := h.Accounts.Create(c.Request.Context(), middleware.UserID(c), input.FirstName, input.LastName, input.Phone)
	if err != nil {
		respondError(c, "create_customer", err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// CustomerPatchInput leaves absent fields untouched.
type CustomerPatchInput struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=50"`
	LastName  *string `json:"lastName" binding:"omitempty,max=50"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
}

// UpdateCustomer is the handler for PATCH /customer/:user/update/
func (h *Handlers) UpdateCustomer(c *gin.Context) {
	userID, ok := pathID(c, "user")
	if !ok {
		return
	}
	var input CustomerPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	customer, err := h.Accounts.Update(c.Request.Context(), middleware.UserID(c), userID, account.CustomerPatch{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})
	if err != nil {
		respondError(c, "update_customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GetCustomer is the handler for GET /customer/:user/
func (h *Handlers) GetCustomer(c *gin.Context) {
	userID, ok := pathID(c, "user")
	if !ok {
		return
	}
	customer, err := h.Accounts.Get(c.Request.Context(), middleware.UserID(c), userID)
	if err != nil {
		respondError(c, "get_customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}
