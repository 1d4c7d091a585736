package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/account"
	"github.com/01moynul/storefront-golang/internal/catalog"
	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/middleware"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Commerce *commerce.Service
	Catalog  *catalog.Service
	Accounts *account.Service
}

func New(commerceSvc *commerce.Service, catalogSvc *catalog.Service, accounts *account.Service) *Handlers {
	return &Handlers{Commerce: commerceSvc, Catalog: catalogSvc, Accounts: accounts}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, commerce.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, commerce.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, commerce.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, commerce.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, commerce.ErrOutOfStock), errors.Is(err, commerce.ErrEmptyCart), commerce.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, commerce.ErrPaymentFailed):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": msg}. Unknown errors are logged and
// hidden behind a generic message.
func respondError(c *gin.Context, step string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Log(logging.Fields{
			RequestID: logging.RequestID(c.Request.Context()),
			UserID:    middleware.UserID(c),
			Step:      step,
			Status:    "error",
			Err:       err,
		})
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
