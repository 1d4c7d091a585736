package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/metrics"
	"github.com/01moynul/storefront-golang/internal/middleware"
)

// SetupRouter wires every route. m may be nil, which disables /metrics.
func SetupRouter(h *handlers.Handlers, tokens middleware.TokenValidator, m *metrics.ShopMetrics, corsOrigin string) *gin.Engine {
	router := gin.Default()

	// --- APPLY THE CORS GUARD ---
	// CORS goes first so preflights stop before anything else runs;
	// RequestID follows so every later handler can log the id.
	router.Use(middleware.CORS(corsOrigin), middleware.RequestID())
	if m != nil {
		router.Use(m.Middleware())
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// --- Ping Route (Public) ---
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong!"})
	})

	// --- Catalog (Public, viewer flags when signed in) ---
	public := router.Group("/")
	public.Use(middleware.OptionalAuth(tokens))
	{
		public.GET("/category/", h.GetCategoryTree)
		public.GET("/category/:id", h.GetCategoryProducts)
		public.GET("/products/", h.ListProducts)
		public.GET("/products/:id", h.GetProduct)
	}

	// --- Protected Routes (Login Required) ---
	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware(tokens))
	{
		auth.POST("/review/", h.CreateReview)
		auth.PATCH("/review/:id", h.UpdateReview)
		auth.DELETE("/review/:id", h.DeleteReview)
		auth.POST("/rating/", h.RateProduct)

		auth.POST("/favorite/add/", h.AddFavorite)
		auth.DELETE("/favorite/delete/:id", h.RemoveFavorite)
		auth.GET("/my_favorite/", h.MyFavorites)

		// Cart
		auth.POST("/cart/add/", h.AddToCart)
		auth.PUT("/cart/:product/update/", h.UpdateCartLine)
		auth.DELETE("/cart/:product/delete/", h.RemoveFromCart)
		auth.GET("/cart/", h.GetCart)

		// Checkout & Orders
		auth.GET("/checkout/", h.GetCheckout)
		auth.PUT("/shipping/", h.PutShipping)
		auth.GET("/shipping/", h.GetShipping)
		auth.POST("/payment/", h.Payment)
		auth.GET("/my_orders/", h.ListOrders)
		auth.GET("/my_orders/:id", h.GetOrder)

		// Customer profile
		auth.POST("/customer/", h.CreateCustomer)
		auth.PATCH("/customer/:user/update/", h.UpdateCustomer)
		auth.GET("/customer/:user/", h.GetCustomer)
	}

	return router
}
