package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/middleware"
)

//
// --- Reviews, Ratings & Favorites ---
//

type CreateReviewInput struct {
	ProductID int64  `json:"productId" binding:"required"`
	ParentID  *int64 `json:"parentId"`
	Text      string `json:"text" binding:"required"`
}

// CreateReview is the handler for POST /review/
func (h *Handlers) CreateReview(c *gin.Context) {
	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	review, err := h.Catalog.CreateReview(c.Request.Context(), middleware.UserID(c), input.ProductID, input.ParentID, input.Text)
	if err != nil {
		respondError(c, "create_review", err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

type UpdateReviewInput struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handlers) UpdateReview(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UpdateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	review, err := h.Catalog.UpdateReview(c.Request.Context(), middleware.UserID(c), reviewID, input.Text)
	if err != nil {
		respondError(c, "update_review", err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *Handlers) DeleteReview(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteReview(c.Request.Context(), middleware.UserID(c), reviewID); err != nil {
		respondError(c, "delete_review", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type RatingInput struct {
	ProductID int64 `json:"productId" binding:"required"`
	Star      int   `json:"star" binding:"required,min=1,max=5"`
}

// RateProduct is the handler for POST /rating/
func (h *Handlers) RateProduct(c *gin.Context) {
	var input RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	rating, err := h.Catalog.RateProduct(c.Request.Context(), middleware.UserID(c), input.ProductID, input.Star)
	if err != nil {
		respondError(c, "rate_product", err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

type FavoriteInput struct {
	ProductID int64 `json:"productId" binding:"required"`
}

// AddFavorite is the handler for POST /favorite/add/
func (h *Handlers) AddFavorite(c *gin.Context) {
	var input FavoriteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	fav, err := h.Catalog.AddFavorite(c.Request.Context(), middleware.UserID(c), input.ProductID)
	if err != nil {
		respondError(c, "add_favorite", err)
		return
	}
	c.JSON(http.StatusCreated, fav)
}

func (h *Handlers) RemoveFavorite(c *gin.Context) {
	favoriteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.RemoveFavorite(c.Request.Context(), middleware.UserID(c), favoriteID); err != nil {
		respondError(c, "remove_favorite", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MyFavorites is the handler for GET /my_favorite/
func (h *Handlers) MyFavorites(c *gin.Context) {
	favs, err := h.Catalog.Favorites(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, "my_favorites", err)
		return
	}
	c.JSON(http.StatusOK, favs)
}
