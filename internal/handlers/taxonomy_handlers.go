package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCategoryTree is the handler for GET /category/
func (h *Handlers) GetCategoryTree(c *gin.Context) {
	tree, err := h.Catalog.CategoryTree(c.Request.Context())
	if err != nil {
		respondError(c, "category_tree", err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetCategoryProducts is the handler for GET /category/:id
// :id may be the numeric id or the slug.
func (h *Handlers) GetCategoryProducts(c *gin.Context) {
	page, size, ok := pageParams(c)
	if !ok {
		return
	}
	cat, p, err := h.Catalog.CategoryProducts(c.Request.Context(), c.Param("id"), page, size)
	if err != nil {
		respondError(c, "category_products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": cat,
		"products": pageResponse(c, p),
	})
}
