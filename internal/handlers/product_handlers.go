package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/catalog"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/models"
)

// PageResponse is the paginated listing shape: count, next, previous, results.
type PageResponse struct {
	Count    int                     `json:"count"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
	Results  []models.ProductSummary `json:"results"`
}

// pageParams reads ?page= and ?page_size=. Anything unparsable is an invalid page.
func pageParams(c *gin.Context) (int, int, bool) {
	page, size := 1, 0
	var err error
	if v := c.Query("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid page."})
			return 0, 0, false
		}
	}
	if v := c.Query("page_size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page_size."})
			return 0, 0, false
		}
	}
	return page, size, true
}

// pageURL rebuilds the request URL with another page number.
func pageURL(c *gin.Context, page int) *string {
	u := url.URL{Scheme: "http", Host: c.Request.Host, Path: c.Request.URL.Path}
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

func pageResponse(c *gin.Context, p catalog.Page) PageResponse {
	resp := PageResponse{Count: p.Count, Results: p.Results}
	if p.HasNext() {
		resp.Next = pageURL(c, p.Page+1)
	}
	if p.Page > 1 {
		resp.Previous = pageURL(c, p.Page-1)
	}
	return resp
}

// ListProducts is the handler for GET /products/
func (h *Handlers) ListProducts(c *gin.Context) {
	page, size, ok := pageParams(c)
	if !ok {
		return
	}
	p, err := h.Catalog.ListProducts(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, "list_products", err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(c, p))
}

// GetProduct is the handler for GET /products/:id
// Signed-in viewers also get their favorite, cart and rating flags.
func (h *Handlers) GetProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.Catalog.ProductDetail(c.Request.Context(), productID, middleware.UserID(c))
	if err != nil {
		respondError(c, "get_product", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
