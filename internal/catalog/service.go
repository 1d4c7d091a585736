package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/sync/singleflight"

	"github.com/01moynul/storefront-golang/internal/cache"
	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	categoryTreeKey = "category:tree"
)

// Page is one page of a product listing.
type Page struct {
	Count    int                     `json:"count"`
	Page     int                     `json:"-"`
	PageSize int                     `json:"-"`
	Results  []models.ProductSummary `json:"results"`
}

// HasNext reports whether another page follows this one.
func (p Page) HasNext() bool { return p.Page*p.PageSize < p.Count }

// ProductDetail is everything GET /products/:id shows.
type ProductDetail struct {
	models.Product
	Reviews []*models.ReviewNode `json:"reviews"`
	Rating  models.RatingSummary `json:"rating"`
	Viewer  *models.ViewerFlags  `json:"viewer,omitempty"`
}

type Service struct {
	store Store
	cache Cache // nil disables caching
	sfg   singleflight.Group
}

func NewService(store Store, c Cache) *Service {
	return &Service{store: store, cache: c}
}

// CategoryTree returns all categories nested under their parents.
func (s *Service) CategoryTree(ctx context.Context) ([]*models.CategoryNode, error) {
	return cached(ctx, s, categoryTreeKey, func() ([]*models.CategoryNode, error) {
		cats, err := s.store.Categories(ctx)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		return BuildCategoryTree(cats, MaxTreeDepth), nil
	})
}

// Category resolves a category by numeric id or by slug.
func (s *Service) Category(ctx context.Context, key string) (models.Category, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		return s.store.Category(ctx, id)
	}
	normalized := slug.Make(key)
	if normalized == "" {
		return models.Category{}, fmt.Errorf("%w: category %q", commerce.ErrNotFound, key)
	}
	return cached(ctx, s, "category:"+normalized, func() (models.Category, error) {
		return s.store.CategoryBySlug(ctx, normalized)
	})
}

// CategoryProducts lists the products directly in one category.
func (s *Service) CategoryProducts(ctx context.Context, key string, page, size int) (models.Category, Page, error) {
	cat, err := s.Category(ctx, key)
	if err != nil {
		return models.Category{}, Page{}, err
	}
	p, err := s.products(ctx, cat.ID, page, size)
	return cat, p, err
}

// ListProducts lists every product.
func (s *Service) ListProducts(ctx context.Context, page, size int) (Page, error) {
	return s.products(ctx, 0, page, size)
}

func (s *Service) products(ctx context.Context, categoryID int64, page, size int) (Page, error) {
	page, size, err := NormalizePage(page, size)
	if err != nil {
		return Page{}, err
	}
	items, total, err := s.store.Products(ctx, categoryID, size, (page-1)*size)
	if err != nil {
		return Page{}, fmt.Errorf("list products: %w", err)
	}
	if page > 1 && len(items) == 0 {
		return Page{}, fmt.Errorf("%w: invalid page", commerce.ErrNotFound)
	}
	out := Page{Count: total, Page: page, PageSize: size, Results: make([]models.ProductSummary, 0, len(items))}
	for _, p := range items {
		out.Results = append(out.Results, models.ProductSummary{ID: p.ID, Title: p.Title, UnitPrice: p.UnitPrice})
	}
	return out, nil
}

// NormalizePage applies the default size and clamps it to MaxPageSize.
// Page numbers start at 1.
func NormalizePage(page, size int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, fmt.Errorf("%w: invalid page", commerce.ErrNotFound)
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return page, size, nil
}

// ProductDetail loads a product with its review tree and rating summary.
// viewerID 0 means an anonymous viewer and leaves Viewer nil.
func (s *Service) ProductDetail(ctx context.Context, productID, viewerID int64) (ProductDetail, error) {
	p, err := s.store.Product(ctx, productID)
	if err != nil {
		return ProductDetail{}, err
	}
	reviews, err := s.store.Reviews(ctx, productID)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("load reviews: %w", err)
	}

	rating, err := cached(ctx, s, ratingKey(productID), func() (models.RatingSummary, error) {
		return s.store.RatingSummary(ctx, productID)
	})
	if err != nil {
		return ProductDetail{}, fmt.Errorf("load rating: %w", err)
	}

	d := ProductDetail{Product: p, Reviews: BuildReviewTree(reviews, MaxTreeDepth), Rating: rating}
	if viewerID > 0 {
		flags, err := s.store.ViewerFlags(ctx, viewerID, productID)
		if err != nil {
			return ProductDetail{}, fmt.Errorf("load viewer flags: %w", err)
		}
		d.Viewer = &flags
	}
	return d, nil
}

func ratingKey(productID int64) string {
	return "rating:" + strconv.FormatInt(productID, 10)
}

// cached is cache-aside behind singleflight, so concurrent misses on the
// same key hit the store once.
func cached[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	if s.cache != nil {
		var hit T
		err := s.cache.GetJSON(ctx, key, &hit)
		if err == nil {
			return hit, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logging.Log(logging.Fields{RequestID: logging.RequestID(ctx), Step: "cache_get", Status: "error", Message: key, Err: err})
		}
	}

	v, err, _ := s.sfg.Do(key, func() (any, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			if err := s.cache.SetJSON(setCtx, key, v); err != nil {
				logging.Log(logging.Fields{Step: "cache_set", Status: "error", Message: key, Err: err})
			}
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := s.cache.Delete(delCtx, keys...); err != nil {
		logging.Log(logging.Fields{Step: "cache_delete", Status: "error", Err: err})
	}
}
