// Package catalog serves categories, products, reviews, ratings and
// favorites. It never touches stock; that belongs to commerce.
package catalog

import (
	"context"

	"github.com/01moynul/storefront-golang/internal/models"
)

// Store is the persisted catalog. Missing rows are commerce.ErrNotFound.
type Store interface {
	// Categories returns every category ordered by title.
	Categories(ctx context.Context) ([]models.Category, error)
	Category(ctx context.Context, id int64) (models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (models.Category, error)

	// Products pages through products ordered by id. categoryID 0 means all.
	// The second result is the total number of matching products.
	Products(ctx context.Context, categoryID int64, limit, offset int) ([]models.Product, int, error)
	Product(ctx context.Context, id int64) (models.Product, error)

	// Reviews returns all reviews of a product ordered by id.
	Reviews(ctx context.Context, productID int64) ([]models.Review, error)
	Review(ctx context.Context, id int64) (models.Review, error)
	CreateReview(ctx context.Context, r models.Review) (models.Review, error)
	UpdateReviewText(ctx context.Context, id int64, text string) error
	DeleteReviews(ctx context.Context, ids []int64) error

	// UpsertRating keeps one rating per (user, product).
	UpsertRating(ctx context.Context, r models.Rating) (models.Rating, error)
	RatingSummary(ctx context.Context, productID int64) (models.RatingSummary, error)

	// AddFavorite returns the existing favorite when there already is one.
	AddFavorite(ctx context.Context, userID, productID int64) (models.Favorite, error)
	Favorite(ctx context.Context, id int64) (models.Favorite, error)
	DeleteFavorite(ctx context.Context, id int64) error
	Favorites(ctx context.Context, userID int64) ([]models.FavoriteProduct, error)

	ViewerFlags(ctx context.Context, userID, productID int64) (models.ViewerFlags, error)
}

// Cache is the optional read cache. internal/cache.RedisCache implements it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
}
