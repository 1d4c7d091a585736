package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/models"
)

const maxReviewLength = 5000

// CreateReview posts a review, or a reply when parentID is set. A reply
// must answer a review of the same product.
func (s *Service) CreateReview(ctx context.Context, userID, productID int64, parentID *int64, text string) (models.Review, error) {
	if userID <= 0 {
		return models.Review{}, commerce.ErrUnauthorized
	}
	text, err := reviewText(text)
	if err != nil {
		return models.Review{}, err
	}
	if _, err := s.store.Product(ctx, productID); err != nil {
		return models.Review{}, err
	}
	if parentID != nil {
		parent, err := s.store.Review(ctx, *parentID)
		if err != nil {
			return models.Review{}, fmt.Errorf("%w: parent review %d", commerce.ErrValidation, *parentID)
		}
		if parent.ProductID != productID {
			return models.Review{}, fmt.Errorf("%w: parent review belongs to another product", commerce.ErrValidation)
		}
	}
	return s.store.CreateReview(ctx, models.Review{
		UserID:    userID,
		ProductID: productID,
		ParentID:  parentID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
}

// UpdateReview edits the text of the caller's own review.
func (s *Service) UpdateReview(ctx context.Context, userID, reviewID int64, text string) (models.Review, error) {
	r, err := s.ownReview(ctx, userID, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if r.Text, err = reviewText(text); err != nil {
		return models.Review{}, err
	}
	if err := s.store.UpdateReviewText(ctx, r.ID, r.Text); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

// DeleteReview removes the caller's review together with all replies to it.
func (s *Service) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	r, err := s.ownReview(ctx, userID, reviewID)
	if err != nil {
		return err
	}
	all, err := s.store.Reviews(ctx, r.ProductID)
	if err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}
	return s.store.DeleteReviews(ctx, descendants(all, r.ID))
}

func (s *Service) ownReview(ctx context.Context, userID, reviewID int64) (models.Review, error) {
	if userID <= 0 {
		return models.Review{}, commerce.ErrUnauthorized
	}
	r, err := s.store.Review(ctx, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if r.UserID != userID {
		return models.Review{}, fmt.Errorf("%w: review %d belongs to another user", commerce.ErrForbidden, reviewID)
	}
	return r, nil
}

func reviewText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: review text is required", commerce.ErrValidation)
	}
	if len(text) > maxReviewLength {
		return "", fmt.Errorf("%w: review text is longer than %d bytes", commerce.ErrValidation, maxReviewLength)
	}
	return text, nil
}

// RateProduct sets the caller's star rating, replacing any earlier one.
func (s *Service) RateProduct(ctx context.Context, userID, productID int64, star int) (models.Rating, error) {
	if userID <= 0 {
		return models.Rating{}, commerce.ErrUnauthorized
	}
	if star < 1 || star > 5 {
		return models.Rating{}, fmt.Errorf("%w: star must be between 1 and 5", commerce.ErrValidation)
	}
	if _, err := s.store.Product(ctx, productID); err != nil {
		return models.Rating{}, err
	}
	r, err := s.store.UpsertRating(ctx, models.Rating{UserID: userID, ProductID: productID, Star: star})
	if err != nil {
		return models.Rating{}, err
	}
	s.invalidate(ctx, ratingKey(productID))
	return r, nil
}

// AddFavorite marks a product as a favorite. Adding twice is a no-op.
func (s *Service) AddFavorite(ctx context.Context, userID, productID int64) (models.Favorite, error) {
	if userID <= 0 {
		return models.Favorite{}, commerce.ErrUnauthorized
	}
	if _, err := s.store.Product(ctx, productID); err != nil {
		return models.Favorite{}, err
	}
	return s.store.AddFavorite(ctx, userID, productID)
}

// RemoveFavorite deletes one of the caller's favorites. Another user's
// favorite is reported as not found.
func (s *Service) RemoveFavorite(ctx context.Context, userID, favoriteID int64) error {
	if userID <= 0 {
		return commerce.ErrUnauthorized
	}
	f, err := s.store.Favorite(ctx, favoriteID)
	if err != nil {
		return err
	}
	if f.UserID != userID {
		return fmt.Errorf("%w: favorite %d", commerce.ErrNotFound, favoriteID)
	}
	return s.store.DeleteFavorite(ctx, favoriteID)
}

func (s *Service) Favorites(ctx context.Context, userID int64) ([]models.FavoriteProduct, error) {
	if userID <= 0 {
		return nil, commerce.ErrUnauthorized
	}
	favs, err := s.store.Favorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if favs == nil {
		favs = []models.FavoriteProduct{}
	}
	return favs, nil
}
