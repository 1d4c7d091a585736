package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/models"
)

func (s *Store) Categories(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, 0, len(s.st.categories))
	for _, c := range s.st.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Category(_ context.Context, id int64) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.categories[id]
	if !ok {
		return models.Category{}, fmt.Errorf("%w: category %d", commerce.ErrNotFound, id)
	}
	return c, nil
}

func (s *Store) CategoryBySlug(_ context.Context, slug string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.st.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return models.Category{}, fmt.Errorf("%w: category %q", commerce.ErrNotFound, slug)
}

func (s *Store) Products(_ context.Context, categoryID int64, limit, offset int) ([]models.Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.Product
	for _, p := range s.st.products {
		if categoryID == 0 || p.CategoryID == categoryID {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *Store) Product(_ context.Context, id int64) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: product %d", commerce.ErrNotFound, id)
	}
	return p, nil
}

func (s *Store) Reviews(_ context.Context, productID int64) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Review
	for _, r := range s.st.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Review(_ context.Context, id int64) (models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.reviews[id]
	if !ok {
		return models.Review{}, fmt.Errorf("%w: review %d", commerce.ErrNotFound, id)
	}
	return r, nil
}

func (s *Store) CreateReview(_ context.Context, r models.Review) (models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.st.id()
	s.st.reviews[r.ID] = r
	return r, nil
}

func (s *Store) UpdateReviewText(_ context.Context, id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.reviews[id]
	if !ok {
		return fmt.Errorf("%w: review %d", commerce.ErrNotFound, id)
	}
	r.Text = text
	s.st.reviews[id] = r
	return nil
}

func (s *Store) DeleteReviews(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.st.reviews, id)
	}
	return nil
}

func (s *Store) UpsertRating(_ context.Context, r models.Rating) (models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.st.ratings {
		if existing.UserID == r.UserID && existing.ProductID == r.ProductID {
			r.ID = id
			s.st.ratings[id] = r
			return r, nil
		}
	}
	r.ID = s.st.id()
	s.st.ratings[r.ID] = r
	return r, nil
}

func (s *Store) RatingSummary(_ context.Context, productID int64) (models.RatingSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum models.RatingSummary
	total := 0
	for _, r := range s.st.ratings {
		if r.ProductID == productID {
			sum.Count++
			total += r.Star
		}
	}
	if sum.Count > 0 {
		sum.Average = float64(total) / float64(sum.Count)
	}
	return sum, nil
}

func (s *Store) AddFavorite(_ context.Context, userID, productID int64) (models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.st.favorites {
		if f.UserID == userID && f.ProductID == productID {
			return f, nil
		}
	}
	f := models.Favorite{ID: s.st.id(), UserID: userID, ProductID: productID}
	s.st.favorites[f.ID] = f
	return f, nil
}

func (s *Store) Favorite(_ context.Context, id int64) (models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.st.favorites[id]
	if !ok {
		return models.Favorite{}, fmt.Errorf("%w: favorite %d", commerce.ErrNotFound, id)
	}
	return f, nil
}

func (s *Store) DeleteFavorite(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.favorites[id]; !ok {
		return fmt.Errorf("%w: favorite %d", commerce.ErrNotFound, id)
	}
	delete(s.st.favorites, id)
	return nil
}

func (s *Store) Favorites(_ context.Context, userID int64) ([]models.FavoriteProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.FavoriteProduct
	for _, f := range s.st.favorites {
		if f.UserID == userID {
			out = append(out, models.FavoriteProduct{ID: f.ID, ProductID: f.ProductID, ProductTitle: s.st.products[f.ProductID].Title})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ViewerFlags(_ context.Context, userID, productID int64) (models.ViewerFlags, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var flags models.ViewerFlags
	for _, f := range s.st.favorites {
		if f.UserID == userID && f.ProductID == productID {
			flags.Favorite = true
			break
		}
	}
	for _, l := range s.st.cartLines {
		if l.UserID == userID && l.ProductID == productID {
			flags.InCart = true
			break
		}
	}
	for _, r := range s.st.ratings {
		if r.UserID == userID && r.ProductID == productID {
			flags.UserRating = r.Star
			break
		}
	}
	return flags, nil
}
