package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

func scanCategory(row scanner) (models.Category, error) {
	var c models.Category
	var parent sql.NullInt64
	if err := row.Scan(&c.ID, &c.Title, &c.Slug, &parent); err != nil {
		return models.Category{}, err
	}
	c.ParentID = idPointer(parent)
	return c, nil
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT id, title, slug, parent_id FROM categories ORDER BY title ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) Category(ctx context.Context, id int64) (models.Category, error) {
	c, err := scanCategory(s.DB.QueryRowContext(ctx, "SELECT id, title, slug, parent_id FROM categories WHERE id = ?", id))
	if err != nil {
		return models.Category{}, notFound(err, fmt.Sprintf("category %d", id))
	}
	return c, nil
}

func (s *Store) CategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	c, err := scanCategory(s.DB.QueryRowContext(ctx, "SELECT id, title, slug, parent_id FROM categories WHERE slug = ?", slug))
	if err != nil {
		return models.Category{}, notFound(err, "category "+slug)
	}
	return c, nil
}

func (s *Store) Products(ctx context.Context, categoryID int64, limit, offset int) ([]models.Product, int, error) {
	where, args := "", []any{}
	if categoryID != 0 {
		where, args = " WHERE category_id = ?", append(args, categoryID)
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products"+where+" ORDER BY id LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (s *Store) Product(ctx context.Context, id int64) (models.Product, error) {
	p, err := scanProduct(s.DB.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
	if err != nil {
		return models.Product{}, notFound(err, fmt.Sprintf("product %d", id))
	}
	return p, nil
}

const reviewColumns = `id, user_id, product_id, parent_id, text, created_at`

func scanReview(row scanner) (models.Review, error) {
	var r models.Review
	var parent sql.NullInt64
	if err := row.Scan(&r.ID, &r.UserID, &r.ProductID, &parent, &r.Text, &r.CreatedAt); err != nil {
		return models.Review{}, err
	}
	r.ParentID = idPointer(parent)
	return r, nil
}

func (s *Store) Reviews(ctx context.Context, productID int64) ([]models.Review, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE product_id = ? ORDER BY id", productID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *Store) Review(ctx context.Context, id int64) (models.Review, error) {
	r, err := scanReview(s.DB.QueryRowContext(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id))
	if err != nil {
		return models.Review{}, notFound(err, fmt.Sprintf("review %d", id))
	}
	return r, nil
}

func (s *Store) CreateReview(ctx context.Context, r models.Review) (models.Review, error) {
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO reviews (user_id, product_id, parent_id, text, created_at) VALUES (?, ?, ?, ?, ?)",
		r.UserID, r.ProductID, nullableID(r.ParentID), r.Text, r.CreatedAt)
	if err != nil {
		return models.Review{}, fmt.Errorf("insert review: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return models.Review{}, fmt.Errorf("review id: %w", err)
	}
	return r, nil
}

func (s *Store) UpdateReviewText(ctx context.Context, id int64, text string) error {
	if _, err := s.DB.ExecContext(ctx, "UPDATE reviews SET text = ? WHERE id = ?", text, id); err != nil {
		return fmt.Errorf("update review %d: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteReviews(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := "DELETE FROM reviews WHERE id IN (" + placeholders(len(ids)) + ")"
	if _, err := s.DB.ExecContext(ctx, query, int64Args(ids)...); err != nil {
		return fmt.Errorf("delete reviews: %w", err)
	}
	return nil
}

// LAST_INSERT_ID(id) makes LastInsertId return the existing row on update.
const upsertRating = `INSERT INTO ratings (user_id, product_id, star) VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE star = VALUES(star), id = LAST_INSERT_ID(id)`

func (s *Store) UpsertRating(ctx context.Context, r models.Rating) (models.Rating, error) {
	res, err := s.DB.ExecContext(ctx, upsertRating, r.UserID, r.ProductID, r.Star)
	if err != nil {
		return models.Rating{}, fmt.Errorf("upsert rating: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return models.Rating{}, fmt.Errorf("rating id: %w", err)
	}
	return r, nil
}

func (s *Store) RatingSummary(ctx context.Context, productID int64) (models.RatingSummary, error) {
	var sum models.RatingSummary
	err := s.DB.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(star), 0), COUNT(*) FROM ratings WHERE product_id = ?", productID).
		Scan(&sum.Average, &sum.Count)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("rating summary: %w", err)
	}
	return sum, nil
}

const addFavorite = `INSERT INTO favorites (user_id, product_id) VALUES (?, ?)
	ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`

func (s *Store) AddFavorite(ctx context.Context, userID, productID int64) (models.Favorite, error) {
	res, err := s.DB.ExecContext(ctx, addFavorite, userID, productID)
	if err != nil {
		return models.Favorite{}, fmt.Errorf("add favorite: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Favorite{}, fmt.Errorf("favorite id: %w", err)
	}
	return models.Favorite{ID: id, UserID: userID, ProductID: productID}, nil
}

func (s *Store) Favorite(ctx context.Context, id int64) (models.Favorite, error) {
	var f models.Favorite
	err := s.DB.QueryRowContext(ctx, "SELECT id, user_id, product_id FROM favorites WHERE id = ?", id).
		Scan(&f.ID, &f.UserID, &f.ProductID)
	if err != nil {
		return models.Favorite{}, notFound(err, fmt.Sprintf("favorite %d", id))
	}
	return f, nil
}

func (s *Store) DeleteFavorite(ctx context.Context, id int64) error {
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM favorites WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete favorite %d: %w", id, err)
	}
	return nil
}

const queryFavorites = `SELECT f.id, f.product_id, p.title
	FROM favorites f JOIN products p ON p.id = f.product_id
	WHERE f.user_id = ? ORDER BY f.id`

func (s *Store) Favorites(ctx context.Context, userID int64) ([]models.FavoriteProduct, error) {
	rows, err := s.DB.QueryContext(ctx, queryFavorites, userID)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	var favs []models.FavoriteProduct
	for rows.Next() {
		var f models.FavoriteProduct
		if err := rows.Scan(&f.ID, &f.ProductID, &f.ProductTitle); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

const queryViewerFlags = `SELECT
	EXISTS(SELECT 1 FROM favorites WHERE user_id = ? AND product_id = ?),
	EXISTS(SELECT 1 FROM cart_lines WHERE user_id = ? AND product_id = ?),
	COALESCE((SELECT star FROM ratings WHERE user_id = ? AND product_id = ?), 0)`

func (s *Store) ViewerFlags(ctx context.Context, userID, productID int64) (models.ViewerFlags, error) {
	var f models.ViewerFlags
	err := s.DB.QueryRowContext(ctx, queryViewerFlags, userID, productID, userID, productID, userID, productID).
		Scan(&f.Favorite, &f.InCart, &f.UserRating)
	if err != nil {
		return models.ViewerFlags{}, fmt.Errorf("viewer flags: %w", err)
	}
	return f, nil
}
