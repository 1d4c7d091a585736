package models

import "time"

// Review is the model for the 'reviews' table.
// A review with a ParentID is a reply to another review of the same product.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ReviewNode is a review together with its replies.
type ReviewNode struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"userId"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
	Children  []*ReviewNode `json:"children"`
}

// Rating is the model for the 'ratings' table (one row per user and product).
type Rating struct {
	ID        int64 `json:"id" db:"id"`
	UserID    int64 `json:"userId" db:"user_id"`
	ProductID int64 `json:"productId" db:"product_id"`
	Star      int   `json:"star" db:"star"`
}

// Favorite is the model for the 'favorites' table.
type Favorite struct {
	ID        int64 `json:"id" db:"id"`
	UserID    int64 `json:"userId" db:"user_id"`
	ProductID int64 `json:"productId" db:"product_id"`
}

// FavoriteProduct is a favorite joined with its product title.
type FavoriteProduct struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"productId"`
	ProductTitle string `json:"product"`
}
