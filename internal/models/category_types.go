package models

// Category defines the struct for the 'categories' table
type Category struct {
	ID       int64  `json:"id" db:"id"`
	Title    string `json:"title" db:"title"`
	Slug     string `json:"slug" db:"slug"`
	ParentID *int64 `json:"parentId,omitempty" db:"parent_id"` // Use pointer for NULL
}

// CategoryNode is one node of the category tree returned by GET /category/.
type CategoryNode struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Subcategories []*CategoryNode `json:"subcategories"`
}
