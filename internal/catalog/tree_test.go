package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/models"
)

func id(v int64) *int64 { return &v }

func TestBuildCategoryTree_Nesting(t *testing.T) {
	cats := []models.Category{
		{ID: 1, Title: "Clothing", Slug: "clothing"},
		{ID: 2, Title: "Shoes", Slug: "shoes", ParentID: id(1)},
		{ID: 3, Title: "Sneakers", Slug: "sneakers", ParentID: id(2)},
		{ID: 4, Title: "Electronics", Slug: "electronics"},
	}

	tree := BuildCategoryTree(cats, MaxTreeDepth)
	require.Len(t, tree, 2)
	assert.Equal(t, "clothing", tree[0].Slug)
	require.Len(t, tree[0].Subcategories, 1)
	require.Len(t, tree[0].Subcategories[0].Subcategories, 1)
	assert.Equal(t, int64(3), tree[0].Subcategories[0].Subcategories[0].ID)
	assert.NotNil(t, tree[1].Subcategories)
	assert.Empty(t, tree[1].Subcategories)
}

func TestBuildCategoryTree_OrphanBecomesRoot(t *testing.T) {
	cats := []models.Category{{ID: 5, Title: "Lost", ParentID: id(99)}}

	tree := BuildCategoryTree(cats, MaxTreeDepth)
	require.Len(t, tree, 1)
	assert.Equal(t, int64(5), tree[0].ID)
}

func TestBuildCategoryTree_CycleTerminates(t *testing.T) {
	cats := []models.Category{
		{ID: 1, Title: "A", ParentID: id(2)},
		{ID: 2, Title: "B", ParentID: id(1)},
		{ID: 3, Title: "Root"},
		{ID: 4, Title: "Self", ParentID: id(4)},
	}

	tree := BuildCategoryTree(cats, MaxTreeDepth)
	var ids []int64
	for _, n := range tree {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []int64{3, 4}, ids)
}

func TestBuildReviewTree_DepthBound(t *testing.T) {
	reviews := []models.Review{{ID: 1, Text: "r"}}
	for i := int64(2); i <= 6; i++ {
		reviews = append(reviews, models.Review{ID: i, ParentID: id(i - 1), Text: "reply"})
	}

	tree := BuildReviewTree(reviews, 3)
	require.Len(t, tree, 1)
	depth := 0
	for n := tree[0]; n != nil; depth++ {
		if len(n.Children) == 0 {
			n = nil
			continue
		}
		n = n.Children[0]
	}
	assert.Equal(t, 3, depth)
}

func TestDescendants(t *testing.T) {
	reviews := []models.Review{
		{ID: 1},
		{ID: 2, ParentID: id(1)},
		{ID: 3, ParentID: id(2)},
		{ID: 4, ParentID: id(1)},
		{ID: 5},
	}

	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, descendants(reviews, 1))
	assert.Equal(t, []int64{5}, descendants(reviews, 5))
}
