package catalog

import "github.com/01moynul/storefront-golang/internal/models"

// MaxTreeDepth bounds how deep category and review trees are rendered.
const MaxTreeDepth = 16

// forest turns a flat parent-linked list into trees without recursion.
// Items whose parent is missing become roots. A node is attached at most
// once, so parent cycles are cut; items reachable only through a cycle
// are left out. Nodes deeper than maxDepth are dropped.
func forest[T any, N any](
	items []T,
	id func(T) int64,
	parent func(T) *int64,
	node func(T) *N,
	attach func(parent, child *N),
	maxDepth int,
) []*N {
	known := make(map[int64]bool, len(items))
	for _, it := range items {
		known[id(it)] = true
	}

	children := make(map[int64][]T)
	var roots []T
	for _, it := range items {
		p := parent(it)
		if p == nil || !known[*p] || *p == id(it) {
			roots = append(roots, it)
			continue
		}
		children[*p] = append(children[*p], it)
	}

	type pending struct {
		item  T
		node  *N
		depth int
	}
	visited := make(map[int64]bool, len(items))
	out := make([]*N, 0, len(roots))
	queue := make([]pending, 0, len(items))
	for _, r := range roots {
		if visited[id(r)] {
			continue
		}
		visited[id(r)] = true
		n := node(r)
		out = append(out, n)
		queue = append(queue, pending{item: r, node: n, depth: 1})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, child := range children[id(cur.item)] {
			if visited[id(child)] {
				continue
			}
			visited[id(child)] = true
			n := node(child)
			attach(cur.node, n)
			queue = append(queue, pending{item: child, node: n, depth: cur.depth + 1})
		}
	}
	return out
}

// BuildCategoryTree nests categories under their parents.
func BuildCategoryTree(cats []models.Category, maxDepth int) []*models.CategoryNode {
	return forest(cats,
		func(c models.Category) int64 { return c.ID },
		func(c models.Category) *int64 { return c.ParentID },
		func(c models.Category) *models.CategoryNode {
			// Empty slice so leaves render as [] instead of null.
			return &models.CategoryNode{ID: c.ID, Title: c.Title, Slug: c.Slug, Subcategories: []*models.CategoryNode{}}
		},
		func(p, c *models.CategoryNode) { p.Subcategories = append(p.Subcategories, c) },
		maxDepth,
	)
}

// BuildReviewTree nests replies under the review they answer.
func BuildReviewTree(reviews []models.Review, maxDepth int) []*models.ReviewNode {
	return forest(reviews,
		func(r models.Review) int64 { return r.ID },
		func(r models.Review) *int64 { return r.ParentID },
		func(r models.Review) *models.ReviewNode {
			return &models.ReviewNode{ID: r.ID, UserID: r.UserID, Text: r.Text, CreatedAt: r.CreatedAt, Children: []*models.ReviewNode{}}
		},
		func(p, c *models.ReviewNode) { p.Children = append(p.Children, c) },
		maxDepth,
	)
}

// descendants returns rootID and the ids of every reply below it.
func descendants(reviews []models.Review, rootID int64) []int64 {
	children := make(map[int64][]int64)
	for _, r := range reviews {
		if r.ParentID != nil {
			children[*r.ParentID] = append(children[*r.ParentID], r.ID)
		}
	}
	seen := map[int64]bool{rootID: true}
	ids := []int64{rootID}
	for stack := []int64{rootID}; len(stack) > 0; {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range children[cur] {
			if !seen[c] {
				seen[c] = true
				ids = append(ids, c)
				stack = append(stack, c)
			}
		}
	}
	return ids
}
