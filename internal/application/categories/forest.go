package categories

import (
	"sort"

	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/pkg/apperrors"
)

// Forest is an immutable, indexed snapshot of the category table.
// Safe for concurrent readers.
type Forest struct {
	nodes    map[uint]domain.Category
	children map[uint][]uint
	roots    []uint
}

// NewForest indexes cats by id and by parent. Nested Subcategories on the input are ignored.
func NewForest(cats []domain.Category) *Forest {
	f := &Forest{
		nodes:    make(map[uint]domain.Category, len(cats)),
		children: make(map[uint][]uint),
	}
	for _, c := range cats {
		c.Subcategories = nil
		f.nodes[c.ID] = c
	}
	for _, c := range f.nodes {
		if c.ParentID == nil {
			f.roots = append(f.roots, c.ID)
			continue
		}
		f.children[*c.ParentID] = append(f.children[*c.ParentID], c.ID)
	}
	sort.Slice(f.roots, func(i, j int) bool { return f.roots[i] < f.roots[j] })
	for id := range f.children {
		kids := f.children[id]
		sort.Slice(kids, func(i, j int) bool { return kids[i] < kids[j] })
	}
	return f
}

func (f *Forest) Len() int {
	return len(f.nodes)
}

func (f *Forest) Get(id uint) (domain.Category, bool) {
	c, ok := f.nodes[id]
	return c, ok
}

// Roots returns the categories without a parent, ordered by id.
func (f *Forest) Roots() []domain.Category {
	out := make([]domain.Category, 0, len(f.roots))
	for _, id := range f.roots {
		out = append(out, f.nodes[id])
	}
	return out
}

// AncestorChain returns the seed followed by each parent up to the root.
// A missing seed is a NotFoundError. A revisited node or a dangling parent ends the walk.
func (f *Forest) AncestorChain(id uint) ([]domain.Category, error) {
	c, ok := f.nodes[id]
	if !ok {
		return nil, apperrors.NotFound("Category")
	}
	visited := map[uint]bool{id: true}
	chain := []domain.Category{c}
	for c.ParentID != nil {
		pid := *c.ParentID
		if visited[pid] {
			break
		}
		parent, ok := f.nodes[pid]
		if !ok {
			break
		}
		visited[pid] = true
		chain = append(chain, parent)
		c = parent
	}
	return chain, nil
}

// Descendants returns every node below id, breadth first. id itself is excluded.
func (f *Forest) Descendants(id uint) []domain.Category {
	var out []domain.Category
	visited := map[uint]bool{id: true}
	queue := append([]uint(nil), f.children[id]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		out = append(out, f.nodes[next])
		queue = append(queue, f.children[next]...)
	}
	return out
}

// FullClosure unions, for every seed, the seed, its ancestors and its descendants.
// Unknown seeds are skipped. Each category appears once, in first-visit order.
func (f *Forest) FullClosure(ids []uint) []domain.Category {
	seen := make(map[uint]bool)
	var out []domain.Category
	add := func(c domain.Category) {
		if !seen[c.ID] {
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	for _, id := range ids {
		chain, err := f.AncestorChain(id)
		if err != nil {
			continue
		}
		for _, c := range chain {
			add(c)
		}
		for _, c := range f.Descendants(id) {
			add(c)
		}
	}
	return out
}

// Tree returns c with its Subcategories filled recursively.
func (f *Forest) Tree(id uint) (domain.Category, bool) {
	c, ok := f.nodes[id]
	if !ok {
		return domain.Category{}, false
	}
	return f.tree(c, map[uint]bool{}), true
}

func (f *Forest) tree(c domain.Category, visited map[uint]bool) domain.Category {
	visited[c.ID] = true
	for _, kid := range f.children[c.ID] {
		if visited[kid] {
			continue
		}
		c.Subcategories = append(c.Subcategories, f.tree(f.nodes[kid], visited))
	}
	return c
}

// IDs extracts the ids of cats in order.
func IDs(cats []domain.Category) []uint {
	out := make([]uint, len(cats))
	for i, c := range cats {
		out[i] = c.ID
	}
	return out
}
