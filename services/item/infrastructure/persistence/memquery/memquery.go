// Package memquery evaluates repository list options over items held in
// memory. The file and redis stores load candidates and delegate here so
// every store filters, orders and pages the same way.
package memquery

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ghuser/itemcatalog/services/item/domain/models"
	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
)

// Match reports whether it passes f.
func Match(it *models.Item, f repositories.Filter) bool {
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(it.Name), needle) &&
			!strings.Contains(strings.ToLower(it.Description), needle) {
			return false
		}
	}
	return true
}

// Count returns the number of items passing f.
func Count(items []*models.Item, f repositories.Filter) int {
	n := 0
	for _, it := range items {
		if Match(it, f) {
			n++
		}
	}
	return n
}

// Select filters, orders and pages items according to opts. Ties on the sort
// field are broken by id in the same direction. The result holds copies.
func Select(items []*models.Item, opts repositories.ListOptions) []*models.Item {
	opts = opts.Normalize()

	matched := make([]*models.Item, 0, len(items))
	for _, it := range items {
		if Match(it, opts.Filter) {
			matched = append(matched, it)
		}
	}

	desc := opts.SortOrder == repositories.SortDesc
	slices.SortFunc(matched, func(a, b *models.Item) int {
		c := compareBy(opts.SortBy, a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})

	if opts.Offset >= len(matched) {
		return []*models.Item{}
	}
	end := min(opts.Offset+opts.Limit, len(matched))

	page := make([]*models.Item, 0, end-opts.Offset)
	for _, it := range matched[opts.Offset:end] {
		page = append(page, it.Clone())
	}
	return page
}

// Categories returns the distinct categories of items in ascending order.
func Categories(items []*models.Item) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0)
	for _, it := range items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	slices.Sort(out)
	return out
}

func compareBy(field repositories.SortField, a, b *models.Item) int {
	switch field {
	case repositories.SortByID:
		return cmp.Compare(a.ID, b.ID)
	case repositories.SortByName:
		return strings.Compare(a.Name, b.Name)
	case repositories.SortByPrice:
		return a.Price.Cmp(b.Price)
	case repositories.SortByCategory:
		return strings.Compare(a.Category, b.Category)
	case repositories.SortByStock:
		return cmp.Compare(a.Stock, b.Stock)
	case repositories.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
