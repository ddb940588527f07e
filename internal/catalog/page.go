package catalog

import "storefront/internal/models"

// Page is one window of a listing together with its pagination metadata.
type Page struct {
	Items []models.Product
	Count int
	Total int64
	Page  int
	Pages int
}

// NewPage wraps the items fetched for q. total is the number of products
// matching q's filter across all pages.
func NewPage(items []models.Product, total int64, q Query) Page {
	if items == nil {
		items = []models.Product{}
	}
	return Page{
		Items: items,
		Count: len(items),
		Total: total,
		Page:  q.Page,
		Pages: PageCount(total, q.Limit),
	}
}

// PageCount is ceil(total / limit).
func PageCount(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Window returns the slice of items that q selects from an already sorted,
// already filtered list.
func Window(items []models.Product, q Query) []models.Product {
	start := q.Offset()
	if start < 0 || start >= len(items) {
		return []models.Product{}
	}
	end := start + q.Limit
	if end > len(items) || end < start {
		end = len(items)
	}
	return items[start:end]
}
