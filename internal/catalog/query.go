// Package catalog turns product listing parameters into a filter, a sort
// order and a page window, and wraps result pages in an envelope.
package catalog

import (
	"math"
	"strconv"
	"strings"

	"storefront/internal/models"
)

// Page size limits.
const (
	DefaultLimit       = 12
	VendorDefaultLimit = 10
	MaxLimit           = 100
	MaxPage            = math.MaxInt32
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// SortKey selects the ordering of a listing.
type SortKey string

// Supported sort keys. Anything else sorts newest first.
const (
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// Sortable columns.
const (
	FieldPrice     = "price"
	FieldRating    = "rating_average"
	FieldCreatedAt = "created_at"
)

// Params holds listing parameters after coercion. Nil bounds are not applied.
type Params struct {
	Page      int
	Limit     int
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Search    string
	Sort      SortKey
}

// ParseParams reads listing parameters through get, typically a query-string
// lookup. Malformed values never fail: a bad page or limit falls back to its
// default and a bad numeric bound is dropped.
func ParseParams(get func(key string) string, defaultLimit int) Params {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	return Params{
		Page:      clampPage(parsePositiveInt(get("page"), 1)),
		Limit:     clampLimit(parsePositiveInt(get("limit"), defaultLimit)),
		Category:  strings.TrimSpace(get("category")),
		MinPrice:  parseBound(get("minPrice")),
		MaxPrice:  parseBound(get("maxPrice")),
		MinRating: parseBound(get("minRating")),
		Search:    strings.TrimSpace(get("search")),
		Sort:      SortKey(strings.TrimSpace(get("sort"))),
	}
}

func parsePositiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func clampLimit(n int) int {
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

func clampPage(n int) int {
	if n > MaxPage {
		return MaxPage
	}
	return n
}

func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Scope decides which products a listing may see before any user filter.
type Scope struct {
	ActiveOnly bool
	VendorID   string
	Status     string
}

// PublicScope restricts a listing to listable products.
func PublicScope() Scope {
	return Scope{ActiveOnly: true}
}

// VendorScope shows a vendor all of their own products, whatever the status.
func VendorScope(vendorID string) Scope {
	return Scope{VendorID: vendorID}
}

// AdminScope shows every product, optionally narrowed to a single status.
func AdminScope(status string) Scope {
	return Scope{Status: status}
}

// Filter is a conjunction of clauses. Zero-valued fields are not applied.
type Filter struct {
	ActiveOnly bool
	VendorID   string
	Status     string
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	MinRating  *float64
	Search     string
}

// Sort orders a listing by one column. Ties are broken by ascending ID.
type Sort struct {
	Field string
	Desc  bool
}

// Query is a filter, a sort and a page window.
type Query struct {
	Filter Filter
	Sort   Sort
	Page   int
	Limit  int
}

// Offset is the number of matching products that precede the page.
// It saturates at math.MaxInt instead of overflowing.
func (q Query) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// BuildQuery composes the query for p under scope s.
func BuildQuery(p Params, s Scope) Query {
	f := Filter{
		ActiveOnly: s.ActiveOnly,
		VendorID:   s.VendorID,
		Status:     s.Status,
		MinPrice:   p.MinPrice,
		MaxPrice:   p.MaxPrice,
		MinRating:  p.MinRating,
		Search:     p.Search,
	}
	if p.Category != "" && p.Category != CategoryAll {
		f.Category = p.Category
	}

	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	return Query{
		Filter: f,
		Sort:   SortFor(p.Sort),
		Page:   clampPage(page),
		Limit:  clampLimit(limit),
	}
}

// SortFor maps a sort key to a column ordering.
func SortFor(key SortKey) Sort {
	switch key {
	case SortPriceLow:
		return Sort{Field: FieldPrice}
	case SortPriceHigh:
		return Sort{Field: FieldPrice, Desc: true}
	case SortRating:
		return Sort{Field: FieldRating, Desc: true}
	default:
		return Sort{Field: FieldCreatedAt, Desc: true}
	}
}

// SearchTerms splits free text into lower-cased terms.
func SearchTerms(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

// Matches reports whether p satisfies every clause of f.
func (f Filter) Matches(p *models.Product) bool {
	if f.ActiveOnly && !p.Listable() {
		return false
	}
	if f.VendorID != "" && p.VendorID != f.VendorID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinRating != nil && p.Rating.Average < *f.MinRating {
		return false
	}
	if f.Search != "" && !matchesText(p, SearchTerms(f.Search)) {
		return false
	}
	return true
}

func matchesText(p *models.Product, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	name := strings.ToLower(p.Name)
	description := strings.ToLower(p.Description)
	for _, term := range terms {
		if strings.Contains(name, term) || strings.Contains(description, term) {
			return true
		}
	}
	return false
}

// Less orders a before b under s, falling back to ascending ID.
func (s Sort) Less(a, b *models.Product) bool {
	var cmp int
	switch s.Field {
	case FieldPrice:
		cmp = compareFloat(a.Price, b.Price)
	case FieldRating:
		cmp = compareFloat(a.Rating.Average, b.Rating.Average)
	default:
		cmp = a.CreatedAt.Compare(b.CreatedAt)
	}
	if cmp == 0 {
		return a.ID < b.ID
	}
	if s.Desc {
		return cmp > 0
	}
	return cmp < 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
