package pipeline

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultPageSize is the number of products revealed per page
const DefaultPageSize = 8

// Cursor is the "load more" position. Page starts at 1.
type Cursor struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Limit is the number of products the cursor reveals
func (c Cursor) Limit() int {
	page, size := c.Page, c.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page * size
}

// Result is the page of products handed to the presentation layer
type Result struct {
	Visible      []domain.Product `json:"visible"`
	TotalMatches int              `json:"totalMatches"`
	HasMore      bool             `json:"hasMore"`
}

// Derive filters, sorts and paginates items. It never mutates items.
func Derive(items []domain.Product, filter domain.FilterCriteria, sort domain.SortDirective, cursor Cursor) Result {
	matches := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if matchesFilter(p, filter) {
			matches = append(matches, p)
		}
	}

	sortProducts(matches, sort)

	visible := matches
	if limit := cursor.Limit(); limit < len(matches) {
		visible = matches[:limit:limit]
	}

	return Result{
		Visible:      visible,
		TotalMatches: len(matches),
		HasMore:      len(visible) < len(matches),
	}
}

func matchesFilter(p domain.Product, f domain.FilterCriteria) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if !f.PriceRange.Contains(p.Price) {
		return false
	}
	if f.Rating != nil && p.Rating.Rate < *f.Rating {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}
	return true
}

// sortProducts orders in place. Both orderings are stable.
func sortProducts(products []domain.Product, sort domain.SortDirective) {
	switch {
	case sort.Field != domain.SortFieldNone:
		compare := fieldComparator(sort.Field)
		if compare == nil {
			return
		}
		if sort.Direction == domain.SortDesc {
			asc := compare
			compare = func(a, b domain.Product) int { return asc(b, a) }
		}
		slices.SortStableFunc(products, compare)
	case sort.ID == domain.FeaturedSortID:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Popularity(), a.Popularity())
		})
	}
}

func fieldComparator(field domain.SortField) func(a, b domain.Product) int {
	switch field {
	case domain.SortFieldPrice:
		return func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case domain.SortFieldRating:
		return func(a, b domain.Product) int { return cmp.Compare(a.Rating.Rate, b.Rating.Rate) }
	case domain.SortFieldTitle:
		return func(a, b domain.Product) int { return strings.Compare(a.Title, b.Title) }
	}
	return nil
}

// PriceBounds returns the lowest and highest price in items.
// ok is false for an empty catalog.
func PriceBounds(items []domain.Product) (lowest, highest decimal.Decimal, ok bool) {
	if len(items) == 0 {
		return decimal.Zero, decimal.Zero, false
	}
	lowest, highest = items[0].Price, items[0].Price
	for _, p := range items[1:] {
		lowest = decimal.Min(lowest, p.Price)
		highest = decimal.Max(highest, p.Price)
	}
	return lowest, highest, true
}

// Memo caches the last Derive result and recomputes only when an input
// changed. Catalog identity is the cache generation.
type Memo struct {
	mu         sync.Mutex
	valid      bool
	generation uint64
	filter     domain.FilterCriteria
	sort       domain.SortDirective
	cursor     Cursor
	result     Result
}

// Derive returns the memoized result or recomputes it
func (m *Memo) Derive(generation uint64, items []domain.Product, filter domain.FilterCriteria, sort domain.SortDirective, cursor Cursor) (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid &&
		m.generation == generation &&
		m.sort == sort &&
		m.cursor == cursor &&
		m.filter.Equal(filter) {
		return m.result, true
	}

	m.result = Derive(items, filter, sort, cursor)
	m.generation = generation
	m.filter = filter.Clone()
	m.sort = sort
	m.cursor = cursor
	m.valid = true
	return m.result, false
}
