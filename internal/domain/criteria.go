package domain

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownSortOption = errors.New("unknown sort option")
	ErrInvalidViewMode   = errors.New("view mode must be grid or list")
)

// PriceRange bounds product prices. A nil Max is unbounded.
type PriceRange struct {
	Min decimal.Decimal  `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

// Contains reports whether price lies inside the range
func (r PriceRange) Contains(price decimal.Decimal) bool {
	if price.LessThan(r.Min) {
		return false
	}
	return r.Max == nil || !price.GreaterThan(*r.Max)
}

// Equal compares two ranges by value
func (r PriceRange) Equal(o PriceRange) bool {
	if !r.Min.Equal(o.Min) {
		return false
	}
	if r.Max == nil || o.Max == nil {
		return r.Max == nil && o.Max == nil
	}
	return r.Max.Equal(*o.Max)
}

// FilterCriteria is the conjunctive filter predicate chosen by the shopper.
// Zero values mean "no restriction" for every field.
type FilterCriteria struct {
	Categories []string   `json:"categories"`
	PriceRange PriceRange `json:"priceRange"`
	Rating     *float64   `json:"rating"`
	Search     string     `json:"search"`
}

// DefaultFilter returns the unrestricted filter
func DefaultFilter() FilterCriteria {
	return FilterCriteria{
		Categories: []string{},
		PriceRange: PriceRange{Min: decimal.Zero},
	}
}

// Clone returns a deep copy so callers cannot alias store state
func (f FilterCriteria) Clone() FilterCriteria {
	out := f
	out.Categories = slices.Clone(f.Categories)
	if out.Categories == nil {
		out.Categories = []string{}
	}
	if f.PriceRange.Max != nil {
		upper := *f.PriceRange.Max
		out.PriceRange.Max = &upper
	}
	if f.Rating != nil {
		rating := *f.Rating
		out.Rating = &rating
	}
	return out
}

// Equal compares two filters by value
func (f FilterCriteria) Equal(o FilterCriteria) bool {
	if !slices.Equal(f.Categories, o.Categories) || f.Search != o.Search {
		return false
	}
	if !f.PriceRange.Equal(o.PriceRange) {
		return false
	}
	if f.Rating == nil || o.Rating == nil {
		return f.Rating == nil && o.Rating == nil
	}
	return *f.Rating == *o.Rating
}

// SortDirection is ascending or descending
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortField selects the product attribute a sort compares on.
// SortFieldNone means the directive is a composite ordering such as featured.
type SortField string

const (
	SortFieldNone   SortField = ""
	SortFieldPrice  SortField = "price"
	SortFieldRating SortField = "rating"
	SortFieldTitle  SortField = "title"
)

// FeaturedSortID identifies the popularity ordering
const FeaturedSortID = "featured"

// SortDirective describes how the filtered products are ordered
type SortDirective struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Direction SortDirection `json:"direction"`
	Field     SortField     `json:"field"`
}

var sortOptions = []SortDirective{
	{ID: FeaturedSortID, Name: "Featured", Direction: SortDesc, Field: SortFieldNone},
	{ID: "price-low-high", Name: "Price: Low to High", Direction: SortAsc, Field: SortFieldPrice},
	{ID: "price-high-low", Name: "Price: High to Low", Direction: SortDesc, Field: SortFieldPrice},
	{ID: "rating-high-low", Name: "Highest Rated", Direction: SortDesc, Field: SortFieldRating},
	{ID: "name-a-z", Name: "Name: A to Z", Direction: SortAsc, Field: SortFieldTitle},
	{ID: "name-z-a", Name: "Name: Z to A", Direction: SortDesc, Field: SortFieldTitle},
}

// SortOptions lists the sort directives offered to shoppers
func SortOptions() []SortDirective {
	return slices.Clone(sortOptions)
}

// DefaultSort is the featured ordering
func DefaultSort() SortDirective {
	return sortOptions[0]
}

// SortOptionByID looks up a registered sort directive
func SortOptionByID(id string) (SortDirective, error) {
	for _, opt := range sortOptions {
		if opt.ID == id {
			return opt, nil
		}
	}
	return SortDirective{}, ErrUnknownSortOption
}

// ViewMode is the product list layout preference
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// ParseViewMode validates a view mode string
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewGrid, ViewList:
		return ViewMode(s), nil
	}
	return "", ErrInvalidViewMode
}
