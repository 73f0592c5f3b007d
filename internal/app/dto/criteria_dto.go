package dto

import "github.com/shopspring/decimal"

// SetCategoriesRequest replaces the selected categories; empty means all
type SetCategoriesRequest struct {
	Categories []string `json:"categories" validate:"dive,required"`
}

// SetPriceRangeRequest sets the price filter; a nil Max is unbounded
type SetPriceRangeRequest struct {
	Min *decimal.Decimal `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

// SetRatingRequest sets the minimum rating; a nil Rating clears it.
// Toggle clears the filter when the same rating is already selected.
type SetRatingRequest struct {
	Rating *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Toggle bool     `json:"toggle"`
}

// SetSearchRequest sets the free-text search
type SetSearchRequest struct {
	Search string `json:"search" validate:"max=200"`
}

// SetSortRequest selects a sort option by id
type SetSortRequest struct {
	ID string `json:"id" validate:"required"`
}

// SetViewModeRequest selects the list layout
type SetViewModeRequest struct {
	ViewMode string `json:"viewMode" validate:"required,oneof=grid list"`
}
