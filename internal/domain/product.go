package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID    = errors.New("product id must be positive")
	ErrInvalidProductPrice = errors.New("product price must not be negative")
	ErrInvalidProductRate  = errors.New("product rating must be between 0 and 5")
)

// Rating is the aggregated customer rating of a product
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product represents a catalog entry as supplied by the catalog API.
// Products are never mutated after they are fetched.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// Popularity is the featured-order score: rate times count
func (p Product) Popularity() float64 {
	return p.Rating.Rate * float64(p.Rating.Count)
}

// Validate performs sanity checks on a product. The catalog client drops
// products that fail it and cart restore drops lines holding one.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	if p.Price.IsNegative() {
		return ErrInvalidProductPrice
	}
	if p.Rating.Rate < 0 || p.Rating.Rate > 5 {
		return ErrInvalidProductRate
	}
	return nil
}
