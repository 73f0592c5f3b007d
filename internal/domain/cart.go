package domain

import "github.com/shopspring/decimal"

// CartLine is a product together with the quantity held in the cart
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price × quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot is the persisted form of the cart, keyed by product id
type CartSnapshot map[int]CartLine
