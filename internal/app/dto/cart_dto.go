package dto

import (
	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest represents the request to add a product to the cart
type AddCartItemRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"omitempty,gte=1"`
}

// SetQuantityRequest overwrites a line's quantity; values below 1 remove the line
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartLineResponse represents one cart line
type CartLineResponse struct {
	ProductResponse
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// CartResponse represents the cart with its totals
type CartResponse struct {
	Lines     []CartLineResponse `json:"lines"`
	LineCount int                `json:"lineCount"`
	ItemCount int                `json:"itemCount"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
}

// ToCartResponse converts ledger lines and totals
func ToCartResponse(lines []domain.CartLine, itemCount int, subtotal decimal.Decimal) *CartResponse {
	out := &CartResponse{
		Lines:     make([]CartLineResponse, len(lines)),
		LineCount: len(lines),
		ItemCount: itemCount,
		Subtotal:  subtotal,
	}
	for i, line := range lines {
		out.Lines[i] = CartLineResponse{
			ProductResponse: *ToProductResponse(line.Product),
			Quantity:        line.Quantity,
			LineTotal:       line.LineTotal(),
		}
	}
	return out
}
