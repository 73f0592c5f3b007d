package dto

import (
	"time"

	"github.com/mrops-br/storefront-core/internal/app/catalog"
	"github.com/mrops-br/storefront-core/internal/app/pipeline"
	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/shopspring/decimal"
)

// RatingResponse represents a product rating
type RatingResponse struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      RatingResponse  `json:"rating"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      RatingResponse{Rate: p.Rating.Rate, Count: p.Rating.Count},
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// CatalogStatusResponse describes the cache state behind a listing
type CatalogStatusResponse struct {
	Status        catalog.Status `json:"status"`
	Error         string         `json:"error,omitempty"`
	LastFetchedAt *time.Time     `json:"lastFetchedAt"`
	ProductCount  int            `json:"productCount"`
}

// ToCatalogStatusResponse converts a cache entry
func ToCatalogStatusResponse(e catalog.Entry) CatalogStatusResponse {
	return CatalogStatusResponse{
		Status:        e.Status,
		Error:         e.Error,
		LastFetchedAt: e.LastFetchedAt,
		ProductCount:  len(e.Items),
	}
}

// ProductPageResponse is the derived product listing
type ProductPageResponse struct {
	Products     []*ProductResponse    `json:"products"`
	TotalMatches int                   `json:"totalMatches"`
	HasMore      bool                  `json:"hasMore"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"pageSize"`
	Catalog      CatalogStatusResponse `json:"catalog"`
}

// ToProductPageResponse combines a derived result with its cursor and cache state
func ToProductPageResponse(r pipeline.Result, c pipeline.Cursor, e catalog.Entry) *ProductPageResponse {
	return &ProductPageResponse{
		Products:     ToProductResponseList(r.Visible),
		TotalMatches: r.TotalMatches,
		HasMore:      r.HasMore,
		Page:         c.Page,
		PageSize:     c.PageSize,
		Catalog:      ToCatalogStatusResponse(e),
	}
}

// PriceBoundsResponse is the catalog's lowest and highest price
type PriceBoundsResponse struct {
	Lowest  *decimal.Decimal `json:"lowest"`
	Highest *decimal.Decimal `json:"highest"`
}

// QuickViewResponse is the quick view target; Product is nil when the id
// does not resolve against the catalog
type QuickViewResponse struct {
	Open      bool             `json:"open"`
	ProductID *int             `json:"productId"`
	Product   *ProductResponse `json:"product"`
}
