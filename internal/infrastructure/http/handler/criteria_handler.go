package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/storefront-core/internal/app/dto"
	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/mrops-br/storefront-core/internal/infrastructure/http/response"
	"github.com/shopspring/decimal"
)

var errNegativePrice = errors.New("price bounds must not be negative")

// GetCriteria handles GET /criteria
func (h *StorefrontHandler) GetCriteria(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.Criteria(r.Context()))
}

// SortOptions handles GET /criteria/sort-options
func (h *StorefrontHandler) SortOptions(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.SortOptions(r.Context()))
}

// SetCategories handles PUT /criteria/categories
func (h *StorefrontHandler) SetCategories(w http.ResponseWriter, r *http.Request) {
	var req dto.SetCategoriesRequest
	if !h.decode(w, r, &req) {
		return
	}
	response.JSON(w, http.StatusOK, h.service.SetCategories(r.Context(), req.Categories))
}

// ToggleCategory handles POST /criteria/categories/{category}/toggle
func (h *StorefrontHandler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	category, err := pathParam(r, "category")
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	response.JSON(w, http.StatusOK, h.service.ToggleCategory(r.Context(), category))
}

// pathParam returns the decoded URL parameter. chi matches on RawPath when
// the client's escaping differs from Go's (an unescaped apostrophe, for
// instance), in which case the parameter is still percent-encoded.
func pathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, nil
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}
	return decoded, nil
}

// SetPriceRange handles PUT /criteria/price
func (h *StorefrontHandler) SetPriceRange(w http.ResponseWriter, r *http.Request) {
	var req dto.SetPriceRangeRequest
	if !h.decode(w, r, &req) {
		return
	}

	priceRange := domain.PriceRange{Min: decimal.Zero, Max: req.Max}
	if req.Min != nil {
		priceRange.Min = *req.Min
	}
	if priceRange.Min.IsNegative() || (priceRange.Max != nil && priceRange.Max.IsNegative()) {
		response.Error(w, http.StatusBadRequest, errNegativePrice)
		return
	}

	response.JSON(w, http.StatusOK, h.service.SetPriceRange(r.Context(), priceRange))
}

// SetRating handles PUT /criteria/rating
func (h *StorefrontHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	var req dto.SetRatingRequest
	if !h.decode(w, r, &req) {
		return
	}
	response.JSON(w, http.StatusOK, h.service.SetRating(r.Context(), req.Rating, req.Toggle))
}

// SetSearch handles PUT /criteria/search
func (h *StorefrontHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req dto.SetSearchRequest
	if !h.decode(w, r, &req) {
		return
	}
	response.JSON(w, http.StatusOK, h.service.SetSearch(r.Context(), req.Search))
}

// SetSort handles PUT /criteria/sort
func (h *StorefrontHandler) SetSort(w http.ResponseWriter, r *http.Request) {
	var req dto.SetSortRequest
	if !h.decode(w, r, &req) {
		return
	}

	state, err := h.service.SetSort(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownSortOption) {
			response.Error(w, http.StatusBadRequest, err)
		} else {
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, state)
}

// SetViewMode handles PUT /criteria/view
func (h *StorefrontHandler) SetViewMode(w http.ResponseWriter, r *http.Request) {
	var req dto.SetViewModeRequest
	if !h.decode(w, r, &req) {
		return
	}

	state, err := h.service.SetViewMode(r.Context(), req.ViewMode)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	response.JSON(w, http.StatusOK, state)
}

// ResetFilters handles DELETE /criteria
func (h *StorefrontHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.ResetFilters(r.Context()))
}
