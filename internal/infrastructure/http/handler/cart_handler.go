package handler

import (
	"errors"
	"net/http"

	"github.com/mrops-br/storefront-core/internal/app/dto"
	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/mrops-br/storefront-core/internal/infrastructure/http/response"
)

// GetCart handles GET /cart
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.Cart(r.Context()))
}

// AddCartItem handles POST /cart/items
func (h *StorefrontHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	cart, err := h.service.AddToCart(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(w, http.StatusNotFound, err)
		} else {
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, cart)
}

// SetCartQuantity handles PUT /cart/items/{id}
func (h *StorefrontHandler) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req dto.SetQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}

	response.JSON(w, http.StatusOK, h.service.SetCartQuantity(r.Context(), id, *req.Quantity))
}

// RemoveCartItem handles DELETE /cart/items/{id}
func (h *StorefrontHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	response.JSON(w, http.StatusOK, h.service.RemoveFromCart(r.Context(), id))
}
