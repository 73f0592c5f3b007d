package handler

import (
	"net/http"

	"github.com/mrops-br/storefront-core/internal/infrastructure/http/response"
)

// GetUI handles GET /ui
func (h *StorefrontHandler) GetUI(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.UI(r.Context()))
}

// ToggleMobileFilter handles POST /ui/mobile-filter/toggle
func (h *StorefrontHandler) ToggleMobileFilter(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.ToggleMobileFilter(r.Context()))
}

// ToggleCart handles POST /ui/cart/toggle
func (h *StorefrontHandler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.ToggleCart(r.Context()))
}

// GetQuickView handles GET /ui/quick-view
func (h *StorefrontHandler) GetQuickView(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.QuickView(r.Context()))
}

// OpenQuickView handles POST /ui/quick-view/{id}. An id missing from the
// catalog opens the quick view with a null product.
func (h *StorefrontHandler) OpenQuickView(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, h.service.OpenQuickView(r.Context(), id))
}

// CloseQuickView handles DELETE /ui/quick-view
func (h *StorefrontHandler) CloseQuickView(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.CloseQuickView(r.Context()))
}
