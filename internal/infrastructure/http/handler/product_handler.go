package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/storefront-core/internal/app/service"
	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/mrops-br/storefront-core/internal/infrastructure/http/request"
	"github.com/mrops-br/storefront-core/internal/infrastructure/http/response"
)

var errInvalidID = errors.New("id must be a positive integer")

// StorefrontHandler handles HTTP requests for the storefront
type StorefrontHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(service *service.StorefrontService, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /products
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.ListProducts(r.Context()))
}

// GetProduct handles GET /products/{id}
func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(w, http.StatusNotFound, err)
		} else {
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// PriceBounds handles GET /products/price-bounds
func (h *StorefrontHandler) PriceBounds(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.PriceBounds(r.Context()))
}

// RefreshCatalog handles POST /catalog/refresh
func (h *StorefrontHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.RefreshCatalog(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrFetchFailed) {
			response.ErrorWithDetails(w, http.StatusBadGateway, err, status)
		} else {
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, status)
}

// InvalidateCatalog handles POST /catalog/invalidate
func (h *StorefrontHandler) InvalidateCatalog(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.InvalidateCatalog(r.Context()))
}

// ListCategories handles GET /categories
func (h *StorefrontHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.Categories(r.Context()))
}

// LoadMore handles POST /pagination/more
func (h *StorefrontHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.LoadMore(r.Context()))
}

// ResetPage handles POST /pagination/reset
func (h *StorefrontHandler) ResetPage(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.ResetPage(r.Context()))
}

// productID parses the {id} URL parameter, writing a 400 on failure
func (h *StorefrontHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		response.Error(w, http.StatusBadRequest, errInvalidID)
		return 0, false
	}
	return id, true
}

// decode decodes and validates a JSON body, writing a 400 on failure
func (h *StorefrontHandler) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	err := request.DecodeJSON(r, dest)
	if err == nil {
		return true
	}

	h.logger.WarnContext(r.Context(), "Rejected request body",
		slog.String("error", err.Error()),
	)
	var verr *request.ValidationError
	if errors.As(err, &verr) {
		response.ErrorWithDetails(w, http.StatusBadRequest, err, verr.Fields)
		return false
	}
	response.Error(w, http.StatusBadRequest, err)
	return false
}
