package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/shopping-cart/internal/app/dto"
	"github.com/mrops-br/shopping-cart/internal/app/service"
	"github.com/mrops-br/shopping-cart/internal/domain"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/http/response"
)

// CatalogHandler handles HTTP requests for catalog products
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}
