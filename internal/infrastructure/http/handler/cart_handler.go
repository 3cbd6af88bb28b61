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

// CartHandler exposes the session cart as JSON.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.GetCart(r.Context()))
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	cart, err := h.service.AddItem(r.Context(), &req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, cart)
}

// UpdateItem handles PUT /cart/items/{id}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}

	cart := h.service.UpdateItemQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	response.JSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.RemoveItem(r.Context(), chi.URLParam(r, "id")))
}

// ApplyAction handles POST /cart/items/{id}/actions/{action}
func (h *CartHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	action, err := domain.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, h.service.Dispatch(r.Context(), chi.URLParam(r, "id"), action))
}

func (h *CartHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
		return false
	}
	return true
}
