package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/shopping-cart/internal/infrastructure/http/response"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/render"
)

// PageHandler serves the rendered cart and its clickable controls.
type PageHandler struct {
	renderer *render.Renderer
	binder   *render.Binder
	logger   *slog.Logger
}

// NewPageHandler creates a handler serving the rendered cart page
func NewPageHandler(renderer *render.Renderer, binder *render.Binder, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		renderer: renderer,
		binder:   binder,
		logger:   logger,
	}
}

// Show handles GET /
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render page",
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Act handles POST /actions/{id}/{action} from the page's controls.
func (h *PageHandler) Act(w http.ResponseWriter, r *http.Request) {
	if err := h.binder.Bind(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "action")); err != nil {
		response.Error(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
