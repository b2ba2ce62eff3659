package handler

import (
	"net/http"
	"strconv"
	"strings"

	"brewpos/internal/model"
	"brewpos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := paging(w, r, h.logger)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := model.ProductFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   offset,
	}

	if raw := q.Get("includeInactive"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid includeInactive parameter", h.logger)
			return
		}
		filter.IncludeInactive = include
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// GetByBarcode handles GET /api/products/barcode/{barcode}.
func (h *ProductHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByBarcode(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if !decodeJSON(w, r, &product, h.logger) {
		return
	}

	created, err := h.service.Create(r.Context(), &product)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/products/{id}. The path id wins over any id in the body.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if !decodeJSON(w, r, &product, h.logger) {
		return
	}
	product.ID = chi.URLParam(r, "id")

	updated, err := h.service.Update(r.Context(), &product)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Deactivate handles DELETE /api/products/{id}.
func (h *ProductHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Categories handles GET /api/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}
