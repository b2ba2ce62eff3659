package handler

import (
	"net/http"
	"strings"

	"brewpos/internal/middleware"
	"brewpos/internal/model"
	"brewpos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles till cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type addLineRequest struct {
	ProductID  string   `json:"productId"`
	VariantIDs []string `json:"variantIds"`
}

type scanRequest struct {
	Barcode string `json:"barcode"`
}

type updateLineRequest struct {
	Quantity *int `json:"quantity"`
}

// Open handles POST /api/carts. The cart belongs to the authenticated cashier.
func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Open(r.Context(), middleware.CashierFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /api/carts/{id}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Close handles DELETE /api/carts/{id}.
func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.service.Close(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddLine handles POST /api/carts/{id}/lines.
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req addLineRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "productId is required", h.logger)
		return
	}

	view, err := h.service.AddProduct(r.Context(), id, req.ProductID, req.VariantIDs)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Scan handles POST /api/carts/{id}/scan.
func (h *CartHandler) Scan(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req scanRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	barcode := strings.TrimSpace(req.Barcode)
	if barcode == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "barcode is required", h.logger)
		return
	}

	view, err := h.service.Scan(r.Context(), id, barcode)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// UpdateLine handles PATCH /api/carts/{id}/lines/{lineId}.
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req updateLineRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "quantity is required", h.logger)
		return
	}

	view, err := h.service.UpdateQuantity(r.Context(), id, chi.URLParam(r, "lineId"), *req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// RemoveLine handles DELETE /api/carts/{id}/lines/{lineId}.
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	view, err := h.service.RemoveLine(r.Context(), id, chi.URLParam(r, "lineId"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Clear handles POST /api/carts/{id}/clear.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	view, err := h.service.Clear(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
