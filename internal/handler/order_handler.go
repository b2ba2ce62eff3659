package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"brewpos/internal/middleware"
	"brewpos/internal/model"
	"brewpos/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order HTTP requests.
type OrderHandler struct {
	service  service.OrderService
	location *time.Location
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler. Date-only query parameters are read in loc.
func NewOrderHandler(service service.OrderService, loc *time.Location, logger zerolog.Logger) *OrderHandler {
	if loc == nil {
		loc = time.Local
	}
	return &OrderHandler{
		service:  service,
		location: loc,
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

type checkoutRequest struct {
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	// CashTendered accepts a JSON number or string; unparseable text fails payment validation.
	CashTendered json.RawMessage `json:"cashTendered"`
	Queue        bool            `json:"queue"`
	TableNumber  *int            `json:"tableNumber"`
	Notes        *string         `json:"notes"`
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// tendered returns the raw amount text of a cashTendered value.
func tendered(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return text
}

// Checkout handles POST /api/carts/{id}/checkout.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req checkoutRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	receipt, err := h.service.Checkout(r.Context(), id, service.CheckoutRequest{
		Method:       req.PaymentMethod,
		CashTendered: tendered(req.CashTendered),
		CashierID:    middleware.CashierFromContext(r.Context()),
		Queue:        req.Queue,
		TableNumber:  req.TableNumber,
		Notes:        req.Notes,
	})
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := paging(w, r, h.logger)
	if !ok {
		return
	}

	filter := model.OrderFilter{Limit: limit, Offset: offset}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := model.OrderStatus(raw)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid status parameter", h.logger)
			return
		}
		filter.Status = status
	}

	var err error
	if filter.From, err = queryTime(r, "from", h.location); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid from parameter", h.logger)
		return
	}
	if filter.To, err = queryEnd(r, "to", h.location); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid to parameter", h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req statusRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid status", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
