package handler

import (
	"net/http"
	"time"

	"brewpos/internal/middleware"
	"brewpos/internal/model"
	"brewpos/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CashFlowHandler handles drawer ledger HTTP requests.
type CashFlowHandler struct {
	service  service.CashFlowService
	location *time.Location
	logger   zerolog.Logger
}

// NewCashFlowHandler creates a new cash flow handler.
func NewCashFlowHandler(service service.CashFlowService, loc *time.Location, logger zerolog.Logger) *CashFlowHandler {
	if loc == nil {
		loc = time.Local
	}
	return &CashFlowHandler{
		service:  service,
		location: loc,
		logger:   logger.With().Str("handler", "cashflow").Logger(),
	}
}

type cashFlowRequest struct {
	Type   model.CashFlowType `json:"type"`
	Amount decimal.Decimal    `json:"amount"`
	Reason string             `json:"reason"`
}

func (req cashFlowRequest) input(cashierID string) service.CashFlowInput {
	return service.CashFlowInput{
		Type:      req.Type,
		Amount:    req.Amount,
		Reason:    req.Reason,
		CashierID: cashierID,
	}
}

// filter reads the ledger query parameters, writing a 400 on failure.
func (h *CashFlowHandler) filter(w http.ResponseWriter, r *http.Request) (model.CashFlowFilter, bool) {
	limit, offset, ok := paging(w, r, h.logger)
	if !ok {
		return model.CashFlowFilter{}, false
	}

	q := r.URL.Query()
	filter := model.CashFlowFilter{
		Search: q.Get("search"),
		Limit:  limit,
		Offset: offset,
	}

	if raw := q.Get("type"); raw != "" {
		t := model.CashFlowType(raw)
		if t != model.CashIn && t != model.CashOut {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid type parameter", h.logger)
			return model.CashFlowFilter{}, false
		}
		filter.Type = t
	}

	from, err := queryTime(r, "from", h.location)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid from parameter", h.logger)
		return model.CashFlowFilter{}, false
	}
	filter.From = from

	to, err := queryEnd(r, "to", h.location)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid to parameter", h.logger)
		return model.CashFlowFilter{}, false
	}
	filter.To = to

	return filter, true
}

// List handles GET /api/cashflows.
func (h *CashFlowHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}

	entries, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// Summary handles GET /api/cashflows/summary.
func (h *CashFlowHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Create handles POST /api/cashflows.
func (h *CashFlowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req cashFlowRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	entry, err := h.service.Create(r.Context(), req.input(middleware.CashierFromContext(r.Context())))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Update handles PUT /api/cashflows/{id}.
func (h *CashFlowHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req cashFlowRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	entry, err := h.service.Update(r.Context(), id, req.input(middleware.CashierFromContext(r.Context())))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/cashflows/{id}.
func (h *CashFlowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
