package handler

import (
	"net/http"
	"time"

	"brewpos/internal/model"
	"brewpos/internal/service"

	"github.com/rs/zerolog"
)

// ReportHandler handles sales report HTTP requests.
type ReportHandler struct {
	service  service.ReportService
	location *time.Location
	now      func() time.Time
	logger   zerolog.Logger
}

// NewReportHandler creates a new report handler. Missing bounds default to today in loc.
func NewReportHandler(service service.ReportService, loc *time.Location, logger zerolog.Logger) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{
		service:  service,
		location: loc,
		now:      time.Now,
		logger:   logger.With().Str("handler", "report").Logger(),
	}
}

// Summary handles GET /api/reports/summary?from=&to=. A date-only to covers that whole day.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, err := queryTime(r, "from", h.location)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid from parameter", h.logger)
		return
	}
	to, err := queryEnd(r, "to", h.location)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid to parameter", h.logger)
		return
	}

	if from == nil {
		now := h.now().In(h.location)
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.location)
		from = &start
	}
	if to == nil {
		end := from.AddDate(0, 0, 1)
		to = &end
	}

	if !to.After(*from) {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "to must be after from", h.logger)
		return
	}

	summary, err := h.service.Summary(r.Context(), *from, *to)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
