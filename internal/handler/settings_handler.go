package handler

import (
	"net/http"

	"brewpos/internal/model"
	"brewpos/internal/service"

	"github.com/rs/zerolog"
)

// SettingsHandler handles shop settings HTTP requests.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("handler", "settings").Logger(),
	}
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// Update handles PUT /api/settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if !decodeJSON(w, r, &settings, h.logger) {
		return
	}

	saved, err := h.service.Update(r.Context(), &settings)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}
