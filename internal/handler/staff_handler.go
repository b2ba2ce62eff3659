package handler

import (
	"net/http"
	"strconv"

	"brewpos/internal/model"
	"brewpos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// StaffHandler handles staff management HTTP requests.
type StaffHandler struct {
	service service.StaffService
	logger  zerolog.Logger
}

// NewStaffHandler creates a new staff handler.
func NewStaffHandler(service service.StaffService, logger zerolog.Logger) *StaffHandler {
	return &StaffHandler{
		service: service,
		logger:  logger.With().Str("handler", "staff").Logger(),
	}
}

type staffRequest struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  model.StaffRole `json:"role"`
}

func (req staffRequest) input() service.StaffInput {
	return service.StaffInput{ID: req.ID, Name: req.Name, Email: req.Email, Role: req.Role}
}

// List handles GET /api/staff?includeInactive=true.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid includeInactive parameter", h.logger)
			return
		}
		includeInactive = v
	}

	staff, err := h.service.List(r.Context(), includeInactive)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, staff)
}

// GetByID handles GET /api/staff/{id}.
func (h *StaffHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	member, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// Create handles POST /api/staff.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	member, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

// Update handles PUT /api/staff/{id}.
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	member, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// SetActive handles PATCH /api/staff/{id}/active with {"isActive": bool}.
func (h *StaffHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.IsActive == nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "isActive is required", h.logger)
		return
	}

	member, err := h.service.SetActive(r.Context(), chi.URLParam(r, "id"), *req.IsActive)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// Delete handles DELETE /api/staff/{id}.
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
