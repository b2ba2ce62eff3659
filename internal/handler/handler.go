package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"brewpos/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// statusByCode maps domain error codes to HTTP status codes.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:             http.StatusBadRequest,
	model.ErrCodeMissingField:            http.StatusBadRequest,
	model.ErrCodeInvalidParameter:        http.StatusBadRequest,
	model.ErrCodeEmptyCart:               http.StatusBadRequest,
	model.ErrCodeInsufficientPayment:     http.StatusBadRequest,
	model.ErrCodeInvalidPaymentMethod:    http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:         http.StatusBadRequest,
	model.ErrCodeVariantNotFound:         http.StatusBadRequest,
	model.ErrCodeDuplicateVariant:        http.StatusBadRequest,
	model.ErrCodeInvalidProduct:          http.StatusBadRequest,
	model.ErrCodeInvalidCashFlow:         http.StatusBadRequest,
	model.ErrCodeInvalidSettings:         http.StatusBadRequest,
	model.ErrCodeInvalidStaff:            http.StatusBadRequest,
	model.ErrCodeProductNotFound:         http.StatusNotFound,
	model.ErrCodeCartNotFound:            http.StatusNotFound,
	model.ErrCodeLineNotFound:            http.StatusNotFound,
	model.ErrCodeOrderNotFound:           http.StatusNotFound,
	model.ErrCodeCashFlowNotFound:        http.StatusNotFound,
	model.ErrCodeStaffNotFound:           http.StatusNotFound,
	model.ErrCodeProductInactive:         http.StatusConflict,
	model.ErrCodeDuplicateBarcode:        http.StatusConflict,
	model.ErrCodeDuplicateOrderNumber:    http.StatusConflict,
	model.ErrCodeInvalidStatusTransition: http.StatusConflict,
	model.ErrCodeDuplicateStaff:          http.StatusConflict,
	model.ErrCodeStaffSelfChange:         http.StatusConflict,
	model.ErrCodeUnauthorised:            http.StatusUnauthorized,
	model.ErrCodeForbidden:               http.StatusForbidden,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The header is already sent; an encode failure cannot be reported to the client.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError translates a service error into a response.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeError(w, status, de.Code, err.Error(), logger)
		return
	}

	var pe *model.PersistenceError
	if errors.As(err, &pe) {
		logger.Error().Err(err).Str("op", pe.Op).Msg("persistence failure")
		writeError(w, http.StatusServiceUnavailable, model.ErrCodePersistence,
			"the order could not be saved; the cart was kept, please retry", logger)
		return
	}

	logger.Error().Err(err).Msg("unexpected service error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// decodeJSON reads the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// uuidParam parses the named path parameter, writing a 400 on failure.
func uuidParam(w http.ResponseWriter, r *http.Request, name string, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid "+name, logger)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// queryTime parses an optional RFC 3339 timestamp or a date in loc.
func queryTime(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryEnd parses an exclusive upper bound. A bare date means the end of that day
// in loc, so from=D&to=D covers all of D.
func queryEnd(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	end, err := queryTime(r, name, loc)
	if err != nil || end == nil {
		return end, err
	}
	if len(strings.TrimSpace(r.URL.Query().Get(name))) == len(time.DateOnly) {
		next := end.AddDate(0, 0, 1)
		end = &next
	}
	return end, nil
}

// paging reads limit and offset, writing a 400 on failure.
func paging(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (limit, offset int, ok bool) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid limit parameter", logger)
		return 0, 0, false
	}
	offset, err = queryInt(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid offset parameter", logger)
		return 0, 0, false
	}
	return limit, offset, true
}
