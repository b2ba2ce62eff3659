package handler

import (
	"net/http"
	"testing"
	"time"

	"brewpos/internal/model"
	"brewpos/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCashFlowHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockErr        error
		expectedStatus int
	}{
		{name: "Cash out", body: `{"type":"out","amount":"18.40","reason":"Milk"}`, expectedStatus: http.StatusCreated},
		{name: "Numeric amount", body: `{"type":"out","amount":18.40,"reason":"Milk"}`, expectedStatus: http.StatusCreated},
		{name: "Rejected", body: `{"type":"out","amount":"18.40","reason":"Milk"}`, mockErr: model.ErrInvalidCashFlow, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCashFlowService)
			h := NewCashFlowHandler(svc, time.UTC, zerolog.Nop())

			matches := mock.MatchedBy(func(in service.CashFlowInput) bool {
				return in.Type == model.CashOut && in.Amount.Equal(dec("18.40")) && in.Reason == "Milk" && in.CashierID == "cashier-7"
			})
			if tt.mockErr != nil {
				svc.On("Create", mock.Anything, matches).Return(nil, tt.mockErr)
			} else {
				svc.On("Create", mock.Anything, matches).Return(&model.CashFlowEntry{ID: uuid.New(), Type: model.CashOut}, nil)
			}

			w := call(t, http.MethodPost, "/api/cashflows", "/api/cashflows", h.Create, tt.body, true)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestCashFlowHandler_ListAndSummary(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	expected := model.CashFlowFilter{Type: model.CashIn, From: &from, To: &to, Search: "float"}

	svc := new(MockCashFlowService)
	h := NewCashFlowHandler(svc, time.UTC, zerolog.Nop())

	svc.On("List", mock.Anything, expected).Return([]model.CashFlowEntry{}, nil)
	svc.On("Summary", mock.Anything, expected).Return(&model.CashFlowSummary{
		TotalIn: dec("100"), TotalOut: dec("0"), Net: dec("100"), Count: 1,
	}, nil)

	query := "?type=in&from=2026-03-01&to=2026-03-01&search=float"

	w := call(t, http.MethodGet, "/api/cashflows", "/api/cashflows"+query, h.List, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, http.MethodGet, "/api/cashflows/summary", "/api/cashflows/summary"+query, h.Summary, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"net":"100"`)

	w = call(t, http.MethodGet, "/api/cashflows", "/api/cashflows?type=sideways", h.List, nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, http.MethodGet, "/api/cashflows", "/api/cashflows?to=soon", h.List, nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestCashFlowHandler_UpdateAndDelete(t *testing.T) {
	svc := new(MockCashFlowService)
	h := NewCashFlowHandler(svc, time.UTC, zerolog.Nop())
	id := uuid.New()
	missing := uuid.New()

	svc.On("Update", mock.Anything, id, mock.AnythingOfType("service.CashFlowInput")).
		Return(&model.CashFlowEntry{ID: id}, nil)
	svc.On("Delete", mock.Anything, id).Return(nil)
	svc.On("Delete", mock.Anything, missing).Return(model.ErrCashFlowNotFound)

	w := call(t, http.MethodPut, "/api/cashflows/{id}", "/api/cashflows/"+id.String(), h.Update,
		`{"type":"in","amount":"50","reason":"Float top-up"}`, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, http.MethodDelete, "/api/cashflows/{id}", "/api/cashflows/"+id.String(), h.Delete, nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = call(t, http.MethodDelete, "/api/cashflows/{id}", "/api/cashflows/"+missing.String(), h.Delete, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
