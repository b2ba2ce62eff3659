package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"brewpos/internal/checkout"
	"brewpos/internal/model"
	"brewpos/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderHandler_Checkout(t *testing.T) {
	cartID := uuid.New()
	path := "/api/carts/" + cartID.String() + "/checkout"
	table := 4
	receipt := &checkout.Receipt{
		Order:  &model.Order{ID: uuid.New(), OrderNumber: "CMD-1772357400000", Total: dec("11.34"), Status: model.OrderStatusCompleted},
		Change: dec("3.66"),
	}

	tests := []struct {
		name           string
		body           any
		expectedReq    service.CheckoutRequest
		mockReturn     *checkout.Receipt
		mockErr        error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Cash with numeric tender",
			body:           `{"paymentMethod":"cash","cashTendered":15.00}`,
			expectedReq:    service.CheckoutRequest{Method: model.PaymentCash, CashTendered: "15.00", CashierID: "cashier-7"},
			mockReturn:     receipt,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Cash with string tender",
			body:           `{"paymentMethod":"cash","cashTendered":"20"}`,
			expectedReq:    service.CheckoutRequest{Method: model.PaymentCash, CashTendered: "20", CashierID: "cashier-7"},
			mockReturn:     receipt,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Queued card order",
			body:           `{"paymentMethod":"card","queue":true,"tableNumber":4}`,
			expectedReq:    service.CheckoutRequest{Method: model.PaymentCard, CashierID: "cashier-7", Queue: true, TableNumber: &table},
			mockReturn:     receipt,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Insufficient cash",
			body:           `{"paymentMethod":"cash","cashTendered":"10.00"}`,
			expectedReq:    service.CheckoutRequest{Method: model.PaymentCash, CashTendered: "10.00", CashierID: "cashier-7"},
			mockErr:        model.ErrInsufficientPayment,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInsufficientPayment,
		},
		{
			name:           "Empty cart",
			body:           `{"paymentMethod":"card"}`,
			expectedReq:    service.CheckoutRequest{Method: model.PaymentCard, CashierID: "cashier-7"},
			mockErr:        model.ErrEmptyCart,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeEmptyCart,
		},
		{
			name:           "Storage failure keeps cart",
			body:           `{"paymentMethod":"card"}`,
			expectedReq:    service.CheckoutRequest{Method: model.PaymentCard, CashierID: "cashier-7"},
			mockErr:        model.NewPersistenceError("commit order", errors.New("connection reset")),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   model.ErrCodePersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			h := NewOrderHandler(svc, time.UTC, zerolog.Nop())

			if tt.mockErr != nil {
				svc.On("Checkout", mock.Anything, cartID, tt.expectedReq).Return(nil, tt.mockErr)
			} else {
				svc.On("Checkout", mock.Anything, cartID, tt.expectedReq).Return(tt.mockReturn, nil)
			}

			w := call(t, http.MethodPost, "/api/carts/{id}/checkout", path, h.Checkout, tt.body, true)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, errorCode(t, w))
			} else {
				assert.Contains(t, w.Body.String(), `"change":"3.66"`)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_List(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	sameDayEnd := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		expectedFilter *model.OrderFilter
		expectedStatus int
	}{
		{
			name:           "No filters",
			expectedFilter: &model.OrderFilter{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Status and range",
			query:          "?status=pending&from=2026-03-01&to=2026-03-02&limit=25",
			expectedFilter: &model.OrderFilter{Status: model.OrderStatusPending, From: &from, To: &to, Limit: 25},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Single day covers the whole day",
			query:          "?from=2026-03-01&to=2026-03-01",
			expectedFilter: &model.OrderFilter{From: &from, To: &sameDayEnd},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Timestamp bound is used as given",
			query:          "?to=2026-03-01T15:30:00Z",
			expectedFilter: &model.OrderFilter{To: &stamp},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bad end date",
			query:          "?to=tomorrow",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown status",
			query:          "?status=lost",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Bad date",
			query:          "?from=yesterday",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			h := NewOrderHandler(svc, time.UTC, zerolog.Nop())

			if tt.expectedFilter != nil {
				svc.On("List", mock.Anything, *tt.expectedFilter).Return([]model.Order{}, nil)
			}

			w := call(t, http.MethodGet, "/api/orders", "/api/orders"+tt.query, h.List, nil, true)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedFilter != nil {
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOrderHandler_GetByID(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, time.UTC, zerolog.Nop())
	id := uuid.New()
	missing := uuid.New()

	svc.On("GetByID", mock.Anything, id).Return(&model.Order{ID: id, OrderNumber: "CMD-1"}, nil)
	svc.On("GetByID", mock.Anything, missing).Return(nil, model.ErrOrderNotFound)

	w := call(t, http.MethodGet, "/api/orders/{id}", "/api/orders/"+id.String(), h.GetByID, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CMD-1")

	w = call(t, http.MethodGet, "/api/orders/{id}", "/api/orders/"+missing.String(), h.GetByID, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, http.MethodGet, "/api/orders/{id}", "/api/orders/invalid-uuid", h.GetByID, nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	id := uuid.New()
	path := "/api/orders/" + id.String() + "/status"

	tests := []struct {
		name           string
		body           string
		status         model.OrderStatus
		mockErr        error
		expectedStatus int
		expectService  bool
	}{
		{name: "Advance", body: `{"status":"preparing"}`, status: model.OrderStatusPreparing, expectedStatus: http.StatusOK, expectService: true},
		{name: "Rejected transition", body: `{"status":"pending"}`, status: model.OrderStatusPending, mockErr: model.ErrInvalidStatusTransition, expectedStatus: http.StatusConflict, expectService: true},
		{name: "Unknown status", body: `{"status":"lost"}`, expectedStatus: http.StatusBadRequest},
		{name: "Missing status", body: `{}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			h := NewOrderHandler(svc, time.UTC, zerolog.Nop())

			if tt.mockErr != nil {
				svc.On("UpdateStatus", mock.Anything, id, tt.status).Return(nil, tt.mockErr)
			} else {
				svc.On("UpdateStatus", mock.Anything, id, tt.status).Return(&model.Order{ID: id, Status: tt.status}, nil)
			}

			w := call(t, http.MethodPatch, "/api/orders/{id}/status", path, h.UpdateStatus, tt.body, true)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
