package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brewpos/internal/auth"
	"brewpos/internal/checkout"
	"brewpos/internal/middleware"
	"brewpos/internal/model"
	"brewpos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) Categories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) view(args mock.Arguments) (*service.CartView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

func (m *MockCartService) Open(ctx context.Context, cashierID string) (*service.CartView, error) {
	return m.view(m.Called(ctx, cashierID))
}

func (m *MockCartService) Get(ctx context.Context, id uuid.UUID) (*service.CartView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockCartService) Close(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartService) AddProduct(ctx context.Context, id uuid.UUID, productID string, variantIDs []string) (*service.CartView, error) {
	return m.view(m.Called(ctx, id, productID, variantIDs))
}

func (m *MockCartService) Scan(ctx context.Context, id uuid.UUID, barcode string) (*service.CartView, error) {
	return m.view(m.Called(ctx, id, barcode))
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, id uuid.UUID, lineID string, quantity int) (*service.CartView, error) {
	return m.view(m.Called(ctx, id, lineID, quantity))
}

func (m *MockCartService) RemoveLine(ctx context.Context, id uuid.UUID, lineID string) (*service.CartView, error) {
	return m.view(m.Called(ctx, id, lineID))
}

func (m *MockCartService) Clear(ctx context.Context, id uuid.UUID) (*service.CartView, error) {
	return m.view(m.Called(ctx, id))
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, cartID uuid.UUID, req service.CheckoutRequest) (*checkout.Receipt, error) {
	args := m.Called(ctx, cartID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Receipt), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockCashFlowService is a mock implementation of CashFlowService.
type MockCashFlowService struct {
	mock.Mock
}

func (m *MockCashFlowService) Create(ctx context.Context, in service.CashFlowInput) (*model.CashFlowEntry, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CashFlowEntry), args.Error(1)
}

func (m *MockCashFlowService) List(ctx context.Context, filter model.CashFlowFilter) ([]model.CashFlowEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CashFlowEntry), args.Error(1)
}

func (m *MockCashFlowService) Update(ctx context.Context, id uuid.UUID, in service.CashFlowInput) (*model.CashFlowEntry, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CashFlowEntry), args.Error(1)
}

func (m *MockCashFlowService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCashFlowService) Summary(ctx context.Context, filter model.CashFlowFilter) (*model.CashFlowSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CashFlowSummary), args.Error(1)
}

// MockReportService is a mock implementation of ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesSummary), args.Error(1)
}

// MockSettingsService is a mock implementation of SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) (*model.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, settings *model.Settings) (*model.Settings, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func (m *MockSettingsService) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// call routes one request through a chi router so path parameters resolve. The
// request carries claims for cashier-7 when cashier is true.
func call(t *testing.T, method, pattern, path string, h http.HandlerFunc, body any, cashier bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cashier {
		claims := &auth.Claims{Role: auth.RoleCashier}
		claims.Subject = "cashier-7"
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// errorCode decodes the error code of an error response.
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

// MockStaffService is a mock implementation of StaffService.
type MockStaffService struct {
	mock.Mock
}

func (m *MockStaffService) List(ctx context.Context, includeInactive bool) ([]model.Staff, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Staff), args.Error(1)
}

func (m *MockStaffService) Get(ctx context.Context, id string) (*model.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Staff), args.Error(1)
}

func (m *MockStaffService) Create(ctx context.Context, in service.StaffInput) (*model.Staff, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Staff), args.Error(1)
}

func (m *MockStaffService) Update(ctx context.Context, id string, in service.StaffInput) (*model.Staff, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Staff), args.Error(1)
}

func (m *MockStaffService) SetActive(ctx context.Context, id string, active bool) (*model.Staff, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Staff), args.Error(1)
}

func (m *MockStaffService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStaffService) Active(ctx context.Context, id string) (*model.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Staff), args.Error(1)
}

func (m *MockStaffService) RecordLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
