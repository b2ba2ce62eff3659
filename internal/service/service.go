package service

import (
	"context"
	"time"

	"brewpos/internal/checkout"
	"brewpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// List retrieves products matching the filter with pagination.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByBarcode retrieves the active product carrying barcode.
	GetByBarcode(ctx context.Context, barcode string) (*model.Product, error)

	// Create validates and stores a new product.
	Create(ctx context.Context, product *model.Product) (*model.Product, error)

	// Update validates and overwrites an existing product.
	Update(ctx context.Context, product *model.Product) (*model.Product, error)

	// Deactivate removes a product from sale.
	Deactivate(ctx context.Context, id string) error

	// Categories lists active categories in display order.
	Categories(ctx context.Context) ([]model.Category, error)
}

// CartService manages the open carts of the tills.
type CartService interface {
	Open(ctx context.Context, cashierID string) (*CartView, error)
	Get(ctx context.Context, id uuid.UUID) (*CartView, error)
	Close(ctx context.Context, id uuid.UUID) error

	// AddProduct adds one unit of a catalogue product with the selected variants.
	AddProduct(ctx context.Context, id uuid.UUID, productID string, variantIDs []string) (*CartView, error)

	// Scan adds one unit of the active product carrying barcode.
	Scan(ctx context.Context, id uuid.UUID, barcode string) (*CartView, error)

	// UpdateQuantity sets a line's quantity; zero removes the line.
	UpdateQuantity(ctx context.Context, id uuid.UUID, lineID string, quantity int) (*CartView, error)

	RemoveLine(ctx context.Context, id uuid.UUID, lineID string) (*CartView, error)
	Clear(ctx context.Context, id uuid.UUID) (*CartView, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Checkout finalises the cart of a session into an order.
	Checkout(ctx context.Context, cartID uuid.UUID, req CheckoutRequest) (*checkout.Receipt, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders newest first.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// UpdateStatus advances or cancels an order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// CashFlowService manages manual drawer movements.
type CashFlowService interface {
	Create(ctx context.Context, entry CashFlowInput) (*model.CashFlowEntry, error)
	List(ctx context.Context, filter model.CashFlowFilter) ([]model.CashFlowEntry, error)
	Update(ctx context.Context, id uuid.UUID, entry CashFlowInput) (*model.CashFlowEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, filter model.CashFlowFilter) (*model.CashFlowSummary, error)
}

// ReportService aggregates sales.
type ReportService interface {
	// Summary covers completed orders created in [from, to).
	Summary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error)
}

// SettingsService reads and writes shop settings.
type SettingsService interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, settings *model.Settings) (*model.Settings, error)

	// TaxRate returns the rate applied to carts right now.
	TaxRate(ctx context.Context) (decimal.Decimal, error)
}

// StaffService manages who may sign in to the tills.
type StaffService interface {
	List(ctx context.Context, includeInactive bool) ([]model.Staff, error)
	Get(ctx context.Context, id string) (*model.Staff, error)
	Create(ctx context.Context, in StaffInput) (*model.Staff, error)

	// Update edits name, email and role. The id is fixed at creation.
	Update(ctx context.Context, id string, in StaffInput) (*model.Staff, error)

	SetActive(ctx context.Context, id string, active bool) (*model.Staff, error)
	Delete(ctx context.Context, id string) error

	// Active returns the staff member behind a token, failing with
	// model.ErrUnauthorised when they are unknown or deactivated.
	Active(ctx context.Context, id string) (*model.Staff, error)

	// RecordLogin stamps the staff member's last sign-in.
	RecordLogin(ctx context.Context, id string) error
}

// CartView is a cart priced at the current tax rate.
type CartView struct {
	ID        uuid.UUID        `json:"id"`
	CashierID string           `json:"cashierId"`
	OpenedAt  time.Time        `json:"openedAt"`
	Lines     []model.CartLine `json:"lines"`
	ItemCount int              `json:"itemCount"`
	TaxRate   decimal.Decimal  `json:"taxRate"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Tax       decimal.Decimal  `json:"tax"`
	Total     decimal.Decimal  `json:"total"`
}

// CheckoutRequest carries the payment details entered at the till.
type CheckoutRequest struct {
	Method       model.PaymentMethod
	CashTendered string
	CashierID    string
	Queue        bool
	TableNumber  *int
	Notes        *string
}

// CashFlowInput is the editable part of a ledger entry.
type CashFlowInput struct {
	Type      model.CashFlowType
	Amount    decimal.Decimal
	Reason    string
	CashierID string
}

// StaffInput is the editable part of a staff member.
type StaffInput struct {
	ID    string
	Name  string
	Email string
	Role  model.StaffRole
}
