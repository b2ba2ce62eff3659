package repository

import (
	"context"
	"time"

	"brewpos/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access operations.
type ProductRepository interface {
	// GetAll retrieves products matching the filter, ordered by category and name.
	GetAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByBarcode retrieves the active product carrying barcode. Returns nil when absent.
	GetByBarcode(ctx context.Context, barcode string) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update overwrites an existing product.
	Update(ctx context.Context, product *model.Product) error

	// Deactivate hides a product from the till without deleting it.
	Deactivate(ctx context.Context, id string, at time.Time) error

	// Upsert inserts or replaces products in a single transaction.
	Upsert(ctx context.Context, products []model.Product) error

	// ListCategories retrieves categories in display order.
	ListCategories(ctx context.Context, includeInactive bool) ([]model.Category, error)

	// UpsertCategory inserts or replaces a category.
	UpsertCategory(ctx context.Context, category *model.Category) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders newest first, each with its items.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// UpdateStatus moves an order from one status to another.
	// It reports false when the order is no longer in status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, at time.Time) (bool, error)
}

// CashFlowRepository defines the interface for the drawer ledger.
type CashFlowRepository interface {
	Create(ctx context.Context, entry *model.CashFlowEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CashFlowEntry, error)
	List(ctx context.Context, filter model.CashFlowFilter) ([]model.CashFlowEntry, error)
	Update(ctx context.Context, entry *model.CashFlowEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsRepository stores the single shop settings row.
type SettingsRepository interface {
	// Get returns the stored settings, or nil when none have been saved yet.
	Get(ctx context.Context) (*model.Settings, error)

	// Update creates or replaces the settings row.
	Update(ctx context.Context, settings *model.Settings) error
}

// StaffRepository stores the people allowed to sign in to the tills.
type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error

	// GetByID returns nil when no staff member has id.
	GetByID(ctx context.Context, id string) (*model.Staff, error)

	List(ctx context.Context, includeInactive bool) ([]model.Staff, error)

	// Update overwrites name, email and role.
	Update(ctx context.Context, staff *model.Staff) error

	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
