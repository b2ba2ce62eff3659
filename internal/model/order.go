package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle tag of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// nextStatus is the single forward step allowed from each non-terminal status.
var nextStatus = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusCompleted,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo reports whether the order may move from s to next.
// Orders advance one step at a time; cancelled is reachable from any non-terminal status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() || !next.Valid() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return nextStatus[s] == next
}

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentSplit PaymentMethod = "split"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentSplit
}

// PaymentStatus tracks settlement of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ProductSnapshot holds the priced fields of a product copied when it was added to a cart.
type ProductSnapshot struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// CartLine is one product and variant selection with a quantity.
// UnitPrice is frozen at add time; TotalPrice is always UnitPrice * Quantity.
type CartLine struct {
	ID         string          `json:"id"`
	Product    ProductSnapshot `json:"product"`
	Quantity   int             `json:"quantity"`
	Variants   []Variant       `json:"variants"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Order represents a completed checkout.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	OrderNumber   string          `json:"orderNumber" db:"order_number"`
	Items         []CartLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal" db:"subtotal"`
	TaxRate       decimal.Decimal `json:"taxRate" db:"tax_rate"`
	Tax           decimal.Decimal `json:"tax" db:"tax"`
	Total         decimal.Decimal `json:"total" db:"total"`
	Status        OrderStatus     `json:"status" db:"status"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	PaymentStatus PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	CashierID     string          `json:"cashierId" db:"cashier_id"`
	TableNumber   *int            `json:"tableNumber,omitempty" db:"table_number"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is the stored form of a CartLine.
type OrderItem struct {
	ID         uuid.UUID       `db:"id"`
	OrderID    uuid.UUID       `db:"order_id"`
	Position   int             `db:"position"`
	LineKey    string          `db:"line_key"`
	ProductID  string          `db:"product_id"`
	Name       string          `db:"product_name"`
	BasePrice  decimal.Decimal `db:"base_price"`
	CategoryID string          `db:"category_id"`
	Quantity   int             `db:"quantity"`
	Variants   []Variant       `db:"variants"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
	TotalPrice decimal.Decimal `db:"total_price"`
}

// ItemsFromLines converts cart lines into order items for storage.
func ItemsFromLines(orderID uuid.UUID, lines []CartLine) []OrderItem {
	items := make([]OrderItem, len(lines))
	for i, l := range lines {
		items[i] = OrderItem{
			ID:         uuid.New(),
			OrderID:    orderID,
			Position:   i,
			LineKey:    l.ID,
			ProductID:  l.Product.ID,
			Name:       l.Product.Name,
			BasePrice:  l.Product.Price,
			CategoryID: l.Product.Category,
			Quantity:   l.Quantity,
			Variants:   l.Variants,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.TotalPrice,
		}
	}
	return items
}

// Line converts a stored order item back into its cart line snapshot.
func (it OrderItem) Line() CartLine {
	variants := it.Variants
	if variants == nil {
		variants = []Variant{}
	}
	return CartLine{
		ID: it.LineKey,
		Product: ProductSnapshot{
			ID:       it.ProductID,
			Name:     it.Name,
			Price:    it.BasePrice,
			Category: it.CategoryID,
		},
		Quantity:   it.Quantity,
		Variants:   variants,
		UnitPrice:  it.UnitPrice,
		TotalPrice: it.TotalPrice,
	}
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status OrderStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
