package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"brewpos/internal/cart"
	"brewpos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderStore persists a finished order. SaveOrder must write the order and its
// items atomically: on error nothing of the order may be visible to readers.
type OrderStore interface {
	SaveOrder(ctx context.Context, order *model.Order) error
}

// Request describes how a cart is being paid for.
type Request struct {
	TaxRate      decimal.Decimal
	Method       model.PaymentMethod
	CashTendered string
	CashierID    string

	// Queue sends the order to the kitchen as pending instead of completing it at the counter.
	Queue       bool
	TableNumber *int
	Notes       *string
}

// Receipt is the result of a successful checkout.
type Receipt struct {
	Order  *model.Order    `json:"order"`
	Change decimal.Decimal `json:"change"`
}

// OrderNumberGenerator hands out timestamp-derived order numbers that never repeat
// within the process, even when several checkouts land in the same millisecond.
type OrderNumberGenerator struct {
	prefix string

	mu   sync.Mutex
	last int64
}

// NewOrderNumberGenerator creates a generator producing numbers like "CMD-1718000000000".
func NewOrderNumberGenerator(prefix string) *OrderNumberGenerator {
	return &OrderNumberGenerator{prefix: prefix}
}

// Next returns the number for an order created at now.
func (g *OrderNumberGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return fmt.Sprintf("%s-%d", g.prefix, ms)
}

// Finalizer converts a cart into an order.
type Finalizer struct {
	store   OrderStore
	numbers *OrderNumberGenerator
	now     func() time.Time
	logger  zerolog.Logger
}

// NewFinalizer creates a finalizer writing orders to store.
func NewFinalizer(store OrderStore, numbers *OrderNumberGenerator, logger zerolog.Logger) *Finalizer {
	if numbers == nil {
		numbers = NewOrderNumberGenerator("CMD")
	}
	return &Finalizer{
		store:   store,
		numbers: numbers,
		now:     time.Now,
		logger:  logger.With().Str("component", "checkout").Logger(),
	}
}

// Finalize validates payment for c, persists the resulting order and clears c.
//
// The cart is cleared only after the store confirmed the write. Validation and
// storage failures leave it untouched so the cashier can retry.
func (f *Finalizer) Finalize(ctx context.Context, c *cart.Cart, req Request) (*Receipt, error) {
	if c.Len() == 0 {
		return nil, model.ErrEmptyCart
	}

	lines := c.Lines()
	totals := cart.ComputeTotals(lines, req.TaxRate)

	change, err := ValidatePayment(req.Method, totals.Total, req.CashTendered)
	if err != nil {
		f.logger.Warn().
			Err(err).
			Str("payment_method", string(req.Method)).
			Str("total", totals.Total.StringFixed(2)).
			Msg("payment rejected")
		return nil, err
	}

	now := f.now().UTC()
	status := model.OrderStatusCompleted
	if req.Queue {
		status = model.OrderStatusPending
	}

	order := &model.Order{
		ID:            uuid.New(),
		OrderNumber:   f.numbers.Next(now),
		Items:         lines,
		Subtotal:      totals.Subtotal,
		TaxRate:       req.TaxRate,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Status:        status,
		PaymentMethod: req.Method,
		PaymentStatus: model.PaymentStatusPaid,
		CashierID:     req.CashierID,
		TableNumber:   req.TableNumber,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := ctx.Err(); err != nil {
		return nil, model.NewPersistenceError("save order", err)
	}

	if err := f.store.SaveOrder(ctx, order); err != nil {
		f.logger.Error().
			Err(err).
			Str("order_number", order.OrderNumber).
			Msg("failed to persist order, cart kept for retry")

		var pe *model.PersistenceError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, model.NewPersistenceError("save order", err)
	}

	c.Clear()

	f.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("status", string(order.Status)).
		Str("total", order.Total.StringFixed(2)).
		Int("line_count", len(order.Items)).
		Msg("order finalized")

	return &Receipt{Order: order, Change: change}, nil
}
