package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brewpos/internal/cart"
	"brewpos/internal/checkout"
	"brewpos/internal/model"
	"brewpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 500
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	registry  *cart.Registry
	settings  SettingsService
	finalizer *checkout.Finalizer
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	registry *cart.Registry,
	settings SettingsService,
	numbers *checkout.OrderNumberGenerator,
	logger zerolog.Logger,
) OrderService {
	logger = logger.With().Str("service", "order").Logger()
	store := &txOrderStore{orderRepo: orderRepo, logger: logger}

	return &orderService{
		orderRepo: orderRepo,
		registry:  registry,
		settings:  settings,
		finalizer: checkout.NewFinalizer(store, numbers, logger),
		now:       time.Now,
		logger:    logger,
	}
}

// Checkout finalises the cart of a session into an order. The session stays open
// with an empty cart for the next customer.
func (s *orderService) Checkout(ctx context.Context, cartID uuid.UUID, req CheckoutRequest) (*checkout.Receipt, error) {
	session, err := ownedSession(ctx, s.registry, cartID)
	if err != nil {
		return nil, err
	}

	// The rate is read once so the order keeps the rate it was charged at.
	rate, err := s.settings.TaxRate(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read tax rate")
		return nil, err
	}

	cashierID := req.CashierID
	if cashierID == "" {
		cashierID = session.CashierID
	}

	var receipt *checkout.Receipt
	err = session.Do(func(c *cart.Cart) error {
		var ferr error
		receipt, ferr = s.finalizer.Finalize(ctx, c, checkout.Request{
			TaxRate:      rate,
			Method:       req.Method,
			CashTendered: req.CashTendered,
			CashierID:    cashierID,
			Queue:        req.Queue,
			TableNumber:  req.TableNumber,
			Notes:        req.Notes,
		})
		return ferr
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// List retrieves orders newest first.
func (s *orderService) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultOrderLimit
	}
	if filter.Limit > maxOrderLimit {
		filter.Limit = maxOrderLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus advances or cancels an order.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("rejected status transition")
		return nil, model.ErrInvalidStatusTransition
	}

	now := s.now().UTC()
	ok, err := s.orderRepo.UpdateStatus(ctx, id, order.Status, status, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !ok {
		// Another till moved the order first.
		return nil, model.ErrInvalidStatusTransition
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("order_number", order.OrderNumber).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Msg("order status updated")

	order.Status = status
	order.UpdatedAt = now
	return order, nil
}

// txOrderStore writes an order and its items in one transaction.
type txOrderStore struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

func (st *txOrderStore) SaveOrder(ctx context.Context, order *model.Order) (err error) {
	tx, err := st.orderRepo.BeginTx(ctx)
	if err != nil {
		return model.NewPersistenceError("begin transaction", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, context.Canceled) {
				st.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = st.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return model.NewPersistenceError("create order", err)
	}

	items := model.ItemsFromLines(order.ID, order.Items)
	if err = st.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return model.NewPersistenceError("create order items", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return model.NewPersistenceError("commit order", err)
	}

	return nil
}
