package service

import (
	"context"
	"errors"
	"fmt"

	"brewpos/internal/auth"
	"brewpos/internal/cart"
	"brewpos/internal/model"
	"brewpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type cartService struct {
	registry    *cart.Registry
	productRepo repository.ProductRepository
	settings    SettingsService
	logger      zerolog.Logger
}

// NewCartService creates a cart service over the sessions in registry.
func NewCartService(
	registry *cart.Registry,
	productRepo repository.ProductRepository,
	settings SettingsService,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		registry:    registry,
		productRepo: productRepo,
		settings:    settings,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Open(ctx context.Context, cashierID string) (*CartView, error) {
	session := s.registry.Open(cashierID)
	s.logger.Info().
		Str("cart_id", session.ID.String()).
		Str("cashier_id", cashierID).
		Msg("cart opened")
	return s.view(ctx, session)
}

func (s *cartService) Get(ctx context.Context, id uuid.UUID) (*CartView, error) {
	session, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

func (s *cartService) Close(ctx context.Context, id uuid.UUID) error {
	if _, err := s.session(ctx, id); err != nil {
		return err
	}
	if !s.registry.Close(id) {
		return model.ErrCartNotFound
	}
	s.logger.Info().Str("cart_id", id.String()).Msg("cart closed")
	return nil
}

func (s *cartService) AddProduct(ctx context.Context, id uuid.UUID, productID string, variantIDs []string) (*CartView, error) {
	session, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return s.add(ctx, session, product, variantIDs)
}

func (s *cartService) Scan(ctx context.Context, id uuid.UUID, barcode string) (*CartView, error) {
	session, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("barcode", barcode).Msg("scanned barcode not in catalogue")
	}

	return s.add(ctx, session, product, nil)
}

// add checks product is sellable and resolves variantIDs against it before touching the cart.
func (s *cartService) add(ctx context.Context, session *cart.Session, product *model.Product, variantIDs []string) (*CartView, error) {
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	if !product.IsActive {
		return nil, model.ErrProductInactive
	}

	variants := make([]model.Variant, 0, len(variantIDs))
	picked := make(map[string]struct{}, len(variantIDs))
	for _, vid := range variantIDs {
		if _, dup := picked[vid]; dup {
			return nil, model.ErrDuplicateVariant
		}
		picked[vid] = struct{}{}

		v, ok := product.Variant(vid)
		if !ok {
			s.logger.Warn().
				Str("product_id", product.ID).
				Str("variant_id", vid).
				Msg("unknown variant requested")
			return nil, model.ErrVariantNotFound
		}
		variants = append(variants, v)
	}

	var line model.CartLine
	_ = session.Do(func(c *cart.Cart) error {
		line = c.AddLine(*product, variants...)
		return nil
	})

	s.logger.Debug().
		Str("cart_id", session.ID.String()).
		Str("line_id", line.ID).
		Int("quantity", line.Quantity).
		Msg("line added")

	return s.view(ctx, session)
}

func (s *cartService) UpdateQuantity(ctx context.Context, id uuid.UUID, lineID string, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}

	session, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}

	err = session.Do(func(c *cart.Cart) error {
		if !c.UpdateQuantity(lineID, quantity) {
			return model.ErrLineNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.view(ctx, session)
}

func (s *cartService) RemoveLine(ctx context.Context, id uuid.UUID, lineID string) (*CartView, error) {
	session, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}

	err = session.Do(func(c *cart.Cart) error {
		if !c.RemoveLine(lineID) {
			return model.ErrLineNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.view(ctx, session)
}

func (s *cartService) Clear(ctx context.Context, id uuid.UUID) (*CartView, error) {
	session, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = session.Do(func(c *cart.Cart) error {
		c.Clear()
		return nil
	})

	return s.view(ctx, session)
}

func (s *cartService) session(ctx context.Context, id uuid.UUID) (*cart.Session, error) {
	session, err := ownedSession(ctx, s.registry, id)
	if errors.Is(err, model.ErrCartNotOwned) {
		s.logger.Warn().
			Str("cart_id", id.String()).
			Str("owner", session.CashierID).
			Msg("cart access by another cashier refused")
	}
	return session, err
}

// ownedSession looks up a session and checks that the caller in ctx owns it.
// Callers without claims are internal and pass.
func ownedSession(ctx context.Context, registry *cart.Registry, id uuid.UUID) (*cart.Session, error) {
	session, ok := registry.Get(id)
	if !ok {
		return nil, model.ErrCartNotFound
	}
	if claims, ok := auth.ClaimsFromContext(ctx); ok && !claims.CanAccess(session.CashierID) {
		return session, model.ErrCartNotOwned
	}
	return session, nil
}

// view prices a snapshot of the session's cart at the current tax rate.
func (s *cartService) view(ctx context.Context, session *cart.Session) (*CartView, error) {
	rate, err := s.settings.TaxRate(ctx)
	if err != nil {
		return nil, err
	}

	v := &CartView{
		ID:        session.ID,
		CashierID: session.CashierID,
		OpenedAt:  session.OpenedAt,
		TaxRate:   rate,
	}

	_ = session.Do(func(c *cart.Cart) error {
		v.Lines = c.Lines()
		v.ItemCount = c.ItemCount()
		totals := cart.ComputeTotals(v.Lines, rate)
		v.Subtotal = totals.Subtotal
		v.Tax = totals.Tax
		v.Total = totals.Total
		return nil
	})

	return v, nil
}
