package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brewpos/internal/model"
	"brewpos/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultProductLimit = 50
	maxProductLimit     = 500
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	now         func() time.Time
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		now:         time.Now,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products matching the filter with pagination.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultProductLimit
	}
	if filter.Limit > maxProductLimit {
		filter.Limit = maxProductLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Search = strings.TrimSpace(filter.Search)

	products, err := s.productRepo.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Str("category", filter.Category).
		Str("search", filter.Search).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// GetByBarcode retrieves the active product carrying barcode.
func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		s.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to get product by barcode")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates and stores a new product.
func (s *productService) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := product.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("product_id", product.ID).Msg("rejected invalid product")
		return nil, err
	}

	now := s.now().UTC()
	created := *product
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := s.productRepo.Create(ctx, &created); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Msg("product created")
	return &created, nil
}

// Update validates and overwrites an existing product.
func (s *productService) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := product.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("product_id", product.ID).Msg("rejected invalid product")
		return nil, err
	}

	existing, err := s.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	updated := *product
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	if err := s.productRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", updated.ID).Msg("product updated")
	return &updated, nil
}

// Deactivate removes a product from sale. Past orders keep their snapshot.
func (s *productService) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrProductNotFound
	}
	return s.productRepo.Deactivate(ctx, id, s.now().UTC())
}

// Categories lists active categories in display order.
func (s *productService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.productRepo.ListCategories(ctx, false)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}
