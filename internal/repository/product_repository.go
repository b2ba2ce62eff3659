package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brewpos/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, price, category_id, variants, is_active, barcode, stock, created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Variants,
		&p.IsActive,
		&p.Barcode,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Variants == nil {
		p.Variants = []model.Variant{}
	}
	return &p, nil
}

func variantsOrEmpty(v []model.Variant) []model.Variant {
	if v == nil {
		return []model.Variant{}
	}
	return v
}

// GetAll retrieves products matching the filter, ordered by category and name.
func (r *productRepository) GetAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1::text = '' OR category_id = $1::text)
		  AND ($2::boolean OR is_active)
		  AND ($3::text = ''
		       OR name ILIKE '%' || $3::text || '%'
		       OR description ILIKE '%' || $3::text || '%'
		       OR barcode = $3::text)
		ORDER BY category_id, name
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query,
		filter.Category,
		filter.IncludeInactive,
		filter.Search,
		limitArg(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("category", filter.Category).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetByBarcode retrieves the active product carrying barcode.
func (r *productRepository) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1 AND is_active`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("barcode", barcode).Msg("no active product for barcode")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to query product by barcode")
		return nil, fmt.Errorf("failed to query product by barcode: %w", err)
	}

	return p, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Category, variantsOrEmpty(p.Variants),
		p.IsActive, p.Barcode, p.Stock, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if mapped := r.mapWriteError(err, p.ID); mapped != nil {
			return mapped
		}
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID).Msg("product created successfully")
	return nil
}

// Update overwrites an existing product. CreatedAt is left as stored.
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category_id = $5, variants = $6,
		    is_active = $7, barcode = $8, stock = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Category, variantsOrEmpty(p.Variants),
		p.IsActive, p.Barcode, p.Stock, p.UpdatedAt,
	)
	if err != nil {
		if mapped := r.mapWriteError(err, p.ID); mapped != nil {
			return mapped
		}
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// Deactivate hides a product from the till without deleting it.
func (r *productRepository) Deactivate(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to deactivate product")
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	r.logger.Info().Str("product_id", id).Msg("product deactivated")
	return nil
}

// Upsert inserts or replaces products in a single transaction.
func (r *productRepository) Upsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    price = EXCLUDED.price,
		    category_id = EXCLUDED.category_id,
		    variants = EXCLUDED.variants,
		    is_active = EXCLUDED.is_active,
		    barcode = EXCLUDED.barcode,
		    stock = EXCLUDED.stock,
		    updated_at = EXCLUDED.updated_at
	`

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, p := range products {
			batch.Queue(query,
				p.ID, p.Name, p.Description, p.Price, p.Category, variantsOrEmpty(p.Variants),
				p.IsActive, p.Barcode, p.Stock, p.CreatedAt, p.UpdatedAt,
			)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for i := range products {
			if _, err := results.Exec(); err != nil {
				if mapped := r.mapWriteError(err, products[i].ID); mapped != nil {
					return mapped
				}
				return fmt.Errorf("failed to upsert product %s: %w", products[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(products)).Msg("failed to upsert products")
		return err
	}

	r.logger.Info().Int("count", len(products)).Msg("products upserted")
	return nil
}

// ListCategories retrieves categories in display order.
func (r *productRepository) ListCategories(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	query := `
		SELECT id, name, description, sort_order, is_active
		FROM categories
		WHERE $1::boolean OR is_active
		ORDER BY sort_order, name
	`

	rows, err := r.pool.Query(ctx, query, includeInactive)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.SortOrder, &c.IsActive); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// UpsertCategory inserts or replaces a category.
func (r *productRepository) UpsertCategory(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (id, name, description, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    sort_order = EXCLUDED.sort_order,
		    is_active = EXCLUDED.is_active
	`

	if _, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Description, c.SortOrder, c.IsActive); err != nil {
		r.logger.Error().Err(err).Str("category_id", c.ID).Msg("failed to upsert category")
		return fmt.Errorf("failed to upsert category: %w", err)
	}

	return nil
}

// mapWriteError turns unique violations into domain errors. It returns nil for other errors.
func (r *productRepository) mapWriteError(err error, productID string) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return nil
	}

	r.logger.Warn().
		Str("product_id", productID).
		Str("constraint", constraint).
		Msg("unique constraint rejected product write")

	if constraint == constraintActiveBarcode {
		return model.ErrDuplicateBarcode
	}
	return fmt.Errorf("%w: product %s already exists", model.ErrInvalidProduct, productID)
}
