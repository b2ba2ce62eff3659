package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brewpos/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Store receives imported catalogue entries.
type Store interface {
	UpsertCategory(ctx context.Context, category *model.Category) error
	Upsert(ctx context.Context, products []model.Product) error
}

// Result reports what an import wrote.
type Result struct {
	Files      int
	Categories int
	Products   int
}

// Importer loads catalogue files and writes them to a store.
type Importer struct {
	loader Loader
	store  Store
	now    func() time.Time
	logger zerolog.Logger
}

// NewImporter creates an importer.
func NewImporter(loader Loader, store Store, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import loads every path concurrently, merges them in argument order and upserts the result.
// When two files carry the same id the later file wins. Nothing is written if any file fails
// to load or any product is invalid.
func (im *Importer) Import(ctx context.Context, paths ...string) (*Result, error) {
	batches := make([]*Batch, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			batch, err := im.loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load catalogue file %s: %w", path, err)
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		im.logger.Error().Err(err).Msg("catalogue import aborted")
		return nil, err
	}

	categories, products := merge(batches)

	if err := validate(products); err != nil {
		im.logger.Error().Err(err).Msg("catalogue rejected")
		return nil, err
	}

	now := im.now().UTC()
	for i := range products {
		if products[i].CreatedAt.IsZero() {
			products[i].CreatedAt = now
		}
		products[i].UpdatedAt = now
	}

	for i := range categories {
		if err := im.store.UpsertCategory(ctx, &categories[i]); err != nil {
			return nil, fmt.Errorf("failed to import category %s: %w", categories[i].ID, err)
		}
	}

	if len(products) > 0 {
		if err := im.store.Upsert(ctx, products); err != nil {
			return nil, fmt.Errorf("failed to import products: %w", err)
		}
	}

	result := &Result{Files: len(paths), Categories: len(categories), Products: len(products)}

	im.logger.Info().
		Int("files", result.Files).
		Int("categories", result.Categories).
		Int("products", result.Products).
		Msg("catalogue imported")

	return result, nil
}

// merge flattens batches keeping the first position of each id and the last value.
func merge(batches []*Batch) ([]model.Category, []model.Product) {
	var categories []model.Category
	catIndex := make(map[string]int)
	var products []model.Product
	prodIndex := make(map[string]int)

	for _, b := range batches {
		for _, c := range b.Categories {
			if i, ok := catIndex[c.ID]; ok {
				categories[i] = c
				continue
			}
			catIndex[c.ID] = len(categories)
			categories = append(categories, c)
		}
		for _, p := range b.Products {
			if i, ok := prodIndex[p.ID]; ok {
				products[i] = p
				continue
			}
			prodIndex[p.ID] = len(products)
			products = append(products, p)
		}
	}

	return categories, products
}

// validate checks each product and that no two active products share a barcode.
func validate(products []model.Product) error {
	barcodes := make(map[string]string)
	for i := range products {
		p := &products[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("product %q: %w", p.ID, err)
		}
		if !p.IsActive || p.Barcode == nil {
			continue
		}
		code := strings.TrimSpace(*p.Barcode)
		if other, ok := barcodes[code]; ok {
			return fmt.Errorf("%w: %s is used by %s and %s", model.ErrDuplicateBarcode, code, other, p.ID)
		}
		barcodes[code] = p.ID
	}
	return nil
}
