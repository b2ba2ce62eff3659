package repository

import (
	"context"
	"errors"
	"fmt"

	"brewpos/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type settingsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSettingsRepository creates a new PostgreSQL-backed settings store.
func NewSettingsRepository(pool *pgxpool.Pool, logger zerolog.Logger) SettingsRepository {
	return &settingsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "settings").Logger(),
	}
}

func (r *settingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	query := `
		SELECT shop_name, address, phone, email, tax_rate, currency, receipt_footer, updated_at
		FROM settings
		WHERE id = 1
	`

	var s model.Settings
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.ShopName, &s.Address, &s.Phone, &s.Email, &s.TaxRate, &s.Currency, &s.ReceiptFooter, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query settings")
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	return &s, nil
}

func (r *settingsRepository) Update(ctx context.Context, s *model.Settings) error {
	query := `
		INSERT INTO settings (id, shop_name, address, phone, email, tax_rate, currency, receipt_footer, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET shop_name = EXCLUDED.shop_name,
		    address = EXCLUDED.address,
		    phone = EXCLUDED.phone,
		    email = EXCLUDED.email,
		    tax_rate = EXCLUDED.tax_rate,
		    currency = EXCLUDED.currency,
		    receipt_footer = EXCLUDED.receipt_footer,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		s.ShopName, s.Address, s.Phone, s.Email, s.TaxRate, s.Currency, s.ReceiptFooter, s.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to save settings")
		return fmt.Errorf("failed to save settings: %w", err)
	}

	r.logger.Info().Str("tax_rate", s.TaxRate.String()).Msg("settings saved")
	return nil
}
