package service

import (
	"context"
	"fmt"
	"time"

	"brewpos/internal/model"
	"brewpos/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type settingsService struct {
	repo     repository.SettingsRepository
	defaults model.Settings
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSettingsService creates a settings service. defaults apply until settings are first saved.
func NewSettingsService(repo repository.SettingsRepository, defaults model.Settings, logger zerolog.Logger) SettingsService {
	return &settingsService{
		repo:     repo,
		defaults: defaults,
		now:      time.Now,
		logger:   logger.With().Str("service", "settings").Logger(),
	}
}

func (s *settingsService) Get(ctx context.Context) (*model.Settings, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read settings")
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if stored == nil {
		defaults := s.defaults
		return &defaults, nil
	}
	return stored, nil
}

func (s *settingsService) Update(ctx context.Context, settings *model.Settings) (*model.Settings, error) {
	if err := settings.Validate(); err != nil {
		s.logger.Warn().Str("tax_rate", settings.TaxRate.String()).Msg("rejected settings")
		return nil, err
	}

	saved := *settings
	if saved.Currency == "" {
		saved.Currency = s.defaults.Currency
	}
	saved.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, &saved); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	return &saved, nil
}

// TaxRate reads the configured rate, falling back to the default when nothing is saved.
func (s *settingsService) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return settings.TaxRate, nil
}
