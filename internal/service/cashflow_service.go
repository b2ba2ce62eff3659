package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brewpos/internal/model"
	"brewpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type cashFlowService struct {
	repo   repository.CashFlowRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewCashFlowService creates a cash flow service.
func NewCashFlowService(repo repository.CashFlowRepository, logger zerolog.Logger) CashFlowService {
	return &cashFlowService{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("service", "cashflow").Logger(),
	}
}

func (s *cashFlowService) Create(ctx context.Context, in CashFlowInput) (*model.CashFlowEntry, error) {
	entry := &model.CashFlowEntry{
		ID:        uuid.New(),
		Type:      in.Type,
		Amount:    in.Amount,
		Reason:    strings.TrimSpace(in.Reason),
		CashierID: in.CashierID,
		CreatedAt: s.now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		s.logger.Warn().
			Str("type", string(in.Type)).
			Str("amount", in.Amount.String()).
			Msg("rejected cash flow entry")
		return nil, err
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record cash flow: %w", err)
	}

	s.logger.Info().
		Str("entry_id", entry.ID.String()).
		Str("type", string(entry.Type)).
		Str("amount", entry.Amount.StringFixed(2)).
		Str("cashier_id", entry.CashierID).
		Msg("cash flow recorded")

	return entry, nil
}

func (s *cashFlowService) List(ctx context.Context, filter model.CashFlowFilter) ([]model.CashFlowEntry, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash flows: %w", err)
	}
	return entries, nil
}

// Update edits type, amount and reason. The original cashier and creation time are kept.
func (s *cashFlowService) Update(ctx context.Context, id uuid.UUID, in CashFlowInput) (*model.CashFlowEntry, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get cash flow: %w", err)
	}
	if existing == nil {
		return nil, model.ErrCashFlowNotFound
	}

	edited := *existing
	edited.Type = in.Type
	edited.Amount = in.Amount
	edited.Reason = strings.TrimSpace(in.Reason)
	now := s.now().UTC()
	edited.UpdatedAt = &now

	if err := edited.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &edited); err != nil {
		return nil, err
	}

	s.logger.Info().Str("entry_id", id.String()).Msg("cash flow updated")
	return &edited, nil
}

func (s *cashFlowService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("entry_id", id.String()).Msg("cash flow deleted")
	return nil
}

// Summary totals every entry matching filter, ignoring its paging.
func (s *cashFlowService) Summary(ctx context.Context, filter model.CashFlowFilter) (*model.CashFlowSummary, error) {
	filter.Limit = 0
	filter.Offset = 0

	entries, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return SummarizeCashFlows(entries), nil
}

// SummarizeCashFlows totals ledger entries.
func SummarizeCashFlows(entries []model.CashFlowEntry) *model.CashFlowSummary {
	sum := &model.CashFlowSummary{
		TotalIn:  decimal.Zero,
		TotalOut: decimal.Zero,
	}
	for _, e := range entries {
		switch e.Type {
		case model.CashIn:
			sum.TotalIn = sum.TotalIn.Add(e.Amount)
		case model.CashOut:
			sum.TotalOut = sum.TotalOut.Add(e.Amount)
		}
	}
	sum.Net = sum.TotalIn.Sub(sum.TotalOut)
	sum.Count = len(entries)
	return sum
}
