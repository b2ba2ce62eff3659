package repository

import (
	"context"
	"errors"
	"fmt"

	"brewpos/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const cashFlowColumns = `id, type, amount, reason, cashier_id, created_at, updated_at`

type cashFlowRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCashFlowRepository creates a new PostgreSQL-backed cash flow ledger.
func NewCashFlowRepository(pool *pgxpool.Pool, logger zerolog.Logger) CashFlowRepository {
	return &cashFlowRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cashflow").Logger(),
	}
}

func scanCashFlow(row pgx.Row) (*model.CashFlowEntry, error) {
	var e model.CashFlowEntry
	if err := row.Scan(&e.ID, &e.Type, &e.Amount, &e.Reason, &e.CashierID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *cashFlowRepository) Create(ctx context.Context, e *model.CashFlowEntry) error {
	query := `
		INSERT INTO cash_flows (` + cashFlowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query, e.ID, e.Type, e.Amount, e.Reason, e.CashierID, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("entry_id", e.ID.String()).Msg("failed to create cash flow entry")
		return fmt.Errorf("failed to create cash flow entry: %w", err)
	}

	return nil
}

func (r *cashFlowRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CashFlowEntry, error) {
	e, err := scanCashFlow(r.pool.QueryRow(ctx,
		`SELECT `+cashFlowColumns+` FROM cash_flows WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("entry_id", id.String()).Msg("failed to query cash flow entry")
		return nil, fmt.Errorf("failed to query cash flow entry: %w", err)
	}
	return e, nil
}

// List returns entries newest first. Search matches the reason case-insensitively.
func (r *cashFlowRepository) List(ctx context.Context, filter model.CashFlowFilter) ([]model.CashFlowEntry, error) {
	query := `
		SELECT ` + cashFlowColumns + `
		FROM cash_flows
		WHERE ($1::text = '' OR type = $1::text)
		  AND ($2::timestamptz IS NULL OR created_at >= $2::timestamptz)
		  AND ($3::timestamptz IS NULL OR created_at < $3::timestamptz)
		  AND ($4::text = '' OR reason ILIKE '%' || $4::text || '%')
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`

	rows, err := r.pool.Query(ctx, query,
		string(filter.Type),
		filter.From,
		filter.To,
		filter.Search,
		limitArg(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query cash flow entries")
		return nil, fmt.Errorf("failed to query cash flow entries: %w", err)
	}
	defer rows.Close()

	entries := []model.CashFlowEntry{}
	for rows.Next() {
		e, err := scanCashFlow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash flow entry: %w", err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flow entries: %w", err)
	}

	return entries, nil
}

func (r *cashFlowRepository) Update(ctx context.Context, e *model.CashFlowEntry) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cash_flows SET type = $2, amount = $3, reason = $4, updated_at = $5 WHERE id = $1`,
		e.ID, e.Type, e.Amount, e.Reason, e.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("entry_id", e.ID.String()).Msg("failed to update cash flow entry")
		return fmt.Errorf("failed to update cash flow entry: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCashFlowNotFound
	}
	return nil
}

func (r *cashFlowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cash_flows WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("entry_id", id.String()).Msg("failed to delete cash flow entry")
		return fmt.Errorf("failed to delete cash flow entry: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCashFlowNotFound
	}
	return nil
}
