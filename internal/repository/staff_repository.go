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

const staffColumns = `id, name, email, role, is_active, last_login, created_at, updated_at`

type staffRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStaffRepository creates a new PostgreSQL-backed staff directory.
func NewStaffRepository(pool *pgxpool.Pool, logger zerolog.Logger) StaffRepository {
	return &staffRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "staff").Logger(),
	}
}

func scanStaff(row pgx.Row) (*model.Staff, error) {
	var s model.Staff
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Role, &s.IsActive, &s.LastLogin, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *staffRepository) Create(ctx context.Context, s *model.Staff) error {
	query := `
		INSERT INTO staff (` + staffColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query, s.ID, s.Name, s.Email, s.Role, s.IsActive, s.LastLogin, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return model.ErrDuplicateStaff
		}
		r.logger.Error().Err(err).Str("staff_id", s.ID).Msg("failed to create staff member")
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	s, err := scanStaff(r.pool.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("staff_id", id).Msg("failed to query staff member")
		return nil, fmt.Errorf("failed to query staff member: %w", err)
	}
	return s, nil
}

// List returns staff ordered by name.
func (r *staffRepository) List(ctx context.Context, includeInactive bool) ([]model.Staff, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE $1::boolean OR is_active
		ORDER BY name, id
	`, includeInactive)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query staff")
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	staff := []model.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		staff = append(staff, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return staff, nil
}

func (r *staffRepository) Update(ctx context.Context, s *model.Staff) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff SET name = $2, email = $3, role = $4, updated_at = $5 WHERE id = $1`,
		s.ID, s.Name, s.Email, s.Role, s.UpdatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return model.ErrDuplicateStaff
		}
		r.logger.Error().Err(err).Str("staff_id", s.ID).Msg("failed to update staff member")
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrStaffNotFound
	}
	return nil
}

func (r *staffRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff SET is_active = $2, updated_at = $3 WHERE id = $1`, id, active, at)
	if err != nil {
		r.logger.Error().Err(err).Str("staff_id", id).Msg("failed to change staff status")
		return fmt.Errorf("failed to change staff status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrStaffNotFound
	}
	return nil
}

// TouchLastLogin records a sign-in. Unknown ids are ignored.
func (r *staffRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.pool.Exec(ctx, `UPDATE staff SET last_login = $2 WHERE id = $1`, id, at); err != nil {
		r.logger.Error().Err(err).Str("staff_id", id).Msg("failed to record login")
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("staff_id", id).Msg("failed to delete staff member")
		return fmt.Errorf("failed to delete staff member: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrStaffNotFound
	}
	return nil
}
