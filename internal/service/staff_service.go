package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brewpos/internal/auth"
	"brewpos/internal/model"
	"brewpos/internal/repository"

	"github.com/rs/zerolog"
)

type staffService struct {
	repo   repository.StaffRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewStaffService creates a staff service.
func NewStaffService(repo repository.StaffRepository, logger zerolog.Logger) StaffService {
	return &staffService{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("service", "staff").Logger(),
	}
}

func (s *staffService) List(ctx context.Context, includeInactive bool) ([]model.Staff, error) {
	staff, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (s *staffService) Get(ctx context.Context, id string) (*model.Staff, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	if member == nil {
		return nil, model.ErrStaffNotFound
	}
	return member, nil
}

func (s *staffService) Create(ctx context.Context, in StaffInput) (*model.Staff, error) {
	member := &model.Staff{
		ID:        strings.ToLower(strings.TrimSpace(in.ID)),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Role:      in.Role,
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	}

	if err := member.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("staff_id", member.ID).Msg("rejected staff member")
		return nil, err
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("staff_id", member.ID).
		Str("role", string(member.Role)).
		Msg("staff member created")
	return member, nil
}

func (s *staffService) Update(ctx context.Context, id string, in StaffInput) (*model.Staff, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Role != model.StaffAdmin && existing.Role == model.StaffAdmin && isSelf(ctx, id) {
		return nil, model.ErrStaffSelfChange
	}

	edited := *existing
	edited.Name = strings.TrimSpace(in.Name)
	edited.Email = strings.TrimSpace(in.Email)
	edited.Role = in.Role
	now := s.now().UTC()
	edited.UpdatedAt = &now

	if err := edited.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &edited); err != nil {
		return nil, err
	}

	s.logger.Info().Str("staff_id", id).Str("role", string(edited.Role)).Msg("staff member updated")
	return &edited, nil
}

func (s *staffService) SetActive(ctx context.Context, id string, active bool) (*model.Staff, error) {
	if !active && isSelf(ctx, id) {
		return nil, model.ErrStaffSelfChange
	}

	if err := s.repo.SetActive(ctx, id, active, s.now().UTC()); err != nil {
		return nil, err
	}

	s.logger.Info().Str("staff_id", id).Bool("active", active).Msg("staff status changed")
	return s.Get(ctx, id)
}

func (s *staffService) Delete(ctx context.Context, id string) error {
	if isSelf(ctx, id) {
		return model.ErrStaffSelfChange
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("staff_id", id).Msg("staff member deleted")
	return nil
}

func (s *staffService) Active(ctx context.Context, id string) (*model.Staff, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up staff member: %w", err)
	}
	if member == nil || !member.IsActive {
		return nil, model.ErrUnauthorised
	}
	return member, nil
}

func (s *staffService) RecordLogin(ctx context.Context, id string) error {
	return s.repo.TouchLastLogin(ctx, id, s.now().UTC())
}

// isSelf reports whether the authenticated caller is the staff member id.
func isSelf(ctx context.Context, id string) bool {
	claims, ok := auth.ClaimsFromContext(ctx)
	return ok && claims.CashierID() == id
}
