package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danupra/hrisgo/internal/domain"
	"github.com/danupra/hrisgo/internal/repository"
	apperrors "github.com/danupra/hrisgo/pkg/errors"
	"github.com/danupra/hrisgo/pkg/pagination"
)

// PegawaiService implements staff employee management.
type PegawaiService struct {
	pegawai repository.PegawaiRepository
	logger  *slog.Logger
}

// NewPegawaiService creates a new pegawai service.
func NewPegawaiService(pegawai repository.PegawaiRepository, logger *slog.Logger) *PegawaiService {
	return &PegawaiService{pegawai: pegawai, logger: logger}
}

// List returns a page of pegawai with the pagination envelope. An empty page
// is reported as NotFound.
func (s *PegawaiService) List(ctx context.Context, params pagination.Params) ([]domain.PegawaiSummary, *pagination.Paging, error) {
	list, total, err := s.pegawai.List(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("list pegawai: %w", err)
	}

	if len(list) == 0 {
		return nil, nil, apperrors.NotFound("pegawai not found")
	}

	paging := pagination.NewPaging(params.Page, params.Limit, total)
	return list, &paging, nil
}

// Get returns one pegawai by ID.
func (s *PegawaiService) Get(ctx context.Context, id string) (*domain.Pegawai, error) {
	if id == "" {
		return nil, apperrors.Validation("id is required")
	}

	p, err := s.pegawai.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("pegawai not found")
		}
		return nil, fmt.Errorf("get pegawai: %w", err)
	}

	return p, nil
}

// Create stores a new pegawai record.
func (s *PegawaiService) Create(ctx context.Context, p *domain.Pegawai) (*domain.Pegawai, error) {
	if p.Name == "" || p.Email == "" || p.PhoneNumber == "" {
		return nil, apperrors.Validation("name, email and phone number are required")
	}

	if err := s.pegawai.Create(ctx, p); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Conflict("email already exists")
		}
		return nil, fmt.Errorf("create pegawai: %w", err)
	}

	s.logger.InfoContext(ctx, "pegawai created", slog.String("pegawai_id", p.ID))

	return p, nil
}

// Update modifies an existing pegawai record.
func (s *PegawaiService) Update(ctx context.Context, p *domain.Pegawai) error {
	if p.ID == "" {
		return apperrors.Validation("id is required")
	}

	if err := s.pegawai.Update(ctx, p); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("pegawai not found")
		}
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.Conflict("email already exists")
		}
		return fmt.Errorf("update pegawai: %w", err)
	}

	s.logger.InfoContext(ctx, "pegawai updated", slog.String("pegawai_id", p.ID))

	return nil
}

// Delete soft-deletes a pegawai record.
func (s *PegawaiService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("id is required")
	}

	if err := s.pegawai.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("pegawai not found")
		}
		return fmt.Errorf("delete pegawai: %w", err)
	}

	s.logger.InfoContext(ctx, "pegawai deleted", slog.String("pegawai_id", id))

	return nil
}
