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

// PekerjaService implements field worker management.
type PekerjaService struct {
	pekerja repository.PekerjaRepository
	logger  *slog.Logger
}

// NewPekerjaService creates a new pekerja service.
func NewPekerjaService(pekerja repository.PekerjaRepository, logger *slog.Logger) *PekerjaService {
	return &PekerjaService{pekerja: pekerja, logger: logger}
}

// List returns a page of pekerja with the pagination envelope. An empty page
// is reported as NotFound.
func (s *PekerjaService) List(ctx context.Context, params pagination.Params) ([]domain.Pekerja, *pagination.Paging, error) {
	list, total, err := s.pekerja.List(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("list pekerja: %w", err)
	}

	if len(list) == 0 {
		return nil, nil, apperrors.NotFound("pekerja not found")
	}

	paging := pagination.NewPaging(params.Page, params.Limit, total)
	return list, &paging, nil
}

// Get returns one pekerja by ID.
func (s *PekerjaService) Get(ctx context.Context, id string) (*domain.Pekerja, error) {
	if id == "" {
		return nil, apperrors.Validation("id is required")
	}

	p, err := s.pekerja.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("pekerja not found")
		}
		return nil, fmt.Errorf("get pekerja: %w", err)
	}

	return p, nil
}

// Create stores a new pekerja record.
func (s *PekerjaService) Create(ctx context.Context, p *domain.Pekerja) (*domain.Pekerja, error) {
	if p.Name == "" || p.PhoneNumber == "" {
		return nil, apperrors.Validation("name and phone number are required")
	}

	if err := s.pekerja.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create pekerja: %w", err)
	}

	s.logger.InfoContext(ctx, "pekerja created", slog.String("pekerja_id", p.ID))

	return p, nil
}

// Update modifies an existing pekerja record.
func (s *PekerjaService) Update(ctx context.Context, p *domain.Pekerja) error {
	if p.ID == "" {
		return apperrors.Validation("id is required")
	}

	if err := s.pekerja.Update(ctx, p); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("pekerja not found")
		}
		return fmt.Errorf("update pekerja: %w", err)
	}

	s.logger.InfoContext(ctx, "pekerja updated", slog.String("pekerja_id", p.ID))

	return nil
}

// Delete soft-deletes a pekerja record.
func (s *PekerjaService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("id is required")
	}

	if err := s.pekerja.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("pekerja not found")
		}
		return fmt.Errorf("delete pekerja: %w", err)
	}

	s.logger.InfoContext(ctx, "pekerja deleted", slog.String("pekerja_id", id))

	return nil
}
