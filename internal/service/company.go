package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danupra/hrisgo/internal/domain"
	"github.com/danupra/hrisgo/internal/repository"
	apperrors "github.com/danupra/hrisgo/pkg/errors"
	"github.com/danupra/hrisgo/pkg/pagination"
)

// CompanyService manages companies. A company's expired_at gates sign-in for
// every user attached to it.
type CompanyService struct {
	companies repository.CompanyRepository
	logger    *slog.Logger
}

// NewCompanyService creates a new company service.
func NewCompanyService(companies repository.CompanyRepository, logger *slog.Logger) *CompanyService {
	return &CompanyService{companies: companies, logger: logger}
}

// CreateCompanyInput holds the parameters for creating a company.
type CreateCompanyInput struct {
	Name      string
	Address   string
	ExpiredAt *time.Time
}

// List returns a page of companies with the pagination envelope. An empty
// page is reported as NotFound.
func (s *CompanyService) List(ctx context.Context, params pagination.Params) ([]domain.Company, *pagination.Paging, error) {
	list, total, err := s.companies.List(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("list companies: %w", err)
	}

	if len(list) == 0 {
		return nil, nil, apperrors.NotFound("company not found")
	}

	paging := pagination.NewPaging(params.Page, params.Limit, total)
	return list, &paging, nil
}

// Get returns a company with its detail.
func (s *CompanyService) Get(ctx context.Context, id string) (*domain.CompanyWithDetail, error) {
	if id == "" {
		return nil, apperrors.Validation("id is required")
	}

	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("company not found")
		}
		return nil, fmt.Errorf("get company: %w", err)
	}

	return c, nil
}

// Create stores a new company.
func (s *CompanyService) Create(ctx context.Context, input CreateCompanyInput) (*domain.Company, error) {
	if input.Name == "" || input.Address == "" {
		return nil, apperrors.Validation("name and address are required")
	}

	c := &domain.Company{
		Name:      input.Name,
		Address:   input.Address,
		ExpiredAt: input.ExpiredAt,
	}

	if err := s.companies.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}

	s.logger.InfoContext(ctx, "company created", slog.String("company_id", c.ID))

	return c, nil
}

// Update modifies a company and its detail.
func (s *CompanyService) Update(ctx context.Context, c *domain.CompanyWithDetail) error {
	if c.ID == "" {
		return apperrors.Validation("id is required")
	}

	if err := s.companies.Update(ctx, c); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("company not found")
		}
		return fmt.Errorf("update company: %w", err)
	}

	s.logger.InfoContext(ctx, "company updated", slog.String("company_id", c.ID))

	return nil
}

// Delete soft-deletes a company. Existing sessions stay valid; the sign-in
// gate takes over as users' companies disappear from lookups.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("id is required")
	}

	if err := s.companies.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("company not found")
		}
		return fmt.Errorf("delete company: %w", err)
	}

	s.logger.InfoContext(ctx, "company deleted", slog.String("company_id", id))

	return nil
}
