package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/danupra/hrisgo/internal/domain"
	apperrors "github.com/danupra/hrisgo/pkg/errors"
	"github.com/danupra/hrisgo/pkg/pagination"
)

// CompanyRepository implements repository.CompanyRepository using PostgreSQL.
type CompanyRepository struct {
	db DB
}

// NewCompanyRepository creates a new PostgreSQL-backed company repository.
func NewCompanyRepository(db DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts a new company.
func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	query := `
		INSERT INTO companies (id, name, address, expired_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`

	_, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Address, c.ExpiredAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}

	return nil
}

// GetByID retrieves a company with its optional detail row.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.CompanyWithDetail, error) {
	query := `
		SELECT c.id, c.name, c.address, c.expired_at, c.deleted_at,
			d.email, d.phone_number, d.logo, d.spr, d.spk_mandor
		FROM companies c
		LEFT JOIN company_details d ON d.company_id = c.id
		WHERE c.id = $1`

	var (
		c           domain.CompanyWithDetail
		detailEmail *string
		detailPhone *string
		detailLogo  *string
		detailSPR   *string
		detailSPK   *string
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Address, &c.ExpiredAt, &c.DeletedAt,
		&detailEmail, &detailPhone, &detailLogo, &detailSPR, &detailSPK,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}

	if detailEmail != nil || detailPhone != nil || detailLogo != nil {
		c.Detail = &domain.CompanyDetail{
			Email:       derefString(detailEmail),
			PhoneNumber: derefString(detailPhone),
			Logo:        derefString(detailLogo),
			SPR:         derefString(detailSPR),
			SPKMandor:   derefString(detailSPK),
		}
	}

	return &c, nil
}

// List returns a page of companies matching the search, plus the total
// number of matching rows.
func (r *CompanyRepository) List(ctx context.Context, params pagination.Params) ([]domain.Company, int, error) {
	where := `WHERE deleted_at IS NULL
		AND (name ILIKE $1 OR address ILIKE $1)`
	search := "%" + params.Search + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM companies ` + where
	if err := r.db.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, address, expired_at
		FROM companies
		%s
		ORDER BY %s %s
		LIMIT $2 OFFSET $3`, where, params.Sort, params.Order)

	rows, err := r.db.Query(ctx, query, search, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.ExpiredAt); err != nil {
			return nil, 0, fmt.Errorf("scan company row: %w", err)
		}
		list = append(list, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate company rows: %w", err)
	}

	if list == nil {
		list = []domain.Company{}
	}

	return list, total, nil
}

// Update modifies a company and, when present, its detail row.
func (r *CompanyRepository) Update(ctx context.Context, c *domain.CompanyWithDetail) error {
	query := `
		UPDATE companies
		SET name = $1, address = $2, expired_at = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL`

	ct, err := r.db.Exec(ctx, query, c.Name, c.Address, c.ExpiredAt, time.Now().UTC(), c.ID)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("company not found")
	}

	if c.Detail != nil {
		detailQuery := `
			INSERT INTO company_details (company_id, email, phone_number, logo, spr, spk_mandor)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (company_id) DO UPDATE
			SET email = $2, phone_number = $3, logo = $4, spr = $5, spk_mandor = $6`

		_, err := r.db.Exec(ctx, detailQuery,
			c.ID, c.Detail.Email, c.Detail.PhoneNumber, c.Detail.Logo, c.Detail.SPR, c.Detail.SPKMandor,
		)
		if err != nil {
			return fmt.Errorf("upsert company detail: %w", err)
		}
	}

	return nil
}

// SoftDelete stamps the company as deleted without removing the row.
func (r *CompanyRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE companies SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("company not found")
	}

	return nil
}
