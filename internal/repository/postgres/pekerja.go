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

// PekerjaRepository implements repository.PekerjaRepository using PostgreSQL.
type PekerjaRepository struct {
	db DB
}

// NewPekerjaRepository creates a new PostgreSQL-backed pekerja repository.
func NewPekerjaRepository(db DB) *PekerjaRepository {
	return &PekerjaRepository{db: db}
}

// Create inserts a new pekerja record.
func (r *PekerjaRepository) Create(ctx context.Context, p *domain.Pekerja) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO pekerja (id, name, address, phone_number, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query, p.ID, p.Name, p.Address, p.PhoneNumber, p.UserID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert pekerja: %w", err)
	}

	return nil
}

// GetByID retrieves a pekerja by ID, excluding soft-deleted rows.
func (r *PekerjaRepository) GetByID(ctx context.Context, id string) (*domain.Pekerja, error) {
	query := `
		SELECT id, name, address, phone_number, user_id, created_at, updated_at
		FROM pekerja
		WHERE id = $1 AND deleted_at IS NULL`

	var p domain.Pekerja
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Address, &p.PhoneNumber, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan pekerja: %w", err)
	}

	return &p, nil
}

// List returns a page of pekerja matching the search, plus the total number
// of matching rows.
func (r *PekerjaRepository) List(ctx context.Context, params pagination.Params) ([]domain.Pekerja, int, error) {
	where := `WHERE deleted_at IS NULL
		AND (name ILIKE $1 OR phone_number ILIKE $1)`
	search := "%" + params.Search + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM pekerja ` + where
	if err := r.db.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pekerja: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, address, phone_number, user_id, created_at, updated_at
		FROM pekerja
		%s
		ORDER BY %s %s
		LIMIT $2 OFFSET $3`, where, params.Sort, params.Order)

	rows, err := r.db.Query(ctx, query, search, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list pekerja: %w", err)
	}
	defer rows.Close()

	var list []domain.Pekerja
	for rows.Next() {
		var p domain.Pekerja
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.PhoneNumber, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan pekerja row: %w", err)
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pekerja rows: %w", err)
	}

	if list == nil {
		list = []domain.Pekerja{}
	}

	return list, total, nil
}

// Update modifies an existing pekerja record.
func (r *PekerjaRepository) Update(ctx context.Context, p *domain.Pekerja) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE pekerja
		SET name = $1, address = $2, phone_number = $3, user_id = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL`

	ct, err := r.db.Exec(ctx, query, p.Name, p.Address, p.PhoneNumber, p.UserID, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update pekerja: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("pekerja not found")
	}

	return nil
}

// SoftDelete stamps the record as deleted without removing the row.
func (r *PekerjaRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE pekerja SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("delete pekerja: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("pekerja not found")
	}

	return nil
}
