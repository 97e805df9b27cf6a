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

// PegawaiRepository implements repository.PegawaiRepository using PostgreSQL.
type PegawaiRepository struct {
	db DB
}

// NewPegawaiRepository creates a new PostgreSQL-backed pegawai repository.
func NewPegawaiRepository(db DB) *PegawaiRepository {
	return &PegawaiRepository{db: db}
}

// Create inserts a new pegawai record.
func (r *PegawaiRepository) Create(ctx context.Context, p *domain.Pegawai) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO pegawai (
			id, name, email, phone_number, gender, rek,
			date_of_birth, place_of_birth, religion, married_status, blood_type, father_name, mother_name,
			province, city, district, sub_district, rt, rw, postal_code, address, picture,
			bank_name, bank_rekening, bank_account,
			job_status, job_pic, job_start_date, job_end_date,
			user_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22,
			$23, $24, $25,
			$26, $27, $28, $29,
			$30, $31, $32
		)`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Email, p.PhoneNumber, p.Gender, p.Rek,
		p.DateOfBirth, p.PlaceOfBirth, p.Religion, p.MarriedStatus, p.BloodType, p.FatherName, p.MotherName,
		p.Province, p.City, p.District, p.SubDistrict, p.RT, p.RW, p.PostalCode, p.Address, p.Picture,
		p.BankName, p.BankRekening, p.BankAccount,
		p.JobStatus, p.JobPIC, p.JobStartDate, p.JobEndDate,
		p.UserID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("email already exists")
		}
		return fmt.Errorf("insert pegawai: %w", err)
	}

	return nil
}

// GetByID retrieves a pegawai by ID, excluding soft-deleted rows.
func (r *PegawaiRepository) GetByID(ctx context.Context, id string) (*domain.Pegawai, error) {
	query := `
		SELECT id, name, email, phone_number, gender, rek,
			date_of_birth, place_of_birth, religion, married_status, blood_type, father_name, mother_name,
			province, city, district, sub_district, rt, rw, postal_code, address, picture,
			bank_name, bank_rekening, bank_account,
			job_status, job_pic, job_start_date, job_end_date,
			user_id, created_at, updated_at
		FROM pegawai
		WHERE id = $1 AND deleted_at IS NULL`

	var p domain.Pegawai
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.PhoneNumber, &p.Gender, &p.Rek,
		&p.DateOfBirth, &p.PlaceOfBirth, &p.Religion, &p.MarriedStatus, &p.BloodType, &p.FatherName, &p.MotherName,
		&p.Province, &p.City, &p.District, &p.SubDistrict, &p.RT, &p.RW, &p.PostalCode, &p.Address, &p.Picture,
		&p.BankName, &p.BankRekening, &p.BankAccount,
		&p.JobStatus, &p.JobPIC, &p.JobStartDate, &p.JobEndDate,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan pegawai: %w", err)
	}

	return &p, nil
}

// List returns a page of pegawai summaries matching the search, plus the
// total number of matching rows. Sort and order come from the pagination
// allow-list, never raw request input.
func (r *PegawaiRepository) List(ctx context.Context, params pagination.Params) ([]domain.PegawaiSummary, int, error) {
	where := `WHERE deleted_at IS NULL
		AND (name ILIKE $1 OR email ILIKE $1 OR phone_number ILIKE $1)`
	search := "%" + params.Search + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM pegawai ` + where
	if err := r.db.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pegawai: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, phone_number, job_status
		FROM pegawai
		%s
		ORDER BY %s %s
		LIMIT $2 OFFSET $3`, where, params.Sort, params.Order)

	rows, err := r.db.Query(ctx, query, search, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list pegawai: %w", err)
	}
	defer rows.Close()

	var list []domain.PegawaiSummary
	for rows.Next() {
		var p domain.PegawaiSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.PhoneNumber, &p.JobStatus); err != nil {
			return nil, 0, fmt.Errorf("scan pegawai row: %w", err)
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pegawai rows: %w", err)
	}

	if list == nil {
		list = []domain.PegawaiSummary{}
	}

	return list, total, nil
}

// Update modifies an existing pegawai record.
func (r *PegawaiRepository) Update(ctx context.Context, p *domain.Pegawai) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE pegawai SET
			name = $1, email = $2, phone_number = $3, gender = $4, rek = $5,
			date_of_birth = $6, place_of_birth = $7, religion = $8, married_status = $9,
			blood_type = $10, father_name = $11, mother_name = $12,
			province = $13, city = $14, district = $15, sub_district = $16,
			rt = $17, rw = $18, postal_code = $19, address = $20, picture = $21,
			bank_name = $22, bank_rekening = $23, bank_account = $24,
			job_status = $25, job_pic = $26, job_start_date = $27, job_end_date = $28,
			user_id = $29, updated_at = $30
		WHERE id = $31 AND deleted_at IS NULL`

	ct, err := r.db.Exec(ctx, query,
		p.Name, p.Email, p.PhoneNumber, p.Gender, p.Rek,
		p.DateOfBirth, p.PlaceOfBirth, p.Religion, p.MarriedStatus,
		p.BloodType, p.FatherName, p.MotherName,
		p.Province, p.City, p.District, p.SubDistrict,
		p.RT, p.RW, p.PostalCode, p.Address, p.Picture,
		p.BankName, p.BankRekening, p.BankAccount,
		p.JobStatus, p.JobPIC, p.JobStartDate, p.JobEndDate,
		p.UserID, p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("email already exists")
		}
		return fmt.Errorf("update pegawai: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("pegawai not found")
	}

	return nil
}

// SoftDelete stamps the record as deleted without removing the row.
func (r *PegawaiRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE pegawai SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("delete pegawai: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("pegawai not found")
	}

	return nil
}
