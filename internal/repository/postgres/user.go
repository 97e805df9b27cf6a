package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/danupra/hrisgo/internal/domain"
	apperrors "github.com/danupra/hrisgo/pkg/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userSelectColumns = `
	u.id, u.name, u.email, u.email_verified, u.phone_number, u.password,
	u.suspended_at, u.deleted_at, u.created_at, u.updated_at,
	r.id, r.name,
	c.id, c.name, c.address, c.expired_at`

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, phone_number, password, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PhoneNumber,
		u.PasswordHash,
		u.Role.ID,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("email already exists")
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a non-suspended user by ID, with role and company.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userSelectColumns + `
		FROM users u
		JOIN roles r ON r.id = u.role_id
		LEFT JOIN companies c ON c.id = u.company_id
		WHERE u.id = $1 AND u.suspended_at IS NULL`

	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a non-suspended user by email. A soft-deleted user is
// still returned; the deleted_at marker lets the caller decide.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userSelectColumns + `
		FROM users u
		JOIN roles r ON r.id = u.role_id
		LEFT JOIN companies c ON c.id = u.company_id
		WHERE u.email = $1 AND u.suspended_at IS NULL`

	return r.scanUser(ctx, query, email)
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user not found")
	}

	return nil
}

// MarkEmailVerified stamps the account's email as verified.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	query := `UPDATE users SET email_verified = $1, updated_at = $1 WHERE email = $2`

	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), email)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user not found")
	}

	return nil
}

// Suspend marks the account as suspended.
func (r *UserRepository) Suspend(ctx context.Context, id string) error {
	query := `UPDATE users SET suspended_at = $1, updated_at = $1 WHERE id = $2 AND suspended_at IS NULL`

	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("suspend user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user not found")
	}

	return nil
}

// Unsuspend clears the account's suspension.
func (r *UserRepository) Unsuspend(ctx context.Context, id string) error {
	query := `UPDATE users SET suspended_at = NULL, updated_at = $1 WHERE id = $2`

	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("unsuspend user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user not found")
	}

	return nil
}

// scanUser executes a query expected to return a single user row joined with
// role and optional company.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var (
		u              domain.User
		companyID      *string
		companyName    *string
		companyAddress *string
		companyExpired *time.Time
	)

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.EmailVerifiedAt,
		&u.PhoneNumber,
		&u.PasswordHash,
		&u.SuspendedAt,
		&u.DeletedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Role.ID,
		&u.Role.Name,
		&companyID,
		&companyName,
		&companyAddress,
		&companyExpired,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if companyID != nil {
		u.Company = &domain.Company{
			ID:        *companyID,
			Name:      derefString(companyName),
			Address:   derefString(companyAddress),
			ExpiredAt: companyExpired,
		}
	}

	return &u, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
