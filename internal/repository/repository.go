package repository

import (
	"context"

	"github.com/danupra/hrisgo/internal/domain"
	"github.com/danupra/hrisgo/pkg/pagination"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a non-suspended user by ID, with role and company.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a non-suspended user by email address. Soft-deleted
	// users are still returned; callers decide how to treat them.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// MarkEmailVerified stamps the account's email as verified.
	MarkEmailVerified(ctx context.Context, email string) error

	// Suspend marks the account as suspended.
	Suspend(ctx context.Context, id string) error

	// Unsuspend clears the account's suspension.
	Unsuspend(ctx context.Context, id string) error
}

// RefreshTokenRepository defines the interface for refresh token persistence.
// The signed token string is the record key.
type RefreshTokenRepository interface {
	// Create stores a refresh token for the user.
	Create(ctx context.Context, token, userID string) error

	// Find returns the stored token record, or errors.ErrNotFound.
	Find(ctx context.Context, token string) (*domain.RefreshToken, error)

	// Consume removes a single token and reports whether this call removed
	// it. Returns errors.ErrNotFound when the token was already gone, so
	// concurrent consumers of the same token get exactly one winner.
	Consume(ctx context.Context, token string) error

	// Delete removes a single token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUserID removes every token belonging to the user.
	DeleteByUserID(ctx context.Context, userID string) error
}

// PegawaiRepository defines the interface for staff employee persistence.
type PegawaiRepository interface {
	Create(ctx context.Context, p *domain.Pegawai) error
	GetByID(ctx context.Context, id string) (*domain.Pegawai, error)
	List(ctx context.Context, params pagination.Params) ([]domain.PegawaiSummary, int, error)
	Update(ctx context.Context, p *domain.Pegawai) error
	SoftDelete(ctx context.Context, id string) error
}

// PekerjaRepository defines the interface for field worker persistence.
type PekerjaRepository interface {
	Create(ctx context.Context, p *domain.Pekerja) error
	GetByID(ctx context.Context, id string) (*domain.Pekerja, error)
	List(ctx context.Context, params pagination.Params) ([]domain.Pekerja, int, error)
	Update(ctx context.Context, p *domain.Pekerja) error
	SoftDelete(ctx context.Context, id string) error
}

// CompanyRepository defines the interface for company persistence.
type CompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.CompanyWithDetail, error)
	List(ctx context.Context, params pagination.Params) ([]domain.Company, int, error)
	Update(ctx context.Context, c *domain.CompanyWithDetail) error
	SoftDelete(ctx context.Context, id string) error
}
