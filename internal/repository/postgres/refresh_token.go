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

// RefreshTokenRepository implements repository.RefreshTokenRepository using
// PostgreSQL. The signed token string is the primary key.
type RefreshTokenRepository struct {
	db DB
}

// NewRefreshTokenRepository creates a new PostgreSQL-backed refresh token repository.
func NewRefreshTokenRepository(db DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create stores a refresh token for the user.
func (r *RefreshTokenRepository) Create(ctx context.Context, token, userID string) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, created_at)
		VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, token, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	return nil
}

// Find returns the stored token record, or errors.ErrNotFound.
func (r *RefreshTokenRepository) Find(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT token, user_id, created_at
		FROM refresh_tokens
		WHERE token = $1`

	var rt domain.RefreshToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&rt.Token,
		&rt.UserID,
		&rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}

	return &rt, nil
}

// Consume removes a single token, reporting errors.ErrNotFound when no row
// was deleted. The row count is what arbitrates racing refreshes: only the
// call that actually removed the row wins.
func (r *RefreshTokenRepository) Consume(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`

	ct, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("consume refresh token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a single token. Deleting an absent token is not an error:
// the sign-in and logout cleanup paths must not fail on an already-gone row.
func (r *RefreshTokenRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`

	_, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	return nil
}

// DeleteByUserID removes every token belonging to the user.
func (r *RefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete refresh tokens by user: %w", err)
	}

	return nil
}
