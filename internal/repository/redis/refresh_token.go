package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/danupra/hrisgo/internal/domain"
	apperrors "github.com/danupra/hrisgo/pkg/errors"
)

const (
	tokenKeyPrefix   = "refresh_token:"
	userTokensPrefix = "user_tokens:"
)

// RefreshTokenRepository implements repository.RefreshTokenRepository on
// Redis. Each token lives under its own key with a TTL matching the token
// lifetime, and a per-user set tracks the user's live tokens so revoking a
// user does not require a scan.
type RefreshTokenRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewRefreshTokenRepository creates a Redis-backed refresh token repository.
// ttl should match the refresh token expiry so stored tokens vanish when the
// JWT inside them would no longer verify anyway.
func NewRefreshTokenRepository(client *goredis.Client, ttl time.Duration) *RefreshTokenRepository {
	return &RefreshTokenRepository{client: client, ttl: ttl}
}

// Create stores a refresh token for the user.
func (r *RefreshTokenRepository) Create(ctx context.Context, token, userID string) error {
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, tokenKeyPrefix+token, "user_id", userID, "created_at", createdAt)
	pipe.Expire(ctx, tokenKeyPrefix+token, r.ttl)
	pipe.SAdd(ctx, userTokensPrefix+userID, token)
	pipe.Expire(ctx, userTokensPrefix+userID, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

// Find returns the stored token record, or errors.ErrNotFound.
func (r *RefreshTokenRepository) Find(ctx context.Context, token string) (*domain.RefreshToken, error) {
	vals, err := r.client.HGetAll(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if len(vals) == 0 {
		return nil, apperrors.ErrNotFound
	}

	rt := &domain.RefreshToken{
		Token:  token,
		UserID: vals["user_id"],
	}
	if ts, err := time.Parse(time.RFC3339Nano, vals["created_at"]); err == nil {
		rt.CreatedAt = ts
	}

	return rt, nil
}

// Consume removes a single token, reporting errors.ErrNotFound when nothing
// was removed. The DEL return count arbitrates racing refreshes: both may
// read the hash, but only one call deletes the key.
func (r *RefreshTokenRepository) Consume(ctx context.Context, token string) error {
	userID, err := r.client.HGet(ctx, tokenKeyPrefix+token, "user_id").Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("consume refresh token: %w", err)
	}

	deleted, err := r.client.Del(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("consume refresh token: %w", err)
	}
	if deleted == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.client.SRem(ctx, userTokensPrefix+userID, token).Err(); err != nil {
		return fmt.Errorf("consume refresh token: %w", err)
	}

	return nil
}

// Delete removes a single token. Deleting an absent token is not an error.
func (r *RefreshTokenRepository) Delete(ctx context.Context, token string) error {
	userID, err := r.client.HGet(ctx, tokenKeyPrefix+token, "user_id").Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return fmt.Errorf("delete refresh token: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKeyPrefix+token)
	pipe.SRem(ctx, userTokensPrefix+userID, token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	return nil
}

// DeleteByUserID removes every token belonging to the user.
func (r *RefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	tokens, err := r.client.SMembers(ctx, userTokensPrefix+userID).Result()
	if err != nil {
		return fmt.Errorf("list user refresh tokens: %w", err)
	}

	pipe := r.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, tokenKeyPrefix+token)
	}
	pipe.Del(ctx, userTokensPrefix+userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete user refresh tokens: %w", err)
	}

	return nil
}
