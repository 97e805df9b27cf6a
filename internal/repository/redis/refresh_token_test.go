package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/danupra/hrisgo/pkg/errors"
)

func newTestRepo(t *testing.T) (*RefreshTokenRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRefreshTokenRepository(client, 168*time.Hour), mr
}

func TestRefreshToken_CreateAndFind(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "token-a", "u-1"))

	rt, err := repo.Find(ctx, "token-a")
	require.NoError(t, err)
	assert.Equal(t, "u-1", rt.UserID)
	assert.Equal(t, "token-a", rt.Token)
	assert.False(t, rt.CreatedAt.IsZero())
}

func TestRefreshToken_Find_Missing(t *testing.T) {
	repo, _ := newTestRepo(t)

	rt, err := repo.Find(context.Background(), "never-stored")
	assert.Nil(t, rt)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
}

func TestRefreshToken_Consume_OnlyOnce(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "token-a", "u-1"))

	require.NoError(t, repo.Consume(ctx, "token-a"))

	_, err := repo.Find(ctx, "token-a")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// A second consume finds nothing to remove: the race loser sees NotFound.
	err = repo.Consume(ctx, "token-a")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
}

func TestRefreshToken_Delete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "token-a", "u-1"))
	require.NoError(t, repo.Delete(ctx, "token-a"))

	_, err := repo.Find(ctx, "token-a")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// Deleting again is a no-op.
	assert.NoError(t, repo.Delete(ctx, "token-a"))
}

func TestRefreshToken_DeleteByUserID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "token-a", "u-1"))
	require.NoError(t, repo.Create(ctx, "token-b", "u-1"))
	require.NoError(t, repo.Create(ctx, "token-c", "u-2"))

	require.NoError(t, repo.DeleteByUserID(ctx, "u-1"))

	_, err := repo.Find(ctx, "token-a")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	_, err = repo.Find(ctx, "token-b")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// Other users' tokens survive.
	rt, err := repo.Find(ctx, "token-c")
	require.NoError(t, err)
	assert.Equal(t, "u-2", rt.UserID)
}

func TestRefreshToken_ExpiresWithTTL(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "token-a", "u-1"))

	mr.FastForward(169 * time.Hour)

	_, err := repo.Find(ctx, "token-a")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected token to expire with TTL")
}
