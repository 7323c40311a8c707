package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantleaf/storefront/internal/domain"
	apperrors "github.com/verdantleaf/storefront/pkg/errors"
)

func newTestRepo(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCartRepository(client, time.Hour), mr
}

func TestCartRepository_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cart := domain.NewCart("user-1")
	cart.AddItem(domain.CartItem{ProductID: "prod-1", Name: "Monstera Deliciosa", Price: 2500, ImageURL: "https://cdn.example/monstera.jpg"})
	cart.AddItem(domain.CartItem{ProductID: "prod-1"})
	cart.AddItem(domain.CartItem{ProductID: "prod-2", Name: "Pothos", Price: 500})

	require.NoError(t, repo.Save(ctx, cart))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, cart.UserID, got.UserID)
	assert.Equal(t, cart.Items, got.Items)
	assert.Equal(t, 2, got.TotalItems())
	assert.Equal(t, int64(5500), got.TotalPrice())
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "user-missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Get_CorruptData(t *testing.T) {
	repo, mr := newTestRepo(t)
	require.NoError(t, mr.Set(keyPrefix+"user-1", "{not json"))

	_, err := repo.Get(context.Background(), "user-1")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Save_SetsTTL(t *testing.T) {
	repo, mr := newTestRepo(t)

	require.NoError(t, repo.Save(context.Background(), domain.NewCart("user-1")))

	ttl := mr.TTL(keyPrefix + "user-1")
	assert.Equal(t, time.Hour, ttl)
}

func TestCartRepository_Delete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.NewCart("user-1")))
	require.NoError(t, repo.Delete(ctx, "user-1"))

	_, err := repo.Get(ctx, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Deleting again is harmless.
	assert.NoError(t, repo.Delete(ctx, "user-1"))
}
