package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantleaf/storefront/internal/domain"
	apperrors "github.com/verdantleaf/storefront/pkg/errors"
)

func newSession(id string, expiresIn time.Duration) *domain.CheckoutSession {
	now := time.Now().UTC()
	return &domain.CheckoutSession{
		ID:        id,
		UserID:    "user-1",
		Step:      domain.StepAddress,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestSessionStore_PutGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newSession("sess-1", time.Hour)))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)
	assert.Equal(t, 1, store.Len())
}

func TestSessionStore_Get_Missing(t *testing.T) {
	store := NewSessionStore()

	_, err := store.Get(context.Background(), "sess-missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStore_Get_ExpiredIsGone(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newSession("sess-1", -time.Second)))

	_, err := store.Get(ctx, "sess-1")

	assert.ErrorIs(t, err, apperrors.ErrGone)
	assert.Equal(t, 0, store.Len(), "expired sessions are dropped on read")
}

func TestSessionStore_GetReturnsIsolatedCopy(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	original := newSession("sess-1", time.Hour)
	original.ShippingMethods = []domain.ShippingMethod{{ID: "ship-std", Name: "Standard", Price: 500}}
	require.NoError(t, store.Put(ctx, original))

	// Mutating the session after Put must not affect the stored state.
	original.Step = domain.StepReview
	original.ShippingMethods[0].Price = 9999

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepAddress, got.Step)
	assert.Equal(t, int64(500), got.ShippingMethods[0].Price)

	// Mutating a read session must not affect subsequent reads.
	got.ShippingSelection.MethodID = "ship-std"
	got.ShippingMethods[0].Price = 1

	again, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, again.ShippingSelection.MethodID)
	assert.Equal(t, int64(500), again.ShippingMethods[0].Price)
}

func TestSessionStore_ConcurrentReadersAndWriters(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	seed := newSession("sess-1", time.Hour)
	seed.Addresses = []domain.Address{{ID: "addr-1", Name: "Home"}}
	require.NoError(t, store.Put(ctx, seed))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				session, err := store.Get(ctx, "sess-1")
				if !assert.NoError(t, err) {
					return
				}
				session.AddressSelection.AddressID = fmt.Sprintf("addr-%d-%d", n, j)
				assert.NoError(t, store.Put(ctx, session))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				session, err := store.Get(ctx, "sess-1")
				if !assert.NoError(t, err) {
					return
				}
				_, err = json.Marshal(session)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newSession("sess-1", time.Hour)))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStore_Sweep(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newSession("live", time.Hour)))
	require.NoError(t, store.Put(ctx, newSession("dead-1", -time.Minute)))
	require.NoError(t, store.Put(ctx, newSession("dead-2", -time.Second)))

	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, store.Sweep())
}
