package repository

import (
	"context"

	"github.com/verdantleaf/storefront/internal/domain"
)

// CartRepository is the durable key-value capability behind the cart. Any
// store that can get, save, and delete a serialized cart by user ID can back
// it; the production implementation uses Redis.
type CartRepository interface {
	// Get retrieves a cart by user ID. Returns apperrors.ErrNotFound when
	// the user has no stored cart.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the user.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the user's cart from the store.
	Delete(ctx context.Context, userID string) error
}

// SessionStore holds in-flight checkout sessions. Sessions are ephemeral by
// design: implementations keep them in process memory with a TTL and lose
// them on restart.
type SessionStore interface {
	// Get retrieves a session by ID. Returns apperrors.ErrNotFound when the
	// session does not exist or has expired.
	Get(ctx context.Context, sessionID string) (*domain.CheckoutSession, error)

	// Put stores or replaces a session.
	Put(ctx context.Context, session *domain.CheckoutSession) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error
}
