package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/verdantleaf/storefront/internal/domain"
	"github.com/verdantleaf/storefront/internal/event"
	"github.com/verdantleaf/storefront/internal/repository"
	apperrors "github.com/verdantleaf/storefront/pkg/errors"
)

// Reasons recorded on cart.cleared events.
const (
	ClearReasonUser        = "user_action"
	ClearReasonOrderPlaced = "order_placed"
	ClearReasonLogin       = "login"
)

// AddItemInput holds the parameters for adding a product to the cart. Name,
// price, and image are the catalog snapshot captured at add time.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=500"`
	Price     int64  `json:"price" validate:"gte=0"`
	ImageURL  string `json:"image_url"`
	ImageAlt  string `json:"image_alt"`
}

// CartService owns the authoritative cart state. Every mutation persists the
// full cart; totals are always derived from the line items.
//
// Storage failures are deliberately non-fatal: an unreadable cart degrades to
// an empty one and a failed write is logged and swallowed, because losing a
// cart is considered less harmful than blocking the shopper.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the user's cart, returning an empty cart when none is
// stored or the stored value cannot be read.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	return s.load(ctx, userID), nil
}

// AddItem merges a product into the user's cart: an existing line item has
// its quantity incremented by one, a new product is appended with quantity
// one. Duplicate adds are defined merge behavior, never an error.
func (s *CartService) AddItem(ctx context.Context, userID string, input AddItemInput) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}

	cart := s.load(ctx, userID)
	cart.AddItem(domain.CartItem{
		ProductID: input.ProductID,
		Name:      input.Name,
		Price:     input.Price,
		ImageURL:  input.ImageURL,
		ImageAlt:  input.ImageAlt,
	})

	s.persist(ctx, cart)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID),
		slog.String("product_id", input.ProductID),
		slog.Int("total_items", cart.TotalItems()),
	)

	return cart, nil
}

// RemoveItem removes a line item. Removing an absent product is a no-op, so
// removal is idempotent.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart := s.load(ctx, userID)
	cart.RemoveItem(productID)

	s.persist(ctx, cart)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// UpdateQuantity sets a line item's quantity exactly. Zero or negative
// removes the item; an absent product is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart := s.load(ctx, userID)
	cart.SetQuantity(productID, quantity)

	s.persist(ctx, cart)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// ClearCart empties the user's cart and persists the empty state.
func (s *CartService) ClearCart(ctx context.Context, userID, reason string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete stored cart",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCartCleared(ctx, userID, reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("user_id", userID),
		slog.String("reason", reason),
	)

	return nil
}

// HandleAuthenticationEstablished clears the user's cart when a login session
// is established. Carts are not carried across login boundaries; this applies
// to same-user re-logins as well.
func (s *CartService) HandleAuthenticationEstablished(ctx context.Context, userID string) error {
	return s.ClearCart(ctx, userID, ClearReasonLogin)
}

// load fetches the stored cart, falling back to an empty cart when nothing is
// stored or the stored value cannot be read. Corrupt state is logged, never
// surfaced.
func (s *CartService) load(ctx context.Context, userID string) *domain.Cart {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "stored cart unreadable, starting empty",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return domain.NewCart(userID)
	}
	return cart
}

// persist writes the full cart back to storage. Write failures are logged and
// swallowed; the in-memory state remains authoritative for this request.
func (s *CartService) persist(ctx context.Context, cart *domain.Cart) {
	if err := s.repo.Save(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}
