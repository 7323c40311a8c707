package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/verdantleaf/storefront/internal/domain"
	pkgkafka "github.com/verdantleaf/storefront/pkg/kafka"
)

// Kafka topics for storefront domain events.
var (
	TopicCartUpdated       = pkgkafka.Topic("cart", "updated")
	TopicCartCleared       = pkgkafka.Topic("cart", "cleared")
	TopicCheckoutCompleted = pkgkafka.Topic("checkout", "completed")
	TopicCheckoutFailed    = pkgkafka.Topic("checkout", "failed")
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront"

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeCheckout = "checkout"
)

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID     string         `json:"user_id"`
	Items      []CartItemData `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice int64          `json:"total_price"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// CheckoutFinishedData is the payload for checkout.completed and
// checkout.failed events.
type CheckoutFinishedData struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	OrderID     string `json:"order_id,omitempty"`
	TotalAmount int64  `json:"total_amount,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer for the storefront service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemData{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		UserID:     cart.UserID,
		Items:      items,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}

	return p.publish(ctx, TopicCartUpdated, cart.UserID, AggregateTypeCart, data)
}

// PublishCartCleared publishes a cart.cleared event with the reason the cart
// was emptied (order placed, login boundary, user action).
func (p *Producer) PublishCartCleared(ctx context.Context, userID, reason string) error {
	return p.publish(ctx, TopicCartCleared, userID, AggregateTypeCart, CartClearedData{
		UserID: userID,
		Reason: reason,
	})
}

// PublishCheckoutCompleted publishes a checkout.completed event.
func (p *Producer) PublishCheckoutCompleted(ctx context.Context, session *domain.CheckoutSession, totalAmount int64) error {
	return p.publish(ctx, TopicCheckoutCompleted, session.ID, AggregateTypeCheckout, CheckoutFinishedData{
		SessionID:   session.ID,
		UserID:      session.UserID,
		OrderID:     session.Outcome.OrderID,
		TotalAmount: totalAmount,
	})
}

// PublishCheckoutFailed publishes a checkout.failed event.
func (p *Producer) PublishCheckoutFailed(ctx context.Context, session *domain.CheckoutSession, reason string) error {
	return p.publish(ctx, TopicCheckoutFailed, session.ID, AggregateTypeCheckout, CheckoutFinishedData{
		SessionID: session.ID,
		UserID:    session.UserID,
		Reason:    reason,
	})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
