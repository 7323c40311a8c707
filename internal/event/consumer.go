package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/verdantleaf/storefront/pkg/kafka"
)

// TopicUserAuthenticated is published by the auth service whenever a user
// session is established.
var TopicUserAuthenticated = pkgkafka.Topic("user", "authenticated")

// UserAuthenticatedData is the payload of a user.authenticated event.
type UserAuthenticatedData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// CartClearer resets a user's cart. Satisfied by service.CartService.
type CartClearer interface {
	HandleAuthenticationEstablished(ctx context.Context, userID string) error
}

// NewAuthConsumer returns a Kafka consumer that clears a user's cart whenever
// that user authenticates. Carts are not carried across login boundaries:
// every established session starts empty, including same-user re-logins.
func NewAuthConsumer(brokers []string, groupID string, carts CartClearer, logger *slog.Logger) *pkgkafka.Consumer {
	handler := func(ctx context.Context, event *pkgkafka.Event) error {
		var data UserAuthenticatedData
		if err := event.UnmarshalData(&data); err != nil {
			return fmt.Errorf("unmarshal user.authenticated data: %w", err)
		}
		if data.UserID == "" {
			logger.WarnContext(ctx, "user.authenticated event without user_id, skipping",
				slog.String("event_id", event.EventID),
			)
			return nil
		}

		if err := carts.HandleAuthenticationEstablished(ctx, data.UserID); err != nil {
			return fmt.Errorf("clear cart on login: %w", err)
		}

		logger.InfoContext(ctx, "cart cleared on authentication",
			slog.String("user_id", data.UserID),
		)
		return nil
	}

	return pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   TopicUserAuthenticated,
	}, handler, logger)
}
