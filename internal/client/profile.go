package client

import (
	"context"

	"github.com/verdantleaf/storefront/internal/domain"
)

// ProfileAPI calls the profile backend for a user's saved addresses and
// payment methods.
type ProfileAPI struct {
	baseURL string
	doer    HTTPDoer
}

// NewProfileAPI creates a profile service client.
func NewProfileAPI(baseURL string, doer HTTPDoer) *ProfileAPI {
	return &ProfileAPI{baseURL: baseURL, doer: doer}
}

// ListAddresses returns the user's saved shipping addresses.
func (c *ProfileAPI) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	return getJSON[[]domain.Address](ctx, c.doer, c.baseURL+"/api/v1/addresses", userID, "profile")
}

// ListPaymentMethods returns the user's saved card summaries.
func (c *ProfileAPI) ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	return getJSON[[]domain.PaymentMethod](ctx, c.doer, c.baseURL+"/api/v1/payment-methods", userID, "profile")
}
