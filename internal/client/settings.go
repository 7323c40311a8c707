package client

import (
	"context"

	"github.com/verdantleaf/storefront/internal/domain"
)

// SettingsAPI calls the back-office settings service for store-wide shipping
// methods and payment gateways.
type SettingsAPI struct {
	baseURL string
	doer    HTTPDoer
}

// NewSettingsAPI creates a settings service client.
func NewSettingsAPI(baseURL string, doer HTTPDoer) *SettingsAPI {
	return &SettingsAPI{baseURL: baseURL, doer: doer}
}

// ListShippingMethods returns the configured delivery options.
func (c *SettingsAPI) ListShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error) {
	return getJSON[[]domain.ShippingMethod](ctx, c.doer, c.baseURL+"/api/v1/settings/shipping-methods", "", "settings")
}

// ListPaymentGateways returns the configured payment gateways, enabled or not.
// Filtering to enabled gateways is the caller's concern.
func (c *SettingsAPI) ListPaymentGateways(ctx context.Context) ([]domain.PaymentGateway, error) {
	return getJSON[[]domain.PaymentGateway](ctx, c.doer, c.baseURL+"/api/v1/settings/payment-gateways", "", "settings")
}
