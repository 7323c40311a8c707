package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/verdantleaf/storefront/internal/domain"
	"github.com/verdantleaf/storefront/pkg/httpclient"
)

// OrderAPI calls the order service to create orders.
type OrderAPI struct {
	baseURL string
	doer    HTTPDoer
}

// NewOrderAPI creates an order service client.
func NewOrderAPI(baseURL string, doer HTTPDoer) *OrderAPI {
	return &OrderAPI{baseURL: baseURL, doer: doer}
}

type createOrderResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CreateOrder submits an order and returns the created order ID.
func (c *OrderAPI) CreateOrder(ctx context.Context, userID string, sub *domain.OrderSubmission) (string, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("marshal order submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("call order service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", httpclient.ParseResponseError(resp, "order")
	}

	var orderResp createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}

	return orderResp.Data.ID, nil
}
