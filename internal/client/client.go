package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/verdantleaf/storefront/pkg/httpclient"
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// envelope is the standard response wrapper returned by the backend services.
type envelope[T any] struct {
	Data T `json:"data"`
}

// getJSON issues a GET with the user identity header and decodes the standard
// data envelope into out.
func getJSON[T any](ctx context.Context, doer HTTPDoer, url, userID, serviceName string) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return zero, fmt.Errorf("create %s request: %w", serviceName, err)
	}
	req.Header.Set("Accept", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := doer.Do(ctx, req)
	if err != nil {
		return zero, fmt.Errorf("call %s: %w", serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return zero, httpclient.ParseResponseError(resp, serviceName)
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, fmt.Errorf("decode %s response: %w", serviceName, err)
	}

	return env.Data, nil
}
