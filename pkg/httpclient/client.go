package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Config holds retry and pooling settings for the outbound HTTP client.
type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	MaxConnsPerHost int
}

// DefaultConfig returns the settings used for storefront-to-backend calls.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    time.Second,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
	}
}

// Client is an http.Client with pooled connections and transparent retries
// for transient failures.
type Client struct {
	hc  *http.Client
	cfg Config
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	return &Client{
		hc: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
				MaxConnsPerHost:       cfg.MaxConnsPerHost,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: time.Second,
			},
		},
		cfg: cfg,
	}
}

// Do sends the request, retrying transient network errors and 5xx replies
// (501 excepted) with capped exponential backoff. Only idempotent methods
// are retried: a POST that dies mid-flight may already have been applied,
// and resubmitting it can duplicate the side effect. When all retries
// produce 5xx the last response is returned to the caller so it can inspect
// the body; the error is reserved for requests that never completed.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	retryAllowed := idempotent(req.Method)

	for attempt := 0; ; attempt++ {
		resp, err := c.hc.Do(req)
		switch {
		case err != nil:
			if !retryAllowed || !retryable(err) || attempt >= c.cfg.MaxRetries {
				return nil, fmt.Errorf("http request failed after %d attempts: %w", attempt+1, err)
			}
		case retryAllowed && resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented:
			if attempt >= c.cfg.MaxRetries {
				return resp, nil
			}
			_ = resp.Body.Close()
		default:
			return resp, nil
		}

		if err := c.backoff(ctx, attempt); err != nil {
			return nil, err
		}
	}
}

func (c *Client) backoff(ctx context.Context, attempt int) error {
	wait := c.cfg.RetryWaitMin << uint(attempt)
	if wait > c.cfg.RetryWaitMax || wait <= 0 {
		wait = c.cfg.RetryWaitMax
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get issues a GET through Do.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	return c.Do(ctx, req)
}

// idempotent reports whether the method may be safely repeated per RFC 9110.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
