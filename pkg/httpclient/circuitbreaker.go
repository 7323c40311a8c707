package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the breaker is rejecting requests.
var ErrCircuitOpen = gobreaker.ErrOpenState

var breakerStateGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

// CircuitBreakerConfig tunes when a downstream is considered unhealthy and
// how long it is given to recover.
type CircuitBreakerConfig struct {
	Name         string
	MaxRequests  uint32        // probes allowed while half-open
	Interval     time.Duration // closed-state counter reset period
	Timeout      time.Duration // open duration before half-open
	FailureRatio float64
	MinRequests  uint32 // requests observed before the ratio applies
}

// DefaultCircuitBreakerConfig trips after half of at least five requests in
// a minute fail, then probes again after thirty seconds.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// CircuitBreakerClient guards a retrying Client with a gobreaker instance.
// A 5xx reply counts as a failure toward tripping the breaker, the same as
// a transport error.
type CircuitBreakerClient struct {
	inner   *Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	name    string
}

// NewCircuitBreakerClient wraps client in a named circuit breaker.
func NewCircuitBreakerClient(client *Client, cfg CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerClient {
	breakerStateGauge.WithLabelValues(cfg.Name).Set(0)

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= cfg.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerStateGauge.WithLabelValues(name).Set(gaugeValue(to))
		},
	})

	return &CircuitBreakerClient{inner: client, breaker: breaker, name: cfg.Name}
}

func gaugeValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Do runs the request through the breaker. When the breaker is open the
// request is rejected immediately with ErrCircuitOpen.
func (c *CircuitBreakerClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.inner.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%s: server error %d: %s", c.name, resp.StatusCode, snippet)
		}
		return resp, nil
	})
}

// State exposes the breaker state, mostly for tests and diagnostics.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.breaker.State()
}
